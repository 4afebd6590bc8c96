package main

import "log/slog"

type model struct {
	width  int
	height int

	cfg      *Config
	log      *slog.Logger
	ctrl     *Controller
	renderer *Renderer

	// viewport origin in world units
	panX float64
	panY float64

	mode       Mode
	help       bool
	helpScroll int
	panelFocus int

	editNodeID    string
	editText      []rune
	editCursorPos int

	// keyboard move; the pointer the drag follows
	movePointer Point

	filename          string
	fileList          []string
	selectedFileIndex int
	fileOp            FileOperation
	currentFile       string

	confirmAction ConfirmAction
	confirmNodeID string

	copied *Node

	errorMessage   string
	successMessage string
}

func newModel(cfg *Config, log *slog.Logger, d *Diagram) model {
	r := NewRenderer(log)
	return model{
		cfg:               cfg,
		log:               log,
		ctrl:              NewController(d, r, log),
		renderer:          r,
		selectedFileIndex: -1,
	}
}
