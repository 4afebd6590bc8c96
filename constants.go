package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeTextInput
	ModeMove
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpExportPNG
	FileOpExportTXT
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmQuit
	ConfirmNewDiagram
	ConfirmOverwriteFile
)

const (
	toolbarHeight = 1
	statusHeight  = 1
	panelWidth    = 32
)
