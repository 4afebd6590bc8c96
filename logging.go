package main

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// newLogger logs to path, or nowhere when path is empty. The terminal belongs
// to the UI, so nothing is ever written to stderr.
func newLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := tea.LogToFile(path, "mindmap")
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f, nil
}
