package main

import (
	"log/slog"
	"testing"
)

// newTestLogger returns a logger that writes to t.Log, so logs only show up
// on failure or with -v.
func newTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// placeNode adds a node at a fixed spot with the default size and style.
func placeNode(t testing.TB, d *Diagram, x, y float64) Node {
	t.Helper()
	return d.AddNode("node", Point{X: x, Y: y}, Size{Width: 150, Height: 60}, DefaultStyle())
}
