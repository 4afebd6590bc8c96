package main

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	connectorColor = "#9e9e9e"
	previewColor   = "#4caf50"
	handleColor    = "#2196f3"
	labelColor     = "#000000"
)

// parseColor accepts #rgb and #rrggbb. Anything else yields fallback, which
// must itself be valid.
func parseColor(s, fallback string) colorful.Color {
	if c, err := colorful.Hex(strings.TrimSpace(s)); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

// hexColor normalises s to #rrggbb, falling back like parseColor.
func hexColor(s, fallback string) string {
	return parseColor(s, fallback).Hex()
}
