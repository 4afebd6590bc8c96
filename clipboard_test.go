package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"windows newlines", "a\r\nb\r\n", "a\nb"},
		{"control chars", "a\x00b\x07c", "abc"},
		{"html", "<div><p>Tom &amp; Jerry</p></div>", "Tom & Jerry"},
		{"rtf", `{\rtf1\ansi{\fonttbl\f0 Helvetica;}\f0\pard Hello\par World}`, "Helvetica;Hello\nWorld"},
		{"rtf escapes", `{\rtf1 a\{b\}c\\d}`, `a{b}c\d`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanClipboardText(tt.in))
		})
	}
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML("  <html><body>x</body></html>"))
	assert.False(t, isHTML("a < b"))
	assert.False(t, isHTML("<notatag>"))
}
