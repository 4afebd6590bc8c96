package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type toolbarAction int

const (
	actionAddNode toolbarAction = iota
	actionConnect
	actionLoad
	actionSave
	actionExportPNG
	actionExportTXT
)

type toolbarButton struct {
	action toolbarAction
	key    string
	label  func(Interaction) string
	// enabled is nil for buttons that are always available.
	enabled func(Interaction) bool
}

func fixedLabel(s string) func(Interaction) string {
	return func(Interaction) string { return s }
}

var toolbarButtons = []toolbarButton{
	{action: actionAddNode, key: "n", label: fixedLabel("Add Node")},
	{
		action: actionConnect,
		key:    "c",
		label: func(st Interaction) string {
			if st.Connecting() {
				return "Cancel Connection"
			}
			return "Connect Nodes"
		},
		enabled: func(st Interaction) bool { return st.Kind != StateIdle },
	},
	{action: actionLoad, key: "o", label: fixedLabel("Load")},
	{action: actionSave, key: "s", label: fixedLabel("Save")},
	{action: actionExportPNG, key: "p", label: fixedLabel("Export PNG")},
	{action: actionExportTXT, key: "t", label: fixedLabel("Export TXT")},
}

var (
	buttonStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#3498db"))
	buttonActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#e74c3c")).Bold(true)
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e"))
)

func (b toolbarButton) text(st Interaction) string {
	return " " + b.label(st) + " (" + b.key + ") "
}

func (b toolbarButton) isEnabled(st Interaction) bool {
	return b.enabled == nil || b.enabled(st)
}

// toolbarView draws the buttons separated by one space.
func toolbarView(st Interaction, width int) string {
	var parts []string
	for _, b := range toolbarButtons {
		style := buttonStyle
		switch {
		case !b.isEnabled(st):
			style = buttonDisabledStyle
		case b.action == actionConnect && st.Connecting():
			style = buttonActiveStyle
		}
		parts = append(parts, style.Render(b.text(st)))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, " "))
}

// toolbarHit maps a column of the toolbar row to an enabled button.
func toolbarHit(st Interaction, x int) (toolbarAction, bool) {
	col := 0
	for _, b := range toolbarButtons {
		w := lipgloss.Width(b.text(st))
		if x >= col && x < col+w {
			return b.action, b.isEnabled(st)
		}
		col += w + 1
	}
	return 0, false
}
