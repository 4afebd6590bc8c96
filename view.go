package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50")).Bold(true)
)

func (m model) showPanel() bool {
	return m.ctrl.State().SelectedID() != "" && m.width >= panelWidth+20
}

func (m model) canvasSize() (cols, rows int) {
	cols = m.width
	if m.showPanel() {
		cols -= panelWidth
	}
	rows = m.height - toolbarHeight - statusHeight
	return max(cols, 1), max(rows, 1)
}

// viewport is an empty surface matching the visible canvas area.
func (m model) viewport() *Canvas {
	cols, rows := m.canvasSize()
	return NewCanvas(cols, rows, m.cfg.CellWidth, m.cfg.CellHeight, m.panX, m.panY)
}

// screenToWorld maps a terminal cell to the world point at its center.
func (m model) screenToWorld(x, y int) Point {
	return m.viewport().ToWorld(x, y-toolbarHeight)
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	width := max(m.width, 1)
	_, rows := m.canvasSize()

	var result strings.Builder
	result.WriteString(toolbarView(m.ctrl.State(), width))
	result.WriteString("\n")

	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		result.WriteString(m.fileListView(width, rows))
	} else {
		canvas := m.viewport()
		canvas.Draw(m.ctrl.Scene())
		body := strings.Join(canvas.Render(), "\n")
		if m.showPanel() {
			if n, ok := m.ctrl.Diagram().Node(m.ctrl.State().SelectedID()); ok {
				body = lipgloss.JoinHorizontal(lipgloss.Top, body, panelView(n, m.panelFocus, panelWidth, rows))
			}
		}
		result.WriteString(body)
	}
	result.WriteString("\n")
	result.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(m.statusLine()))
	return result.String()
}

func (m model) fileListView(width, rows int) string {
	var b strings.Builder
	b.WriteString("Select a saved diagram:\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")
	used := 2
	if len(m.fileList) == 0 {
		b.WriteString("(No .json files found)\n")
		used++
	} else {
		maxFiles := max(rows-3, 1)
		start := 0
		if m.selectedFileIndex >= maxFiles {
			start = m.selectedFileIndex - maxFiles + 1
		}
		end := min(start+maxFiles, len(m.fileList))
		for i := start; i < end; i++ {
			name := strings.TrimSuffix(m.fileList[i], ".json")
			if i == m.selectedFileIndex {
				b.WriteString("> " + name + " <")
			} else {
				b.WriteString("  " + name)
			}
			b.WriteString("\n")
			used++
		}
	}
	b.WriteString(strings.Repeat("─", width))
	used++
	for ; used < rows; used++ {
		b.WriteString("\n")
	}
	return b.String()
}

func cursorText(text []rune, pos int) string {
	display := []rune(strings.ReplaceAll(string(text), "\n", "⏎"))
	pos = min(max(pos, 0), len(display))
	if pos >= len(display) {
		return string(display) + "█"
	}
	display[pos] = '█'
	return string(display)
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeTextInput:
		return fmt.Sprintf("Mode: EDIT | Text: %s | ←/→=move cursor, Enter=newline, Ctrl+S=save, Esc=cancel",
			cursorText(m.editText, m.editCursorPos))
	case ModeMove:
		return "Mode: MOVE | hjkl/arrows=move, Enter=finish, Esc=cancel"
	case ModeFileInput:
		var op string
		switch m.fileOp {
		case FileOpSave:
			op = "Save"
		case FileOpOpen:
			op = "Open"
		case FileOpExportPNG:
			op = "Export PNG"
		case FileOpExportTXT:
			op = "Export TXT"
		}
		status := fmt.Sprintf("Mode: FILE | %s filename: %s█", op, m.filename)
		if m.errorMessage != "" {
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		if m.fileOp == FileOpOpen {
			return status + " | ↑/↓=navigate, Enter=confirm, Esc=cancel"
		}
		return status + " | Enter=confirm, Esc=cancel"
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDeleteNode:
			message = "Delete this node and its connections? (y/n)"
		case ConfirmQuit:
			message = "Quit? Unsaved changes will be lost. (y/n)"
		case ConfirmNewDiagram:
			message = "Start a new diagram? Unsaved changes will be lost. (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.filename)
		}
		return "Mode: CONFIRM | " + message
	}

	st := m.ctrl.State()
	status := "Mode: " + m.modeString()
	if m.currentFile != "" {
		status += " | " + filepath.Base(m.currentFile)
	}
	d := m.ctrl.Diagram()
	status += fmt.Sprintf(" | %d nodes, %d links", len(d.Nodes()), len(d.Links()))
	if st.Connecting() {
		status += " | " + hintStyle.Render("Click on another node to create a connection")
	}
	switch {
	case m.errorMessage != "":
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " | " + successStyle.Render(m.successMessage)
	default:
		status += statusStyle.Render(" | ? for help | q to quit")
	}
	return status
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		if m.ctrl.State().Connecting() {
			return "CONNECT"
		}
		return "NORMAL"
	case ModeTextInput:
		return "EDIT"
	case ModeMove:
		return "MOVE"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"Mindmap Help",
	"============",
	"",
	"Mouse:",
	"------",
	"  Click node        Select it (or finish a connection)",
	"  Drag node         Move it",
	"  Click empty space Clear the selection",
	"  Click ⊗           Delete that connection",
	"  Wheel             Scroll the canvas",
	"",
	"Nodes:",
	"------",
	"  n                 Add a node in the middle of the view",
	"  e/Enter           Edit the selected node's text",
	"  m                 Move the selected node with the keyboard",
	"  x/Delete          Delete the selected node",
	"  y                 Copy the selected node",
	"  P                 Paste a node (clipboard text if there is any)",
	"",
	"Properties panel:",
	"-----------------",
	"  Tab/Shift+Tab     Focus the next/previous field",
	"  ] / [             Next/previous value of the focused field",
	"",
	"Connections:",
	"------------",
	"  c                 Connect from the selected node / cancel",
	"  Esc               Cancel connecting, or clear the selection",
	"",
	"View:",
	"-----",
	"  h/←/j/↓/k/↑/l/→   Scroll the canvas",
	"  Shift+h/j/k/l     Scroll twice as fast",
	"  0                 Back to the origin",
	"",
	"Files:",
	"------",
	"  s                 Save as JSON",
	"  o                 Open a JSON diagram",
	"  p                 Export as PNG",
	"  t                 Export as text",
	"  N                 New diagram",
	"",
	"General:",
	"  ?                 Toggle this help screen",
	"  q/Ctrl+C          Quit",
}

func (m model) helpView() string {
	visible := max(m.height-1, 1)
	start := min(m.helpScroll, max(len(helpLines)-visible, 0))
	end := min(start+visible, len(helpLines))
	result := strings.Join(helpLines[start:end], "\n")
	return result + "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		start+1, end, len(helpLines))
}
