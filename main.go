package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("mindmap", pflag.ContinueOnError)
	registerFlags(flags)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mindmap [flags] [file.json]\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfgFile, _ := flags.GetString("config")
	cfg, err := LoadConfig(cfgFile, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, closer, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	m := newModel(cfg, log, NewDiagram(log))
	if flags.NArg() > 0 {
		path := flags.Arg(0)
		if err := m.openFile(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
				os.Exit(1)
			}
			// A new file is created on the first save.
			m.currentFile = path
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		log.Error("program exited", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.help:
			m.handleHelpKey(msg)
		case m.mode == ModeTextInput:
			m.handleTextInputKey(msg)
		case m.mode == ModeMove:
			m.handleMoveKey(msg)
		case m.mode == ModeFileInput:
			m.handleFileInputKey(msg)
		case m.mode == ModeConfirm:
			cmd = m.handleConfirmKey(msg)
		default:
			cmd = m.handleNormalKey(msg)
		}
	}
	return m, cmd
}

func (m *model) setError(err error) {
	m.log.Warn("operation failed", "err", err)
	m.errorMessage = err.Error()
	m.successMessage = ""
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) handleHelpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
}

func (m *model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key != "esc" {
		m.clearMessages()
	}
	switch key {
	case "q":
		if !m.cfg.Confirmations {
			return tea.Quit
		}
		m.confirm(ConfirmQuit, "")
	case "?":
		m.help = true
	case "esc":
		m.clearMessages()
		if m.ctrl.State().Connecting() {
			m.ctrl.CancelConnection()
		} else {
			m.ctrl.ClickEmpty()
		}
	case "n":
		m.addNodeAtCenter()
	case "N":
		if m.cfg.Confirmations {
			m.confirm(ConfirmNewDiagram, "")
		} else {
			m.newDiagram()
		}
	case "c":
		m.toggleConnection()
	case "x", "delete":
		m.deleteSelected()
	case "e", "enter":
		m.startEdit()
	case "m":
		m.startMove()
	case "tab":
		m.panelFocus = (m.panelFocus + 1) % len(panelFields)
	case "shift+tab":
		m.panelFocus = (m.panelFocus + len(panelFields) - 1) % len(panelFields)
	case "]":
		m.cyclePanelField(1)
	case "[":
		m.cyclePanelField(-1)
	case "y":
		m.copySelected()
	case "P":
		m.paste()
	case "s":
		m.beginFileOp(FileOpSave)
	case "o":
		m.beginFileOp(FileOpOpen)
	case "p":
		m.beginFileOp(FileOpExportPNG)
	case "t":
		m.beginFileOp(FileOpExportTXT)
	case "0":
		m.panX, m.panY = 0, 0
	default:
		if isNavigationKey(key) {
			m.handleNavigation(key, m.getMoveSpeed(key))
		}
	}
	return nil
}

func (m *model) runToolbarAction(a toolbarAction) {
	m.clearMessages()
	switch a {
	case actionAddNode:
		m.addNodeAtCenter()
	case actionConnect:
		m.toggleConnection()
	case actionLoad:
		m.beginFileOp(FileOpOpen)
	case actionSave:
		m.beginFileOp(FileOpSave)
	case actionExportPNG:
		m.beginFileOp(FileOpExportPNG)
	case actionExportTXT:
		m.beginFileOp(FileOpExportTXT)
	}
}

func (m *model) selectedNode() (Node, bool) {
	id := m.ctrl.State().SelectedID()
	if id == "" {
		return Node{}, false
	}
	return m.ctrl.Diagram().Node(id)
}

// addNodeAtCenter places a new node in the middle of the visible canvas.
func (m *model) addNodeAtCenter() Node {
	cols, rows := m.canvasSize()
	center := m.viewport().ToWorld(cols/2, rows/2)
	return m.ctrl.AddNode(center.Sub(Point{X: defaultNodeSize.Width / 2, Y: defaultNodeSize.Height / 2}))
}

func (m *model) toggleConnection() {
	if m.ctrl.ToggleConnection() {
		return
	}
	if m.ctrl.Dragging() {
		m.errorMessage = "Finish moving the node first"
		return
	}
	m.errorMessage = "Select a node to connect from"
}

func (m *model) confirm(action ConfirmAction, nodeID string) {
	m.confirmAction = action
	m.confirmNodeID = nodeID
	m.mode = ModeConfirm
}

func (m *model) deleteSelected() {
	n, ok := m.selectedNode()
	if !ok {
		return
	}
	if m.cfg.Confirmations {
		m.confirm(ConfirmDeleteNode, n.ID)
		return
	}
	m.ctrl.DeleteNode(n.ID)
}

func (m *model) newDiagram() {
	if err := m.ctrl.Load(Snapshot{}); err != nil {
		m.setError(err)
		return
	}
	m.currentFile = ""
	m.panX, m.panY = 0, 0
}

func (m *model) cyclePanelField(delta int) {
	n, ok := m.selectedNode()
	if !ok {
		return
	}
	upd, ok := panelFields[m.panelFocus].cycle(n, delta)
	if !ok {
		return
	}
	if _, err := m.ctrl.UpdateNode(n.ID, upd); err != nil {
		m.setError(err)
	}
}

func (m *model) copySelected() {
	n, ok := m.selectedNode()
	if !ok {
		return
	}
	m.copied = &n
	if err := writeClipboardText(n.Text); err != nil {
		m.log.Debug("clipboard unavailable", "err", err)
	}
	m.successMessage = "Copied node"
}

// paste adds a node in the middle of the view. It takes the copied node's
// shape and style, and the system clipboard's text when there is any.
func (m *model) paste() {
	text := ""
	if raw, err := readClipboardText(); err == nil {
		text = cleanClipboardText(raw)
	}
	if text == "" && m.copied == nil {
		return
	}
	n := m.addNodeAtCenter()
	upd := NodeUpdate{}
	if m.copied != nil {
		shape := m.copied.Shape
		upd.Shape = &shape
		upd.Size = &Size{Width: m.copied.Width, Height: m.copied.Height}
		upd.Style = m.copied.Style.asUpdate()
		if text == "" {
			text = m.copied.Text
		}
	}
	upd.Text = &text
	if _, err := m.ctrl.UpdateNode(n.ID, upd); err != nil {
		m.setError(err)
	}
}

func (m *model) startEdit() {
	n, ok := m.selectedNode()
	if !ok {
		return
	}
	m.editNodeID = n.ID
	m.editText = []rune(n.Text)
	m.editCursorPos = len(m.editText)
	m.mode = ModeTextInput
}

func (m *model) stopEdit() {
	m.mode = ModeNormal
	m.editNodeID = ""
	m.editText = nil
	m.editCursorPos = 0
}

func (m *model) insertText(rs []rune) {
	text := make([]rune, 0, len(m.editText)+len(rs))
	text = append(text, m.editText[:m.editCursorPos]...)
	text = append(text, rs...)
	text = append(text, m.editText[m.editCursorPos:]...)
	m.editText = text
	m.editCursorPos += len(rs)
}

func (m *model) handleTextInputKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopEdit()
	case tea.KeyCtrlS:
		text := string(m.editText)
		if _, err := m.ctrl.UpdateNode(m.editNodeID, NodeUpdate{Text: &text}); err != nil {
			m.setError(err)
		}
		m.stopEdit()
	case tea.KeyCtrlV:
		if raw, err := readClipboardText(); err == nil {
			m.insertText([]rune(cleanClipboardText(raw)))
		}
	case tea.KeyLeft:
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
	case tea.KeyRight:
		if m.editCursorPos < len(m.editText) {
			m.editCursorPos++
		}
	case tea.KeyHome:
		m.editCursorPos = 0
	case tea.KeyEnd:
		m.editCursorPos = len(m.editText)
	case tea.KeyEnter:
		m.insertText([]rune{'\n'})
	case tea.KeyBackspace:
		if m.editCursorPos > 0 {
			m.editText = append(m.editText[:m.editCursorPos-1], m.editText[m.editCursorPos:]...)
			m.editCursorPos--
		}
	case tea.KeyDelete:
		if m.editCursorPos < len(m.editText) {
			m.editText = append(m.editText[:m.editCursorPos], m.editText[m.editCursorPos+1:]...)
		}
	case tea.KeySpace:
		m.insertText([]rune{' '})
	case tea.KeyRunes:
		m.insertText(msg.Runes)
	}
}

func (m *model) startMove() {
	n, ok := m.selectedNode()
	if !ok {
		return
	}
	m.movePointer = Point{X: n.X, Y: n.Y}
	if !m.ctrl.BeginDrag(n.ID, m.movePointer) {
		m.errorMessage = "Cannot move a node right now"
		return
	}
	m.mode = ModeMove
}

func (m *model) handleMoveKey(msg tea.KeyMsg) {
	key := msg.String()
	switch key {
	case "esc":
		m.ctrl.CancelDrag()
		m.mode = ModeNormal
	case "enter":
		if err := m.ctrl.EndDrag(); err != nil {
			m.setError(err)
		}
		m.mode = ModeNormal
	default:
		if isNavigationKey(key) {
			m.handleNavigation(key, m.getMoveSpeed(key))
		}
	}
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmDeleteNode:
			m.ctrl.DeleteNode(m.confirmNodeID)
		case ConfirmQuit:
			return tea.Quit
		case ConfirmNewDiagram:
			m.newDiagram()
		case ConfirmOverwriteFile:
			path := m.filename
			m.filename = ""
			if err := m.save(path); err != nil {
				m.setError(err)
				m.mode = ModeFileInput
				m.filename = path
			}
		}
		m.confirmNodeID = ""
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
			m.fileOp = FileOpSave
		} else {
			m.mode = ModeNormal
		}
		m.confirmNodeID = ""
	}
	return nil
}
