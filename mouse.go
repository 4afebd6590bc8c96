package main

import tea "github.com/charmbracelet/bubbletea"

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.help || m.mode != ModeNormal {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.handlePan("up", 1)
		return nil
	case tea.MouseButtonWheelDown:
		m.handlePan("down", 1)
		return nil
	case tea.MouseButtonWheelLeft:
		m.handlePan("left", 1)
		return nil
	case tea.MouseButtonWheelRight:
		m.handlePan("right", 1)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(m.screenToWorld(msg.X, msg.Y))
	case tea.MouseActionRelease:
		if err := m.ctrl.EndDrag(); err != nil {
			m.setError(err)
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.clearMessages()
		if msg.Y < toolbarHeight {
			if action, ok := toolbarHit(m.ctrl.State(), msg.X); ok {
				m.runToolbarAction(action)
			}
			return nil
		}
		cols, rows := m.canvasSize()
		if msg.Y >= toolbarHeight+rows {
			return nil
		}
		if m.showPanel() && msg.X >= cols {
			m.handlePanelClick(msg.Y - toolbarHeight)
			return nil
		}
		m.pressCanvas(m.screenToWorld(msg.X, msg.Y))
	}
	return nil
}

// pressCanvas routes a click on the canvas: delete handles win over nodes,
// nodes over empty space.
func (m *model) pressCanvas(p Point) {
	m.ctrl.PointerMove(p)
	m.ctrl.Scene()

	// a terminal cell is much coarser than a pixel
	slack := max(m.cfg.CellWidth, m.cfg.CellHeight) / 2
	if id, ok := m.renderer.HitDeleteHandle(p, slack); ok {
		m.ctrl.DeleteLink(id)
		return
	}
	if id, ok := m.renderer.HitNode(p); ok {
		if m.ctrl.State().Connecting() {
			if err := m.ctrl.ClickNode(id); err != nil {
				m.setError(err)
			}
			return
		}
		m.ctrl.BeginDrag(id, p)
		return
	}
	m.ctrl.ClickEmpty()
}

// handlePanelClick focuses the field on the clicked row. Clicking the text
// field edits it; other fields step to their next value.
func (m *model) handlePanelClick(row int) {
	i := row - 2
	if i < 0 || i >= len(panelFields) {
		return
	}
	m.panelFocus = i
	if panelFields[i].options == nil {
		m.startEdit()
		return
	}
	m.cyclePanelField(1)
}
