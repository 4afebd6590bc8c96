package main

const panCells = 4

func (m *model) handleNavigation(key string, speed int) {
	if m.mode == ModeMove {
		m.handleMove(key, speed)
		return
	}
	m.handlePan(key, speed)
}

func direction(key string) (dx, dy int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0
	case "l", "right", "L", "shift+right":
		return 1, 0
	case "k", "up", "K", "shift+up":
		return 0, -1
	case "j", "down", "J", "shift+down":
		return 0, 1
	}
	return 0, 0
}

func (m *model) handlePan(key string, speed int) {
	dx, dy := direction(key)
	m.panX += float64(dx*speed*panCells) * m.cfg.CellWidth
	m.panY += float64(dy*speed*panCells) * m.cfg.CellHeight
}

// handleMove steps the node being moved by whole cells.
func (m *model) handleMove(key string, speed int) {
	dx, dy := direction(key)
	m.movePointer = m.movePointer.Add(Point{
		X: float64(dx*speed) * m.cfg.CellWidth,
		Y: float64(dy*speed) * m.cfg.CellHeight,
	})
	m.ctrl.PointerMove(m.movePointer)
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func isNavigationKey(key string) bool {
	dx, dy := direction(key)
	return dx != 0 || dy != 0
}
