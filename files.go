package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// fileDir is where saved diagrams are listed and opened from.
func (m *model) fileDir() string {
	if m.cfg.SaveDirectory != "" {
		return m.cfg.SaveDirectory
	}
	return "."
}

func (m *model) scanJSONFiles() {
	m.fileList = nil
	m.selectedFileIndex = -1
	entries, err := os.ReadDir(m.fileDir())
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	sort.Strings(m.fileList)
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = strings.TrimSuffix(m.fileList[0], ".json")
	}
}

func (m *model) beginFileOp(op FileOperation) {
	if (op == FileOpExportPNG || op == FileOpExportTXT) && m.ctrl.Scene().Empty() {
		m.setError(ErrRenderTargetMissing)
		return
	}
	m.fileOp = op
	m.mode = ModeFileInput
	m.errorMessage = ""
	m.filename = ""
	if m.currentFile != "" {
		m.filename = strings.TrimSuffix(filepath.Base(m.currentFile), filepath.Ext(m.currentFile))
	}
	if op == FileOpOpen {
		m.scanJSONFiles()
	}
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
	case tea.KeyUp:
		m.stepFileList(-1)
	case tea.KeyDown:
		m.stepFileList(1)
	case tea.KeyEnter:
		m.submitFile()
	case tea.KeyBackspace:
		if rs := []rune(m.filename); len(rs) > 0 {
			m.filename = string(rs[:len(rs)-1])
			m.selectedFileIndex = -1
		}
	case tea.KeySpace:
		m.filename += " "
		m.selectedFileIndex = -1
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
		m.selectedFileIndex = -1
	}
}

func (m *model) stepFileList(delta int) {
	if m.fileOp != FileOpOpen || len(m.fileList) == 0 {
		return
	}
	n := len(m.fileList)
	if m.selectedFileIndex < 0 {
		m.selectedFileIndex = 0
	} else {
		m.selectedFileIndex = (m.selectedFileIndex + delta + n) % n
	}
	m.filename = strings.TrimSuffix(m.fileList[m.selectedFileIndex], ".json")
}

func (m *model) submitFile() {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "Please enter a filename"
		return
	}

	var err error
	switch m.fileOp {
	case FileOpOpen:
		path := withExt(name, ".json")
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.fileDir(), path)
		}
		err = m.openFile(path)
		if err == nil {
			m.successMessage = "Opened " + path
		}
	case FileOpSave:
		var path string
		if path, err = m.cfg.SavePath(withExt(name, ".json")); err != nil {
			break
		}
		if _, statErr := os.Stat(path); statErr == nil && m.cfg.Confirmations && path != m.currentFile {
			m.filename = path
			m.confirm(ConfirmOverwriteFile, "")
			return
		}
		err = m.save(path)
	case FileOpExportPNG:
		var path string
		if path, err = m.cfg.SavePath(withExt(name, ".png")); err != nil {
			break
		}
		if err = ExportPNGFile(path, m.ctrl.Scene(), PNGOptions{Padding: m.cfg.ExportPadding}); err == nil {
			m.log.Info("exported png", "path", path)
			m.successMessage = "Exported to " + absPath(path)
		}
	case FileOpExportTXT:
		var path string
		if path, err = m.cfg.SavePath(withExt(name, ".txt")); err != nil {
			break
		}
		canvas := NewSceneCanvas(m.ctrl.Scene(), m.cfg.CellWidth, m.cfg.CellHeight)
		if err = ExportTXTFile(path, canvas); err == nil {
			m.log.Info("exported text", "path", path)
			m.successMessage = "Exported to " + absPath(path)
		}
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.mode = ModeNormal
	m.filename = ""
}

func (m *model) save(path string) error {
	if err := SaveFile(path, m.ctrl.Diagram().Snapshot()); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	m.currentFile = path
	m.log.Info("saved diagram", "path", path)
	m.successMessage = "Saved to " + absPath(path)
	return nil
}

// openFile replaces the diagram with the one saved at path. On error the
// current diagram is kept.
func (m *model) openFile(path string) error {
	snap, err := LoadFile(path)
	if err != nil {
		return err
	}
	if err := m.ctrl.Load(snap); err != nil {
		return err
	}
	m.currentFile = path
	m.panX, m.panY = 0, 0
	m.log.Info("opened diagram", "path", path, "nodes", len(snap.Nodes))
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
