package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// diagramFile mirrors Snapshot with pointers so that missing arrays can be
// told apart from empty ones.
type diagramFile struct {
	Nodes *[]Node `json:"nodes"`
	Links *[]Link `json:"links"`
}

// DecodeSnapshot reads a saved diagram. Malformed JSON, a missing "nodes" or
// "links" array, or a snapshot that fails validation is an ErrValidation.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var f diagramFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return Snapshot{}, fmt.Errorf("%w: invalid diagram file: %v", ErrValidation, err)
	}
	if f.Nodes == nil {
		return Snapshot{}, fmt.Errorf("%w: invalid diagram file: missing nodes array", ErrValidation)
	}
	if f.Links == nil {
		return Snapshot{}, fmt.Errorf("%w: invalid diagram file: missing links array", ErrValidation)
	}
	s := Snapshot{Nodes: *f.Nodes, Links: *f.Links}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func EncodeSnapshot(w io.Writer, s Snapshot) error {
	if s.Nodes == nil {
		s.Nodes = []Node{}
	}
	if s.Links == nil {
		s.Links = []Link{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	return DecodeSnapshot(bytes.NewReader(data))
}

// SaveFile encodes fully before touching the file so a failed encode never
// leaves a truncated file behind.
func SaveFile(path string, s Snapshot) error {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, s); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}
