package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

type Node struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Shape  ShapeKind `json:"shape,omitempty"`
	Style  Style     `json:"style"`
}

func (n Node) Bounds() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// Center is where connectors attach.
func (n Node) Center() Point {
	return AnchorPoint(n.X, n.Y, n.Width, n.Height)
}

type Link struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Touches reports whether the link has nodeID at either end.
func (l Link) Touches(nodeID string) bool {
	return l.Source == nodeID || l.Target == nodeID
}

func (l Link) connects(a, b string) bool {
	return (l.Source == a && l.Target == b) || (l.Source == b && l.Target == a)
}

type Size struct {
	Width, Height float64
}

// NodeUpdate lists the fields to change on a node. Nil fields are kept and
// Style is merged field by field.
type NodeUpdate struct {
	Text     *string
	Position *Point
	Size     *Size
	Shape    *ShapeKind
	Style    StyleUpdate
}

// Snapshot is an independent copy of the diagram, in insertion order.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Diagram is the node/link graph. It is the single source of truth; every
// exported mutation either succeeds completely or leaves it untouched.
type Diagram struct {
	nodes     map[string]*Node
	nodeOrder []string
	links     map[string]*Link
	linkOrder []string
	version   uint64
	log       *slog.Logger
}

func NewDiagram(log *slog.Logger) *Diagram {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Diagram{
		nodes: make(map[string]*Node),
		links: make(map[string]*Link),
		log:   log,
	}
}

// Version changes after every successful mutation.
func (d *Diagram) Version() uint64 {
	return d.version
}

func (d *Diagram) touch() {
	d.version++
}

func (d *Diagram) newID(prefix string) string {
	for {
		id := prefix + "-" + uuid.New().String()
		_, isNode := d.nodes[id]
		_, isLink := d.links[id]
		if !isNode && !isLink {
			return id
		}
	}
}

func (d *Diagram) AddNode(text string, pos Point, size Size, style Style) Node {
	n := &Node{
		ID:     d.newID("node"),
		Text:   text,
		X:      pos.X,
		Y:      pos.Y,
		Width:  size.Width,
		Height: size.Height,
		Style:  style,
	}
	d.nodes[n.ID] = n
	d.nodeOrder = append(d.nodeOrder, n.ID)
	d.touch()
	d.log.Debug("node added", "id", n.ID, "x", n.X, "y", n.Y)
	return *n
}

func (d *Diagram) UpdateNode(id string, upd NodeUpdate) (Node, error) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("update node %q: %w", id, ErrNotFound)
	}
	if upd.Size != nil && (upd.Size.Width <= 0 || upd.Size.Height <= 0) {
		return Node{}, fmt.Errorf("update node %q: size %gx%g: %w", id, upd.Size.Width, upd.Size.Height, ErrValidation)
	}

	next := *n
	if upd.Text != nil {
		next.Text = *upd.Text
	}
	if upd.Position != nil {
		next.X, next.Y = upd.Position.X, upd.Position.Y
	}
	if upd.Size != nil {
		next.Width, next.Height = upd.Size.Width, upd.Size.Height
	}
	if upd.Shape != nil {
		next.Shape = *upd.Shape
	}
	next.Style = upd.Style.apply(next.Style)

	*n = next
	d.touch()
	return next, nil
}

// DeleteNode removes the node and every link touching it. Unknown ids are
// ignored.
func (d *Diagram) DeleteNode(id string) {
	if _, ok := d.nodes[id]; !ok {
		return
	}
	delete(d.nodes, id)
	d.nodeOrder = slices.DeleteFunc(d.nodeOrder, func(s string) bool { return s == id })

	removed := 0
	d.linkOrder = slices.DeleteFunc(d.linkOrder, func(lid string) bool {
		if d.links[lid].Touches(id) {
			delete(d.links, lid)
			removed++
			return true
		}
		return false
	})
	d.touch()
	d.log.Debug("node deleted", "id", id, "links_removed", removed)
}

// AddLink connects two nodes. It returns a nil link and no error when the
// pair is already connected in either direction, or when source == target.
func (d *Diagram) AddLink(source, target string) (*Link, error) {
	if _, ok := d.nodes[source]; !ok {
		return nil, fmt.Errorf("add link: source %q: %w", source, ErrNotFound)
	}
	if _, ok := d.nodes[target]; !ok {
		return nil, fmt.Errorf("add link: target %q: %w", target, ErrNotFound)
	}
	if source == target {
		d.log.Debug("self link ignored", "node", source)
		return nil, nil
	}
	for _, l := range d.links {
		if l.connects(source, target) {
			d.log.Debug("duplicate link ignored", "source", source, "target", target, "existing", l.ID)
			return nil, nil
		}
	}

	l := &Link{ID: d.newID("link"), Source: source, Target: target}
	d.links[l.ID] = l
	d.linkOrder = append(d.linkOrder, l.ID)
	d.touch()
	d.log.Debug("link added", "id", l.ID, "source", source, "target", target)
	out := *l
	return &out, nil
}

func (d *Diagram) DeleteLink(id string) {
	if _, ok := d.links[id]; !ok {
		return
	}
	delete(d.links, id)
	d.linkOrder = slices.DeleteFunc(d.linkOrder, func(s string) bool { return s == id })
	d.touch()
	d.log.Debug("link deleted", "id", id)
}

func (d *Diagram) Node(id string) (Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (d *Diagram) Link(id string) (Link, bool) {
	l, ok := d.links[id]
	if !ok {
		return Link{}, false
	}
	return *l, true
}

func (d *Diagram) Nodes() []Node {
	out := make([]Node, 0, len(d.nodeOrder))
	for _, id := range d.nodeOrder {
		out = append(out, *d.nodes[id])
	}
	return out
}

func (d *Diagram) Links() []Link {
	out := make([]Link, 0, len(d.linkOrder))
	for _, id := range d.linkOrder {
		out = append(out, *d.links[id])
	}
	return out
}

// LinksFor returns the links with nodeID at either end.
func (d *Diagram) LinksFor(nodeID string) []Link {
	var out []Link
	for _, id := range d.linkOrder {
		if l := d.links[id]; l.Touches(nodeID) {
			out = append(out, *l)
		}
	}
	return out
}

func (d *Diagram) Snapshot() Snapshot {
	return Snapshot{Nodes: d.Nodes(), Links: d.Links()}
}

// Restore replaces the whole diagram with s. An invalid snapshot is rejected
// with ErrValidation and the diagram is not modified.
func (d *Diagram) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	nodes := make(map[string]*Node, len(s.Nodes))
	nodeOrder := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		n := n
		nodes[n.ID] = &n
		nodeOrder = append(nodeOrder, n.ID)
	}
	links := make(map[string]*Link, len(s.Links))
	linkOrder := make([]string, 0, len(s.Links))
	for _, l := range s.Links {
		l := l
		links[l.ID] = &l
		linkOrder = append(linkOrder, l.ID)
	}

	d.nodes, d.nodeOrder = nodes, nodeOrder
	d.links, d.linkOrder = links, linkOrder
	d.touch()
	d.log.Info("diagram restored", "nodes", len(nodes), "links", len(links))
	return nil
}

// Validate checks the invariants Restore relies on: unique non-empty ids,
// positive sizes, links between two distinct existing nodes, no pair linked
// twice.
func (s Snapshot) Validate() error {
	ids := make(map[string]bool, len(s.Nodes)+len(s.Links))
	nodeIDs := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node %d has no id", ErrValidation, i)
		}
		if ids[n.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrValidation, n.ID)
		}
		if n.Width <= 0 || n.Height <= 0 {
			return fmt.Errorf("%w: node %q has size %gx%g", ErrValidation, n.ID, n.Width, n.Height)
		}
		ids[n.ID] = true
		nodeIDs[n.ID] = true
	}

	type pair struct{ a, b string }
	seen := make(map[pair]bool, len(s.Links))
	for i, l := range s.Links {
		if l.ID == "" {
			return fmt.Errorf("%w: link %d has no id", ErrValidation, i)
		}
		if ids[l.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrValidation, l.ID)
		}
		ids[l.ID] = true
		for _, end := range []string{l.Source, l.Target} {
			if !nodeIDs[end] {
				return fmt.Errorf("%w: link %q references missing node %q", ErrValidation, l.ID, end)
			}
		}
		if l.Source == l.Target {
			return fmt.Errorf("%w: link %q links node %q to itself", ErrValidation, l.ID, l.Source)
		}
		p := pair{l.Source, l.Target}
		if p.a > p.b {
			p.a, p.b = p.b, p.a
		}
		if seen[p] {
			return fmt.Errorf("%w: link %q duplicates %s-%s", ErrValidation, l.ID, l.Source, l.Target)
		}
		seen[p] = true
	}
	return nil
}
