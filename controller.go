package main

import (
	"fmt"
	"log/slog"
)

type StateKind int

const (
	StateIdle StateKind = iota
	StateSelected
	StateConnecting
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateConnecting:
		return "connecting"
	default:
		return "unknown"
	}
}

var (
	defaultNodeText = "New Node"
	defaultNodeSize = Size{Width: 150, Height: 60}
)

type dragGesture struct {
	nodeID      string
	origin      Point
	pointerDown Point
	current     Point
}

// Interaction is the selection and connection-mode state. NodeID is the
// selected node in StateSelected and the connection source in
// StateConnecting, and empty in StateIdle.
type Interaction struct {
	Kind    StateKind
	NodeID  string
	Pointer Point
	drag    *dragGesture
}

func (s Interaction) SelectedID() string {
	if s.Kind == StateSelected {
		return s.NodeID
	}
	return ""
}

func (s Interaction) Connecting() bool {
	return s.Kind == StateConnecting
}

func (s Interaction) SourceID() string {
	if s.Kind == StateConnecting {
		return s.NodeID
	}
	return ""
}

// Drag reports the node being dragged and where it currently sits.
func (s Interaction) Drag() (string, Point, bool) {
	if s.drag == nil {
		return "", Point{}, false
	}
	return s.drag.nodeID, s.drag.current, true
}

// Controller validates user commands, mutates the diagram and keeps the
// interaction state consistent with it.
type Controller struct {
	diagram  *Diagram
	renderer *Renderer
	state    Interaction
	log      *slog.Logger
}

func NewController(d *Diagram, r *Renderer, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{diagram: d, renderer: r, log: log}
}

func (c *Controller) Diagram() *Diagram { return c.diagram }

func (c *Controller) State() Interaction {
	st := c.state
	if st.drag != nil {
		g := *st.drag
		st.drag = &g
	}
	return st
}

// Scene brings the render layer up to date and returns it.
func (c *Controller) Scene() *Scene {
	return c.renderer.Sync(c.diagram, c.state)
}

func (c *Controller) setState(kind StateKind, nodeID string) {
	if c.state.Kind != kind || c.state.NodeID != nodeID {
		c.log.Debug("interaction", "from", c.state.Kind.String(), "to", kind.String(), "node", nodeID)
	}
	c.state.Kind = kind
	c.state.NodeID = nodeID
}

func (c *Controller) ClickNode(id string) error {
	if _, ok := c.diagram.Node(id); !ok {
		return fmt.Errorf("click node %q: %w", id, ErrNotFound)
	}
	switch c.state.Kind {
	case StateConnecting:
		source := c.state.NodeID
		if id == source {
			return nil
		}
		c.setState(StateIdle, "")
		if _, err := c.diagram.AddLink(source, id); err != nil {
			return err
		}
	default:
		c.setState(StateSelected, id)
	}
	return nil
}

// ClickEmpty clears the selection. Connection mode ignores it.
func (c *Controller) ClickEmpty() {
	if c.state.Kind == StateSelected {
		c.setState(StateIdle, "")
	}
}

// StartConnection enters connection mode from the selected node. It reports
// false when no node is selected or a drag is in progress.
func (c *Controller) StartConnection() bool {
	if c.state.Kind != StateSelected || c.state.drag != nil {
		return false
	}
	c.setState(StateConnecting, c.state.NodeID)
	return true
}

func (c *Controller) CancelConnection() {
	if c.state.Kind == StateConnecting {
		c.setState(StateIdle, "")
	}
}

// ToggleConnection is the toolbar's connect button.
func (c *Controller) ToggleConnection() bool {
	if c.state.Kind == StateConnecting {
		c.CancelConnection()
		return true
	}
	return c.StartConnection()
}

// AddNode places a default node at pos and selects it. While connecting the
// connection source is kept.
func (c *Controller) AddNode(pos Point) Node {
	n := c.diagram.AddNode(defaultNodeText, pos, defaultNodeSize, DefaultStyle())
	if c.state.Kind != StateConnecting {
		c.setState(StateSelected, n.ID)
	}
	return n
}

func (c *Controller) UpdateNode(id string, upd NodeUpdate) (Node, error) {
	return c.diagram.UpdateNode(id, upd)
}

// DeleteNode deletes the node and its links. If it was selected, the
// connection source or being dragged, the interaction goes back to idle.
func (c *Controller) DeleteNode(id string) {
	c.diagram.DeleteNode(id)
	if c.state.drag != nil && c.state.drag.nodeID == id {
		c.state.drag = nil
	}
	if c.state.NodeID == id {
		c.setState(StateIdle, "")
	}
}

func (c *Controller) DeleteLink(id string) {
	c.diagram.DeleteLink(id)
}

// Load replaces the diagram. On failure nothing changes.
func (c *Controller) Load(s Snapshot) error {
	if err := c.diagram.Restore(s); err != nil {
		return err
	}
	c.state.drag = nil
	c.setState(StateIdle, "")
	return nil
}

// PointerMove tracks the pointer for the connection preview and drives an
// active drag.
func (c *Controller) PointerMove(p Point) {
	c.state.Pointer = p
	if c.state.drag != nil {
		c.DragTo(p)
	}
}

// BeginDrag starts moving a node with the pointer at p. Dragging is not
// available in connection mode or while another drag is active.
func (c *Controller) BeginDrag(id string, p Point) bool {
	if c.state.Kind == StateConnecting || c.state.drag != nil {
		return false
	}
	n, ok := c.diagram.Node(id)
	if !ok {
		return false
	}
	c.setState(StateSelected, id)
	origin := Point{n.X, n.Y}
	c.state.drag = &dragGesture{nodeID: id, origin: origin, pointerDown: p, current: origin}
	c.state.Pointer = p
	return true
}

func (c *Controller) Dragging() bool {
	return c.state.drag != nil
}

// DragTo moves the dragged node visually. The diagram is only updated by
// EndDrag.
func (c *Controller) DragTo(p Point) {
	g := c.state.drag
	if g == nil {
		return
	}
	c.state.Pointer = p
	g.current = g.origin.Add(p.Sub(g.pointerDown))
	c.renderer.Reposition(g.nodeID, g.current)
}

// EndDrag commits the final position as a single update.
func (c *Controller) EndDrag() error {
	g := c.state.drag
	if g == nil {
		return nil
	}
	c.state.drag = nil
	if g.current == g.origin {
		return nil
	}
	pos := g.current
	if _, err := c.diagram.UpdateNode(g.nodeID, NodeUpdate{Position: &pos}); err != nil {
		return err
	}
	c.log.Debug("drag committed", "node", g.nodeID, "x", pos.X, "y", pos.Y)
	return nil
}

// CancelDrag puts the node back where the drag started.
func (c *Controller) CancelDrag() {
	g := c.state.drag
	if g == nil {
		return
	}
	c.state.drag = nil
	c.renderer.Reposition(g.nodeID, g.origin)
}
