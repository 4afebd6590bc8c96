package main

import (
	"log/slog"
	"math"
)

const (
	handleRadius      = 8.0
	borderWidth       = 1.0
	borderWidthActive = 2.0
)

type NodeVisual struct {
	ID          string
	Text        string
	Shape       ShapeKind
	Bounds      Rect
	Outline     Path
	Anchor      Point
	Style       Style
	Stroke      string
	BorderWidth float64
	Selected    bool
	DropTarget  bool
}

// Path returns the outline placed at the node's position.
func (v NodeVisual) Path() Path {
	return v.Outline.Translate(v.Bounds.X, v.Bounds.Y)
}

type ConnectorVisual struct {
	LinkID       string
	Source       string
	Target       string
	From, To     Point
	Handle       Point
	HandleRadius float64
}

type PreviewVisual struct {
	From, To Point
	Dash     []float64
}

// Scene is everything that gets drawn: connectors under nodes, plus the
// connection preview while connecting.
type Scene struct {
	Nodes      []NodeVisual
	Connectors []ConnectorVisual
	Preview    *PreviewVisual
}

func (s *Scene) Empty() bool {
	return s == nil || (len(s.Nodes) == 0 && len(s.Connectors) == 0)
}

type syncKey struct {
	version uint64
	kind    StateKind
	nodeID  string
}

// Renderer turns the diagram and interaction state into a Scene. It never
// writes to the diagram.
type Renderer struct {
	scene       *Scene
	key         syncKey
	synced      bool
	nodeIndex   map[string]int
	linksByNode map[string][]int
	fullSyncs   int
	log         *slog.Logger
}

func NewRenderer(log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Renderer{log: log}
}

// Scene returns the last synced scene, nil before the first Sync.
func (r *Renderer) Scene() *Scene {
	return r.scene
}

// FullSyncs counts complete rebuilds.
func (r *Renderer) FullSyncs() int {
	return r.fullSyncs
}

// Sync rebuilds the scene when the diagram or the selection/connection state
// changed since the last call. Otherwise only the preview is refreshed, so
// positions set by Reposition during a drag survive.
func (r *Renderer) Sync(d *Diagram, st Interaction) *Scene {
	key := syncKey{version: d.Version(), kind: st.Kind, nodeID: st.NodeID}
	if !r.synced || key != r.key {
		r.rebuild(d, st)
		r.key = key
		r.synced = true
	}
	r.updatePreview(st)
	return r.scene
}

func (r *Renderer) rebuild(d *Diagram, st Interaction) {
	nodes := d.Nodes()
	links := d.Links()
	scene := &Scene{
		Nodes:      make([]NodeVisual, 0, len(nodes)),
		Connectors: make([]ConnectorVisual, 0, len(links)),
	}
	r.nodeIndex = make(map[string]int, len(nodes))
	r.linksByNode = make(map[string][]int, len(nodes))

	for _, n := range nodes {
		v := NodeVisual{
			ID:          n.ID,
			Text:        n.Text,
			Shape:       n.Shape,
			Bounds:      n.Bounds(),
			Outline:     Outline(n.Shape, n.Width, n.Height),
			Anchor:      AnchorPoint(n.X, n.Y, n.Width, n.Height),
			Style:       n.Style,
			Stroke:      n.Style.Stroke,
			BorderWidth: borderWidth,
		}
		if st.Kind == StateSelected && st.NodeID == n.ID {
			v.Selected = true
			v.BorderWidth = borderWidthActive
		}
		if st.Kind == StateConnecting && st.NodeID != n.ID {
			v.DropTarget = true
			v.Stroke = dropTargetStroke
		}
		r.nodeIndex[n.ID] = len(scene.Nodes)
		scene.Nodes = append(scene.Nodes, v)
	}

	for _, l := range links {
		si, sok := r.nodeIndex[l.Source]
		ti, tok := r.nodeIndex[l.Target]
		if !sok || !tok {
			r.log.Warn("link with missing endpoint skipped", "link", l.ID)
			continue
		}
		c := ConnectorVisual{
			LinkID:       l.ID,
			Source:       l.Source,
			Target:       l.Target,
			HandleRadius: handleRadius,
		}
		c.place(scene.Nodes[si].Bounds.Center(), scene.Nodes[ti].Bounds.Center())
		idx := len(scene.Connectors)
		scene.Connectors = append(scene.Connectors, c)
		r.linksByNode[l.Source] = append(r.linksByNode[l.Source], idx)
		r.linksByNode[l.Target] = append(r.linksByNode[l.Target], idx)
	}

	r.scene = scene
	r.fullSyncs++

	if id, pos, ok := st.Drag(); ok {
		r.Reposition(id, pos)
	}
}

func (c *ConnectorVisual) place(from, to Point) {
	c.From = from
	c.To = to
	c.Handle = Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
}

func (r *Renderer) updatePreview(st Interaction) {
	if st.Kind != StateConnecting {
		r.scene.Preview = nil
		return
	}
	i, ok := r.nodeIndex[st.NodeID]
	if !ok {
		r.scene.Preview = nil
		return
	}
	r.scene.Preview = &PreviewVisual{
		From: r.scene.Nodes[i].Bounds.Center(),
		To:   st.Pointer,
		Dash: []float64{5, 5},
	}
}

// Reposition moves one node and the connectors touching it without a full
// rebuild. It is meant for continuous drags; the next Sync after the diagram
// changes replaces the result.
func (r *Renderer) Reposition(nodeID string, pos Point) bool {
	if r.scene == nil {
		return false
	}
	i, ok := r.nodeIndex[nodeID]
	if !ok {
		return false
	}
	v := &r.scene.Nodes[i]
	v.Bounds.X, v.Bounds.Y = pos.X, pos.Y
	v.Anchor = v.Bounds.Center()

	for _, ci := range r.linksByNode[nodeID] {
		c := &r.scene.Connectors[ci]
		from := r.scene.Nodes[r.nodeIndex[c.Source]].Bounds.Center()
		to := r.scene.Nodes[r.nodeIndex[c.Target]].Bounds.Center()
		c.place(from, to)
	}
	return true
}

// HitNode returns the top-most node under p.
func (r *Renderer) HitNode(p Point) (string, bool) {
	if r.scene == nil {
		return "", false
	}
	for i := len(r.scene.Nodes) - 1; i >= 0; i-- {
		if r.scene.Nodes[i].Bounds.Contains(p) {
			return r.scene.Nodes[i].ID, true
		}
	}
	return "", false
}

// HitDeleteHandle returns the link whose delete handle is within its radius
// plus slack of p.
func (r *Renderer) HitDeleteHandle(p Point, slack float64) (string, bool) {
	if r.scene == nil {
		return "", false
	}
	best, bestDist := "", math.Inf(1)
	for _, c := range r.scene.Connectors {
		d := dist(c.Handle, p)
		if d <= c.HandleRadius+slack && d < bestDist {
			best, bestDist = c.LinkID, d
		}
	}
	return best, best != ""
}
