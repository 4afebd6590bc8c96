package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoNodes is the diagram most interaction tests start from.
func twoNodes() Snapshot {
	return Snapshot{
		Nodes: []Node{
			{ID: "n1", Text: "one", X: 200, Y: 200, Width: 150, Height: 60, Style: DefaultStyle()},
			{ID: "n2", Text: "two", X: 500, Y: 200, Width: 150, Height: 60, Style: DefaultStyle()},
		},
		Links: []Link{},
	}
}

func TestDiagram_AddNode(t *testing.T) {
	d := NewDiagram(newTestLogger(t))
	n := d.AddNode("hello", Point{X: 10, Y: 20}, Size{Width: 150, Height: 60}, DefaultStyle())

	assert.True(t, strings.HasPrefix(n.ID, "node-"))
	assert.Equal(t, "hello", n.Text)
	assert.Equal(t, Rect{X: 10, Y: 20, Width: 150, Height: 60}, n.Bounds())

	got, ok := d.Node(n.ID)
	require.True(t, ok)
	assert.Equal(t, n, got)
}

func TestDiagram_IDsNeverReused(t *testing.T) {
	d := NewDiagram(nil)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := placeNode(t, d, float64(i), 0)
		require.False(t, seen[n.ID], "id %s reused", n.ID)
		seen[n.ID] = true
		if i%2 == 0 {
			d.DeleteNode(n.ID)
		}
	}
}

func TestDiagram_UpdateNode_MergesStyle(t *testing.T) {
	d := NewDiagram(nil)
	n := placeNode(t, d, 0, 0)

	fill := "#ffeb3b"
	text := "renamed"
	got, err := d.UpdateNode(n.ID, NodeUpdate{Text: &text, Style: StyleUpdate{Fill: &fill}})
	require.NoError(t, err)

	assert.Equal(t, "renamed", got.Text)
	assert.Equal(t, "#ffeb3b", got.Style.Fill)
	// everything else is kept
	want := DefaultStyle()
	want.Fill = fill
	assert.Equal(t, want, got.Style)
	assert.Equal(t, n.X, got.X)
	assert.Equal(t, n.Width, got.Width)
}

func TestDiagram_UpdateNode_PositionSizeShape(t *testing.T) {
	d := NewDiagram(nil)
	n := placeNode(t, d, 0, 0)

	got, err := d.UpdateNode(n.ID, NodeUpdate{
		Position: &Point{X: 250, Y: 230},
		Size:     &Size{Width: 200, Height: 80},
		Shape:    ptr(ShapeHexagon),
	})
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 250, Y: 230, Width: 200, Height: 80}, got.Bounds())
	assert.Equal(t, ShapeHexagon, got.Shape)
}

func TestDiagram_UpdateNode_NotFound(t *testing.T) {
	d := NewDiagram(nil)
	before := d.Version()

	text := "x"
	_, err := d.UpdateNode("missing", NodeUpdate{Text: &text})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, d.Version())
}

func TestDiagram_UpdateNode_RejectsBadSize(t *testing.T) {
	d := NewDiagram(nil)
	n := placeNode(t, d, 0, 0)

	text := "changed"
	_, err := d.UpdateNode(n.ID, NodeUpdate{Text: &text, Size: &Size{Width: 0, Height: 10}})
	assert.ErrorIs(t, err, ErrValidation)

	// nothing from the rejected update sticks
	got, _ := d.Node(n.ID)
	assert.Equal(t, n, got)
}

func TestDiagram_DeleteNode_Cascades(t *testing.T) {
	d := NewDiagram(nil)
	a := placeNode(t, d, 0, 0)
	b := placeNode(t, d, 300, 0)
	c := placeNode(t, d, 600, 0)

	_, err := d.AddLink(a.ID, b.ID)
	require.NoError(t, err)
	_, err = d.AddLink(c.ID, a.ID)
	require.NoError(t, err)
	bc, err := d.AddLink(b.ID, c.ID)
	require.NoError(t, err)

	d.DeleteNode(a.ID)

	_, ok := d.Node(a.ID)
	assert.False(t, ok)
	assert.Empty(t, d.LinksFor(a.ID))
	for _, l := range d.Links() {
		assert.False(t, l.Touches(a.ID))
	}
	assert.Equal(t, []Link{*bc}, d.Links())
}

func TestDiagram_DeleteIsIdempotent(t *testing.T) {
	d := NewDiagram(nil)
	n := placeNode(t, d, 0, 0)
	d.DeleteNode(n.ID)
	v := d.Version()

	d.DeleteNode(n.ID)
	d.DeleteNode("never-existed")
	d.DeleteLink("never-existed")
	assert.Equal(t, v, d.Version())
}

func TestDiagram_AddLink_UndirectedDuplicate(t *testing.T) {
	d := NewDiagram(nil)
	a := placeNode(t, d, 0, 0)
	b := placeNode(t, d, 300, 0)

	l, err := d.AddLink(a.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.True(t, strings.HasPrefix(l.ID, "link-"))

	again, err := d.AddLink(b.ID, a.ID)
	require.NoError(t, err)
	assert.Nil(t, again)

	again, err = d.AddLink(a.ID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, again)

	assert.Len(t, d.Links(), 1)
}

func TestDiagram_AddLink_MissingEndpoint(t *testing.T) {
	d := NewDiagram(nil)
	a := placeNode(t, d, 0, 0)

	_, err := d.AddLink(a.ID, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = d.AddLink("ghost", a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, d.Links())
}

func TestDiagram_AddLink_SelfLinkIgnored(t *testing.T) {
	d := NewDiagram(nil)
	a := placeNode(t, d, 0, 0)

	l, err := d.AddLink(a.ID, a.ID)
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.Empty(t, d.Links())
}

func TestDiagram_SnapshotDoesNotAlias(t *testing.T) {
	d := NewDiagram(nil)
	n := placeNode(t, d, 0, 0)

	s := d.Snapshot()
	s.Nodes[0].Text = "mutated"
	s.Nodes[0].Style.Fill = "#000000"

	got, _ := d.Node(n.ID)
	assert.Equal(t, "node", got.Text)
	assert.Equal(t, DefaultStyle().Fill, got.Style.Fill)
}

func TestDiagram_SnapshotRestoreRoundTrip(t *testing.T) {
	d := NewDiagram(nil)
	a := placeNode(t, d, 0, 0)
	b := placeNode(t, d, 300, 0)
	c := placeNode(t, d, 600, 0)
	_, err := d.AddLink(a.ID, b.ID)
	require.NoError(t, err)
	_, err = d.AddLink(b.ID, c.ID)
	require.NoError(t, err)

	fresh := NewDiagram(nil)
	require.NoError(t, fresh.Restore(d.Snapshot()))
	assert.Equal(t, d.Snapshot(), fresh.Snapshot())
}

func TestDiagram_Restore_RejectsWholeSnapshot(t *testing.T) {
	tests := []struct {
		name string
		edit func(s *Snapshot)
	}{
		{"missing endpoint", func(s *Snapshot) {
			s.Links = append(s.Links, Link{ID: "l1", Source: "n1", Target: "ghost"})
		}},
		{"self link", func(s *Snapshot) {
			s.Links = append(s.Links, Link{ID: "l1", Source: "n1", Target: "n1"})
		}},
		{"duplicate pair", func(s *Snapshot) {
			s.Links = append(s.Links,
				Link{ID: "l1", Source: "n1", Target: "n2"},
				Link{ID: "l2", Source: "n2", Target: "n1"})
		}},
		{"duplicate node id", func(s *Snapshot) {
			s.Nodes = append(s.Nodes, s.Nodes[0])
		}},
		{"link id clashes with node", func(s *Snapshot) {
			s.Links = append(s.Links, Link{ID: "n1", Source: "n1", Target: "n2"})
		}},
		{"empty id", func(s *Snapshot) {
			s.Nodes[1].ID = ""
		}},
		{"zero size", func(s *Snapshot) {
			s.Nodes[0].Height = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDiagram(nil)
			a := placeNode(t, d, 0, 0)
			before := d.Snapshot()
			version := d.Version()

			s := twoNodes()
			tt.edit(&s)
			err := d.Restore(s)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, before, d.Snapshot())
			assert.Equal(t, version, d.Version())
			_, ok := d.Node(a.ID)
			assert.True(t, ok)
		})
	}
}

func TestDiagram_VersionBumpsOnMutation(t *testing.T) {
	d := NewDiagram(nil)
	v0 := d.Version()
	n := placeNode(t, d, 0, 0)
	v1 := d.Version()
	assert.Greater(t, v1, v0)

	text := "x"
	_, err := d.UpdateNode(n.ID, NodeUpdate{Text: &text})
	require.NoError(t, err)
	assert.Greater(t, d.Version(), v1)
}
