package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawTwoNodes(t *testing.T, st Interaction, panX, panY float64) []string {
	t.Helper()
	d := NewDiagram(nil)
	s := twoNodes()
	s.Links = []Link{{ID: "l1", Source: "n1", Target: "n2"}}
	require.NoError(t, d.Restore(s))

	c := NewCanvas(80, 20, 10, 20, panX, panY)
	c.Draw(NewRenderer(nil).Sync(d, st))
	return c.Lines()
}

func runeAt(lines []string, x, y int) rune {
	return []rune(lines[y])[x]
}

func TestCanvas_DrawsBoxesAndLabels(t *testing.T) {
	lines := drawTwoNodes(t, Interaction{}, 0, 0)
	require.Len(t, lines, 20)

	assert.Equal(t, '╭', runeAt(lines, 20, 10))
	assert.Equal(t, '╮', runeAt(lines, 34, 10))
	assert.Equal(t, '╰', runeAt(lines, 20, 12))
	assert.Equal(t, '╯', runeAt(lines, 34, 12))
	assert.Equal(t, '│', runeAt(lines, 20, 11))
	assert.Equal(t, "one", string([]rune(lines[11])[26:29]))
	assert.Equal(t, "two", string([]rune(lines[11])[56:59]))
}

func TestCanvas_DrawsConnectorWithHandle(t *testing.T) {
	lines := drawTwoNodes(t, Interaction{}, 0, 0)
	assert.Equal(t, '─', runeAt(lines, 36, 11))
	assert.Equal(t, '⊗', runeAt(lines, 42, 11))
	assert.Equal(t, '─', runeAt(lines, 48, 11))
}

func TestCanvas_SelectedBoxIsHeavy(t *testing.T) {
	lines := drawTwoNodes(t, Interaction{Kind: StateSelected, NodeID: "n1"}, 0, 0)
	assert.Equal(t, '┏', runeAt(lines, 20, 10))
	assert.Equal(t, '┃', runeAt(lines, 34, 11))
	assert.Equal(t, '╭', runeAt(lines, 50, 10))
}

func TestCanvas_PreviewIsDashed(t *testing.T) {
	d := NewDiagram(nil)
	require.NoError(t, d.Restore(twoNodes()))
	c := NewCanvas(80, 20, 10, 20, 0, 0)
	st := Interaction{Kind: StateConnecting, NodeID: "n1", Pointer: Point{X: 275, Y: 30}}
	c.Draw(NewRenderer(nil).Sync(d, st))
	lines := c.Lines()

	// straight up from the center of n1, column 27
	var drawn, gaps int
	for y := 1; y < 10; y++ {
		if runeAt(lines, 27, y) == '│' {
			drawn++
		} else {
			gaps++
		}
	}
	assert.Positive(t, drawn)
	assert.Positive(t, gaps)
}

func TestCanvas_Pan(t *testing.T) {
	lines := drawTwoNodes(t, Interaction{}, 100, 100)
	assert.Equal(t, '╭', runeAt(lines, 10, 5))
}

func TestCanvas_ClipsOffscreen(t *testing.T) {
	lines := drawTwoNodes(t, Interaction{}, -1000, -1000)
	for _, l := range lines {
		assert.Equal(t, strings.Repeat(" ", 80), l)
	}
}

func TestCanvas_ToWorld(t *testing.T) {
	c := NewCanvas(10, 10, 10, 20, 100, 40)
	assert.Equal(t, Point{X: 105, Y: 50}, c.ToWorld(0, 0))
	x, y := c.toCell(c.ToWorld(7, 3))
	assert.Equal(t, 7, x)
	assert.Equal(t, 3, y)
}

func TestCanvas_Shapes(t *testing.T) {
	for _, k := range shapeKinds {
		t.Run(string(k), func(t *testing.T) {
			d := NewDiagram(nil)
			n := d.AddNode("x", Point{X: 100, Y: 100}, Size{Width: 200, Height: 100}, DefaultStyle())
			_, err := d.UpdateNode(n.ID, NodeUpdate{Shape: ptr(k)})
			require.NoError(t, err)

			c := NewCanvas(40, 12, 10, 20, 0, 0)
			c.Draw(NewRenderer(nil).Sync(d, Interaction{}))
			lines := c.Lines()

			// label at the anchor, nothing outside the box
			assert.Equal(t, 'x', runeAt(lines, 19, 7))
			assert.Equal(t, strings.Repeat(" ", 40), lines[0])
			assert.Equal(t, ' ', runeAt(lines, 5, 7))
		})
	}
}

func TestCanvas_LabelTruncates(t *testing.T) {
	d := NewDiagram(nil)
	d.AddNode("a very long label that will not fit", Point{}, Size{Width: 100, Height: 60}, DefaultStyle())
	c := NewCanvas(20, 5, 10, 20, 0, 0)
	c.Draw(NewRenderer(nil).Sync(d, Interaction{}))

	row := []rune(c.Lines()[1])
	assert.Equal(t, '…', row[8])
	assert.Equal(t, '│', row[9])
}

func TestNewSceneCanvas(t *testing.T) {
	assert.Nil(t, NewSceneCanvas(nil, 10, 20))
	assert.Nil(t, NewSceneCanvas(&Scene{}, 10, 20))

	d := NewDiagram(nil)
	require.NoError(t, d.Restore(twoNodes()))
	c := NewSceneCanvas(NewRenderer(nil).Sync(d, Interaction{}), 10, 20)
	require.NotNil(t, c)

	lines := c.Lines()
	assert.Len(t, lines, 6)
	assert.Equal(t, '╭', runeAt(lines, 1, 1))
	assert.Equal(t, '╯', runeAt(lines, 45, 3))
}

func TestCanvas_RenderKeepsText(t *testing.T) {
	d := NewDiagram(nil)
	require.NoError(t, d.Restore(twoNodes()))
	c := NewCanvas(80, 20, 10, 20, 0, 0)
	c.Draw(NewRenderer(nil).Sync(d, Interaction{}))
	assert.Len(t, c.Render(), 20)
	assert.Contains(t, c.Render()[11], "one")
}

func TestCanvas_LineVisitsOnlyVisibleCells(t *testing.T) {
	c := NewCanvas(80, 20, 10, 20, 0, 0)

	var xs []int
	c.line(-1_000_000_000, 5, 1_000_000_000, 5, func(x, y, _ int) {
		assert.Equal(t, 5, y)
		xs = append(xs, x)
	})
	require.Len(t, xs, 80)
	assert.Equal(t, 0, xs[0])
	assert.Equal(t, 79, xs[79])

	c.line(-50, -3, 200, -3, func(x, y, _ int) {
		t.Fatalf("plotted (%d, %d) above the surface", x, y)
	})

	// steps keep counting from the clipped start
	var first = -1
	c.line(-10, 0, 5, 0, func(_, _, i int) {
		if first < 0 {
			first = i
		}
	})
	assert.Equal(t, 10, first)
}

func TestCanvas_FarNodesAreClipped(t *testing.T) {
	d := NewDiagram(nil)
	require.NoError(t, d.Restore(Snapshot{
		Nodes: []Node{
			{ID: "a", Text: "a", X: 0, Y: 0, Width: 150, Height: 60, Style: DefaultStyle()},
			{ID: "b", Text: "b", X: 1e11, Y: 0, Width: 150, Height: 60, Style: DefaultStyle()},
			{ID: "wide", Text: "wide", X: -1e11, Y: 200, Width: 2e11, Height: 60, Shape: ShapeEllipse, Style: DefaultStyle()},
		},
		Links: []Link{{ID: "l", Source: "a", Target: "b"}},
	}))

	c := NewCanvas(80, 20, 10, 20, 0, 0)
	c.Draw(NewRenderer(nil).Sync(d, Interaction{}))
	lines := c.Lines()

	assert.Equal(t, '╭', runeAt(lines, 0, 0))
	// the link leaves the right edge on the row of the centers
	assert.Equal(t, '─', runeAt(lines, 79, 1))
	// top edge of the wide ellipse
	assert.Equal(t, '─', runeAt(lines, 40, 10))
}
