package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cellStyle struct {
	fg, bg    string
	bold      bool
	italic    bool
	underline bool
}

type cell struct {
	r     rune
	style cellStyle
}

// Canvas is the terminal surface: a grid of cells, each covering
// cellW x cellH world units, scrolled by the pan offset.
type Canvas struct {
	width, height int
	cellW, cellH  float64
	panX, panY    float64
	cells         [][]cell
}

func NewCanvas(width, height int, cellW, cellH, panX, panY float64) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if cellW <= 0 {
		cellW = 10
	}
	if cellH <= 0 {
		cellH = 20
	}
	c := &Canvas{
		width:  width,
		height: height,
		cellW:  cellW,
		cellH:  cellH,
		panX:   panX,
		panY:   panY,
		cells:  make([][]cell, height),
	}
	for y := range c.cells {
		row := make([]cell, width)
		for x := range row {
			row[x].r = ' '
		}
		c.cells[y] = row
	}
	return c
}

// maxTextExportSide caps the columns and rows of a text export.
const maxTextExportSide = 1000

// NewSceneCanvas returns a surface just large enough for the whole scene,
// with one blank cell of margin, or nil when there is nothing to draw.
func NewSceneCanvas(s *Scene, cellW, cellH float64) *Canvas {
	if s.Empty() {
		return nil
	}
	if cellW <= 0 {
		cellW = 10
	}
	if cellH <= 0 {
		cellH = 20
	}
	b := sceneBounds(s)
	// far-spread scenes get coarser cells rather than an unbounded surface
	if f := max(b.Width/cellW, b.Height/cellH) / maxTextExportSide; f > 1 {
		cellW, cellH = cellW*f, cellH*f
	}
	cols := int(math.Ceil(b.Width/cellW)) + 3
	rows := int(math.Ceil(b.Height/cellH)) + 3
	c := NewCanvas(cols, rows, cellW, cellH, b.X-cellW, b.Y-cellH)
	c.Draw(s)
	return c
}

func (c *Canvas) toCell(p Point) (int, int) {
	return int(math.Floor((p.X - c.panX) / c.cellW)),
		int(math.Floor((p.Y - c.panY) / c.cellH))
}

// ToWorld returns the world point at the center of a cell.
func (c *Canvas) ToWorld(col, row int) Point {
	return Point{
		X: c.panX + (float64(col)+0.5)*c.cellW,
		Y: c.panY + (float64(row)+0.5)*c.cellH,
	}
}

// cellRange is the block of cells a rectangle covers.
func (c *Canvas) cellRange(r Rect) (col0, row0, col1, row1 int) {
	col0 = int(math.Floor((r.X - c.panX) / c.cellW))
	row0 = int(math.Floor((r.Y - c.panY) / c.cellH))
	col1 = int(math.Ceil((r.X+r.Width-c.panX)/c.cellW)) - 1
	row1 = int(math.Ceil((r.Y+r.Height-c.panY)/c.cellH)) - 1
	if col1 < col0 {
		col1 = col0
	}
	if row1 < row0 {
		row1 = row0
	}
	return
}

func (c *Canvas) set(x, y int, r rune, st cellStyle) {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return
	}
	c.cells[y][x] = cell{r: r, style: st}
}

func (c *Canvas) at(x, y int) rune {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return 0
	}
	return c.cells[y][x].r
}

func (c *Canvas) Draw(s *Scene) {
	if s == nil {
		return
	}
	for _, conn := range s.Connectors {
		c.drawConnector(conn)
	}
	for _, conn := range s.Connectors {
		x, y := c.toCell(conn.Handle)
		c.set(x, y, '⊗', cellStyle{fg: handleColor, bold: true})
	}
	if s.Preview != nil {
		c.drawPreview(*s.Preview)
	}
	for _, v := range s.Nodes {
		c.drawNode(v)
	}
}

func (c *Canvas) drawConnector(conn ConnectorVisual) {
	x0, y0 := c.toCell(conn.From)
	x1, y1 := c.toCell(conn.To)
	g := lineGlyph(x1-x0, y1-y0, false)
	st := cellStyle{fg: connectorColor}
	c.line(x0, y0, x1, y1, func(x, y, _ int) {
		c.set(x, y, g, st)
	})
}

func (c *Canvas) drawPreview(p PreviewVisual) {
	x0, y0 := c.toCell(p.From)
	x1, y1 := c.toCell(p.To)
	g := lineGlyph(x1-x0, y1-y0, false)
	st := cellStyle{fg: previewColor, bold: true}
	c.line(x0, y0, x1, y1, func(x, y, i int) {
		if (i/2)%2 == 0 {
			c.set(x, y, g, st)
		}
	})
}

func (c *Canvas) drawNode(v NodeVisual) {
	col0, row0, col1, row1 := c.cellRange(v.Bounds)
	fill := hexColor(v.Style.Fill, "#ffffff")
	stroke := cellStyle{fg: hexColor(v.Stroke, "#000000"), bg: fill, bold: v.Selected || v.DropTarget}

	if v.Shape == ShapeRectangle || v.Shape == "" || !isKnownShape(v.Shape) {
		c.drawBox(col0, row0, col1, row1, fill, stroke, v.Selected)
	} else {
		c.drawOutline(v, col0, row0, col1, row1, fill, stroke)
	}
	c.drawLabel(v, col0, row0, col1, row1, fill)
}

func isKnownShape(k ShapeKind) bool {
	for _, s := range shapeKinds {
		if s == k {
			return true
		}
	}
	return false
}

func (c *Canvas) drawBox(col0, row0, col1, row1 int, fill string, st cellStyle, heavy bool) {
	tl, tr, bl, br, h, vert := '╭', '╮', '╰', '╯', '─', '│'
	if heavy {
		tl, tr, bl, br, h, vert = '┏', '┓', '┗', '┛', '━', '┃'
	}
	bg := cellStyle{bg: fill}
	for y := max(row0, 0); y <= min(row1, c.height-1); y++ {
		for x := max(col0, 0); x <= min(col1, c.width-1); x++ {
			switch {
			case y == row0 && x == col0:
				c.set(x, y, tl, st)
			case y == row0 && x == col1:
				c.set(x, y, tr, st)
			case y == row1 && x == col0:
				c.set(x, y, bl, st)
			case y == row1 && x == col1:
				c.set(x, y, br, st)
			case y == row0 || y == row1:
				c.set(x, y, h, st)
			case x == col0 || x == col1:
				c.set(x, y, vert, st)
			default:
				c.set(x, y, ' ', bg)
			}
		}
	}
}

func (c *Canvas) drawOutline(v NodeVisual, col0, row0, col1, row1 int, fill string, st cellStyle) {
	polys := v.Path().Flatten(math.Min(c.cellW, c.cellH) / 2)
	bg := cellStyle{bg: fill}
	for y := max(row0, 0); y <= min(row1, c.height-1); y++ {
		for x := max(col0, 0); x <= min(col1, c.width-1); x++ {
			p := c.ToWorld(x, y)
			for _, poly := range polys {
				if insidePolygon(poly, p) {
					c.set(x, y, ' ', bg)
					break
				}
			}
		}
	}

	clampCell := func(p Point) (int, int) {
		x, y := c.toCell(p)
		return min(max(x, col0), col1), min(max(y, row0), row1)
	}
	for _, poly := range polys {
		for i := 1; i < len(poly); i++ {
			x0, y0 := clampCell(poly[i-1])
			x1, y1 := clampCell(poly[i])
			if x0 == x1 && y0 == y1 && c.at(x0, y0) != ' ' {
				continue
			}
			g := lineGlyph(x1-x0, y1-y0, v.Selected)
			c.line(x0, y0, x1, y1, func(x, y, _ int) {
				c.set(x, y, g, st)
			})
		}
	}
}

func (c *Canvas) drawLabel(v NodeVisual, col0, row0, col1, row1 int, fill string) {
	lines := strings.Split(v.Text, "\n")
	inner0, inner1 := col0+1, col1-1
	if inner1 < inner0 {
		return
	}
	room := inner1 - inner0 + 1

	top, bottom := row0+1, row1-1
	if bottom < top {
		top, bottom = row0, row1
	}
	rows := bottom - top + 1
	if len(lines) > rows {
		lines = lines[:rows]
	}
	_, anchorRow := c.toCell(v.Anchor)
	start := anchorRow - len(lines)/2
	start = max(top, min(start, bottom-len(lines)+1))

	st := cellStyle{
		fg:        labelColor,
		bg:        fill,
		bold:      v.Style.FontWeight == "bold",
		italic:    v.Style.FontStyle == "italic",
		underline: v.Style.TextDecoration == "underline",
	}
	for i, line := range lines {
		rs := []rune(line)
		if len(rs) > room {
			rs = append(rs[:room-1], '…')
		}
		var x int
		switch v.Style.TextAlign {
		case "left":
			x = inner0
		case "right":
			x = inner1 - len(rs) + 1
		default:
			x = inner0 + (room-len(rs))/2
		}
		for j, r := range rs {
			c.set(x+j, start+i, r, st)
		}
	}
}

// lineGlyph picks the character that best follows a line with the given
// cell deltas.
func lineGlyph(dx, dy int, heavy bool) rune {
	adx, ady := abs(dx), abs(dy)
	switch {
	case ady*2 <= adx:
		if heavy {
			return '━'
		}
		return '─'
	case adx*2 <= ady:
		if heavy {
			return '┃'
		}
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// line walks the cells of the segment that fall on the surface. The step
// index counts from (x0, y0) even when the start is clipped away.
func (c *Canvas) line(x0, y0, x1, y1 int, plot func(x, y, i int)) {
	t0, t1, ok := clipSegment(float64(x0), float64(y0), float64(x1), float64(y1),
		0, 0, float64(c.width-1), float64(c.height-1))
	if !ok {
		return
	}
	dx, dy := float64(x1-x0), float64(y1-y0)
	cx0, cy0 := x0+int(math.Round(t0*dx)), y0+int(math.Round(t0*dy))
	cx1, cy1 := x0+int(math.Round(t1*dx)), y0+int(math.Round(t1*dy))
	skip := max(abs(cx0-x0), abs(cy0-y0))
	bresenham(cx0, cy0, cx1, cy1, func(x, y, i int) {
		plot(x, y, skip+i)
	})
}

// clipSegment is Liang-Barsky: the parameter range of p0 + t(p1-p0) inside
// the box, or false when the segment misses it.
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return t0, t1, true
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y, i int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for i := 0; ; i++ {
		plot(x0, y0, i)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Lines returns the surface as plain text.
func (c *Canvas) Lines() []string {
	out := make([]string, c.height)
	for y, row := range c.cells {
		var b strings.Builder
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
		out[y] = b.String()
	}
	return out
}

// Render returns the surface with colors, one string per row.
func (c *Canvas) Render() []string {
	out := make([]string, c.height)
	for y, row := range c.cells {
		var b strings.Builder
		var run []rune
		var cur cellStyle
		flush := func() {
			if len(run) > 0 {
				b.WriteString(cur.lipgloss().Render(string(run)))
				run = run[:0]
			}
		}
		for x, cl := range row {
			if x == 0 || cl.style != cur {
				flush()
				cur = cl.style
			}
			run = append(run, cl.r)
		}
		flush()
		out[y] = b.String()
	}
	return out
}

func (s cellStyle) lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.fg != "" {
		st = st.Foreground(lipgloss.Color(s.fg))
	}
	if s.bg != "" {
		st = st.Background(lipgloss.Color(s.bg))
	}
	return st.Bold(s.bold).Italic(s.italic).Underline(s.underline)
}
