package main

import (
	"math"
	"strconv"
	"strings"
)

type ShapeKind string

const (
	ShapeRectangle     ShapeKind = "rectangle"
	ShapeEllipse       ShapeKind = "ellipse"
	ShapeDiamond       ShapeKind = "diamond"
	ShapeHexagon       ShapeKind = "hexagon"
	ShapeCloud         ShapeKind = "cloud"
	ShapeParallelogram ShapeKind = "parallelogram"
)

var shapeKinds = []ShapeKind{
	ShapeRectangle,
	ShapeEllipse,
	ShapeDiamond,
	ShapeHexagon,
	ShapeCloud,
	ShapeParallelogram,
}

const cornerRadius = 5.0

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Center() Point {
	return AnchorPoint(r.X, r.Y, r.Width, r.Height)
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

type SegmentKind int

const (
	SegMove SegmentKind = iota
	SegLine
	SegQuad
	SegArc
	SegClose
)

// Segment is one path command. All coordinates are absolute. CX/CY is the
// control point of a quadratic, RX/RY/LargeArc/Sweep describe an elliptical
// arc with no axis rotation.
type Segment struct {
	Kind     SegmentKind
	X, Y     float64
	CX, CY   float64
	RX, RY   float64
	LargeArc bool
	Sweep    bool
}

type Path []Segment

// AnchorPoint is where a node's label goes: the bounding-box center, whatever
// the shape.
func AnchorPoint(x, y, width, height float64) Point {
	return Point{X: x + width/2, Y: y + height/2}
}

// Outline returns the outline of kind inside a width x height box whose
// top-left corner is the origin. Unknown kinds get a rectangle.
func Outline(kind ShapeKind, width, height float64) Path {
	switch kind {
	case ShapeEllipse:
		return ellipsePath(width, height)
	case ShapeDiamond:
		return diamondPath(width, height)
	case ShapeHexagon:
		return hexagonPath(width, height)
	case ShapeCloud:
		return cloudPath(width, height)
	case ShapeParallelogram:
		return parallelogramPath(width, height)
	default:
		return rectanglePath(width, height)
	}
}

func rectanglePath(w, h float64) Path {
	r := cornerRadius
	return Path{
		{Kind: SegMove, X: 0, Y: r},
		{Kind: SegQuad, CX: 0, CY: 0, X: r, Y: 0},
		{Kind: SegLine, X: w - r, Y: 0},
		{Kind: SegQuad, CX: w, CY: 0, X: w, Y: r},
		{Kind: SegLine, X: w, Y: h - r},
		{Kind: SegQuad, CX: w, CY: h, X: w - r, Y: h},
		{Kind: SegLine, X: r, Y: h},
		{Kind: SegQuad, CX: 0, CY: h, X: 0, Y: h - r},
		{Kind: SegClose},
	}
}

func ellipsePath(w, h float64) Path {
	rx, ry := w/2, h/2
	return Path{
		{Kind: SegMove, X: 0, Y: ry},
		{Kind: SegArc, RX: rx, RY: ry, LargeArc: true, X: w, Y: ry},
		{Kind: SegArc, RX: rx, RY: ry, LargeArc: true, X: 0, Y: ry},
		{Kind: SegClose},
	}
}

func diamondPath(w, h float64) Path {
	return Path{
		{Kind: SegMove, X: w / 2, Y: 0},
		{Kind: SegLine, X: w, Y: h / 2},
		{Kind: SegLine, X: w / 2, Y: h},
		{Kind: SegLine, X: 0, Y: h / 2},
		{Kind: SegClose},
	}
}

func hexagonPath(w, h float64) Path {
	q := w / 4
	return Path{
		{Kind: SegMove, X: q, Y: 0},
		{Kind: SegLine, X: w - q, Y: 0},
		{Kind: SegLine, X: w, Y: h / 2},
		{Kind: SegLine, X: w - q, Y: h},
		{Kind: SegLine, X: q, Y: h},
		{Kind: SegLine, X: 0, Y: h / 2},
		{Kind: SegClose},
	}
}

func parallelogramPath(w, h float64) Path {
	offset := w / 6
	return Path{
		{Kind: SegMove, X: offset, Y: 0},
		{Kind: SegLine, X: w, Y: 0},
		{Kind: SegLine, X: w - offset, Y: h},
		{Kind: SegLine, X: 0, Y: h},
		{Kind: SegClose},
	}
}

// cloudArcs are the relative bumps of the cloud, as fractions of the box:
// radius x, radius y, delta x, delta y.
var cloudArcs = [][4]float64{
	{0.10, 0.10, 0.15, -0.10},
	{0.15, 0.15, 0.20, -0.05},
	{0.15, 0.15, 0.20, 0.10},
	{0.15, 0.15, 0.15, 0.15},
	{0.15, 0.15, -0.05, 0.10},
	{0.15, 0.15, -0.30, 0.05},
	{0.15, 0.15, -0.25, -0.15},
	{0.10, 0.10, -0.10, -0.10},
}

func cloudPath(w, h float64) Path {
	x, y := w*0.2, h*0.5
	p := Path{{Kind: SegMove, X: x, Y: y}}
	for _, a := range cloudArcs {
		x += a[2] * w
		y += a[3] * h
		p = append(p, Segment{
			Kind:     SegArc,
			RX:       a[0] * w,
			RY:       a[1] * h,
			LargeArc: true,
			Sweep:    true,
			X:        x,
			Y:        y,
		})
	}
	return append(p, Segment{Kind: SegClose})
}

func (p Path) Translate(dx, dy float64) Path {
	out := make(Path, len(p))
	for i, s := range p {
		if s.Kind != SegClose {
			s.X += dx
			s.Y += dy
			s.CX += dx
			s.CY += dy
		}
		out[i] = s
	}
	return out
}

// SVG renders the path as SVG path data.
func (p Path) SVG() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Kind {
		case SegMove:
			b.WriteString("M" + num(s.X) + "," + num(s.Y))
		case SegLine:
			b.WriteString("L" + num(s.X) + "," + num(s.Y))
		case SegQuad:
			b.WriteString("Q" + num(s.CX) + "," + num(s.CY) + " " + num(s.X) + "," + num(s.Y))
		case SegArc:
			b.WriteString("A" + num(s.RX) + "," + num(s.RY) + " 0 " + flag(s.LargeArc) + "," + flag(s.Sweep) + " " + num(s.X) + "," + num(s.Y))
		case SegClose:
			b.WriteString("Z")
		}
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Flatten approximates the path with straight lines no longer than roughly
// step. Each subpath is returned as its own polygon.
func (p Path) Flatten(step float64) [][]Point {
	if step <= 0 {
		step = 1
	}
	var polys [][]Point
	var cur []Point
	var pos, start Point
	for _, s := range p {
		switch s.Kind {
		case SegMove:
			if len(cur) > 1 {
				polys = append(polys, cur)
			}
			pos = Point{s.X, s.Y}
			start = pos
			cur = []Point{pos}
		case SegLine:
			pos = Point{s.X, s.Y}
			cur = append(cur, pos)
		case SegQuad:
			pts := flattenQuad(pos, Point{s.CX, s.CY}, Point{s.X, s.Y}, step)
			cur = append(cur, pts...)
			pos = Point{s.X, s.Y}
		case SegArc:
			pts := flattenArc(pos, s, step)
			cur = append(cur, pts...)
			pos = Point{s.X, s.Y}
		case SegClose:
			if pos != start {
				cur = append(cur, start)
			}
			pos = start
		}
	}
	if len(cur) > 1 {
		polys = append(polys, cur)
	}
	return polys
}

func segmentsFor(length, step float64) int {
	n := int(math.Ceil(length / step))
	if n < 2 {
		n = 2
	}
	if n > 256 {
		n = 256
	}
	return n
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func flattenQuad(p0, c, p1 Point, step float64) []Point {
	n := segmentsFor(dist(p0, c)+dist(c, p1), step)
	pts := make([]Point, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		pts = append(pts, Point{
			X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
			Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
		})
	}
	return pts
}

// flattenArc converts an endpoint arc to its center form and samples it.
func flattenArc(from Point, s Segment, step float64) []Point {
	to := Point{s.X, s.Y}
	rx, ry := math.Abs(s.RX), math.Abs(s.RY)
	if rx == 0 || ry == 0 || from == to {
		return []Point{to}
	}

	hx := (from.X - to.X) / 2
	hy := (from.Y - to.Y) / 2
	if l := hx*hx/(rx*rx) + hy*hy/(ry*ry); l > 1 {
		l = math.Sqrt(l)
		rx *= l
		ry *= l
	}

	numer := rx*rx*ry*ry - rx*rx*hy*hy - ry*ry*hx*hx
	den := rx*rx*hy*hy + ry*ry*hx*hx
	coef := 0.0
	if den != 0 && numer > 0 {
		coef = math.Sqrt(numer / den)
	}
	if s.LargeArc == s.Sweep {
		coef = -coef
	}
	cxp := coef * rx * hy / ry
	cyp := -coef * ry * hx / rx
	cx := cxp + (from.X+to.X)/2
	cy := cyp + (from.Y+to.Y)/2

	ux, uy := (hx-cxp)/rx, (hy-cyp)/ry
	vx, vy := (-hx-cxp)/rx, (-hy-cyp)/ry
	theta := math.Atan2(uy, ux)
	delta := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !s.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if s.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := segmentsFor(math.Abs(delta)*math.Max(rx, ry), step)
	pts := make([]Point, 0, n)
	for i := 1; i < n; i++ {
		a := theta + delta*float64(i)/float64(n)
		pts = append(pts, Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)})
	}
	return append(pts, to)
}

// insidePolygon is an even-odd test against a closed polygon.
func insidePolygon(poly []Point, p Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
