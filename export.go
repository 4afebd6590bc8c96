package main

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// maxExportSide caps each side of an exported image. Larger scenes are
// scaled down to fit.
const maxExportSide = 4096

type PNGOptions struct {
	Padding float64
}

func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Padding: 20}
}

// ExportPNG flattens the scene onto a white background. Transparent areas
// come out white; the file cannot be loaded back.
func ExportPNG(w io.Writer, scene *Scene, opts PNGOptions) error {
	dc, err := drawPNG(scene, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func ExportPNGFile(path string, scene *Scene, opts PNGOptions) error {
	dc, err := drawPNG(scene, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func drawPNG(scene *Scene, opts PNGOptions) (*gg.Context, error) {
	if scene.Empty() {
		return nil, ErrRenderTargetMissing
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}

	bounds := sceneBounds(scene)
	minX := bounds.X - opts.Padding
	minY := bounds.Y - opts.Padding
	w := bounds.Width + 2*opts.Padding
	h := bounds.Height + 2*opts.Padding
	scale := min(1, maxExportSide/w, maxExportSide/h)
	width := min(maxExportSide, int(math.Ceil(w*scale)))
	height := min(maxExportSide, int(math.Ceil(h*scale)))

	dc := gg.NewContext(max(width, 1), max(height, 1))
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(scale, scale)
	dc.Translate(-minX, -minY)

	for _, c := range scene.Connectors {
		dc.SetColor(parseColor(connectorColor, "#000000"))
		dc.SetLineWidth(3)
		dc.DrawLine(c.From.X, c.From.Y, c.To.X, c.To.Y)
		dc.Stroke()
	}
	for _, c := range scene.Connectors {
		dc.SetColor(parseColor(handleColor, "#000000"))
		dc.DrawCircle(c.Handle.X, c.Handle.Y, c.HandleRadius)
		dc.Fill()
	}
	if p := scene.Preview; p != nil {
		dc.SetColor(parseColor(previewColor, "#000000"))
		dc.SetLineWidth(3)
		dc.SetDash(p.Dash...)
		dc.DrawLine(p.From.X, p.From.Y, p.To.X, p.To.Y)
		dc.Stroke()
		dc.SetDash()
	}
	for _, v := range scene.Nodes {
		if err := drawNodePNG(dc, v); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func sceneBounds(scene *Scene) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	for _, v := range scene.Nodes {
		grow(v.Bounds.X, v.Bounds.Y)
		grow(v.Bounds.X+v.Bounds.Width, v.Bounds.Y+v.Bounds.Height)
	}
	for _, c := range scene.Connectors {
		grow(c.From.X, c.From.Y)
		grow(c.To.X, c.To.Y)
	}
	if p := scene.Preview; p != nil {
		grow(p.From.X, p.From.Y)
		grow(p.To.X, p.To.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func tracePath(dc *gg.Context, p Path) {
	var start Point
	var pos Point
	for _, s := range p {
		switch s.Kind {
		case SegMove:
			dc.MoveTo(s.X, s.Y)
			start, pos = Point{s.X, s.Y}, Point{s.X, s.Y}
		case SegLine:
			dc.LineTo(s.X, s.Y)
			pos = Point{s.X, s.Y}
		case SegQuad:
			dc.QuadraticTo(s.CX, s.CY, s.X, s.Y)
			pos = Point{s.X, s.Y}
		case SegArc:
			for _, q := range flattenArc(pos, s, 2) {
				dc.LineTo(q.X, q.Y)
			}
			pos = Point{s.X, s.Y}
		case SegClose:
			dc.ClosePath()
			pos = start
		}
	}
}

func drawNodePNG(dc *gg.Context, v NodeVisual) error {
	tracePath(dc, v.Path())
	dc.SetColor(parseColor(v.Style.Fill, "#ffffff"))
	dc.FillPreserve()
	dc.SetColor(parseColor(v.Stroke, "#000000"))
	dc.SetLineWidth(v.BorderWidth)
	dc.Stroke()

	face, err := fontFace(v.Style)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(parseColor(labelColor, "#000000"))

	x, ax := v.Anchor.X, 0.5
	switch v.Style.TextAlign {
	case "left":
		x, ax = v.Bounds.X+6, 0
	case "right":
		x, ax = v.Bounds.X+v.Bounds.Width-6, 1
	}
	lines := strings.Split(v.Text, "\n")
	lineHeight := dc.FontHeight() * 1.2
	y := v.Anchor.Y - lineHeight*float64(len(lines)-1)/2
	for _, line := range lines {
		dc.DrawStringAnchored(line, x, y, ax, 0.5)
		if v.Style.TextDecoration == "underline" && line != "" {
			w, h := dc.MeasureString(line)
			left := x - ax*w
			dc.SetLineWidth(1)
			dc.DrawLine(left, y+h/2+1, left+w, y+h/2+1)
			dc.Stroke()
		}
		y += lineHeight
	}
	return nil
}

var (
	fontMu    sync.Mutex
	fontCache = map[string]*truetype.Font{}
)

func fontData(family string, bold, italic bool) (string, []byte) {
	mono := family == "Courier New"
	switch {
	case mono && bold && italic:
		return "mono-bold-italic", gomonobolditalic.TTF
	case mono && bold:
		return "mono-bold", gomonobold.TTF
	case mono && italic:
		return "mono-italic", gomonoitalic.TTF
	case mono:
		return "mono", gomono.TTF
	case bold && italic:
		return "bold-italic", gobolditalic.TTF
	case bold:
		return "bold", gobold.TTF
	case italic:
		return "italic", goitalic.TTF
	default:
		return "regular", goregular.TTF
	}
}

// fontFace maps a node style onto the Go fonts. Families other than
// Courier New share the proportional Go font.
func fontFace(st Style) (font.Face, error) {
	key, data := fontData(st.FontFamily, st.FontWeight == "bold", st.FontStyle == "italic")

	fontMu.Lock()
	f, ok := fontCache[key]
	if !ok {
		var err error
		f, err = truetype.Parse(data)
		if err != nil {
			fontMu.Unlock()
			return nil, fmt.Errorf("failed to parse font: %v", err)
		}
		fontCache[key] = f
	}
	fontMu.Unlock()

	return truetype.NewFace(f, &truetype.Options{
		Size:    fontPoints(st.FontSize),
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// ExportTXT writes the surface as plain text lines.
func ExportTXT(w io.Writer, c *Canvas) error {
	if c == nil {
		return ErrRenderTargetMissing
	}
	for _, line := range c.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func ExportTXTFile(path string, c *Canvas) error {
	if c == nil {
		return ErrRenderTargetMissing
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportTXT(file, c); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
