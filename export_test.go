package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportScene(t *testing.T) *Scene {
	t.Helper()
	s := twoNodes()
	s.Nodes[0].Style.Fill = "#ffeb3b"
	s.Nodes[1].Shape = ShapeDiamond
	s.Nodes[1].Text = "two\nlines"
	s.Nodes[1].Style.FontWeight = "bold"
	s.Nodes[1].Style.TextDecoration = "underline"
	s.Links = []Link{{ID: "l1", Source: "n1", Target: "n2"}}
	d := NewDiagram(newTestLogger(t))
	require.NoError(t, d.Restore(s))
	return NewRenderer(nil).Sync(d, Interaction{})
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func rgb(img image.Image, x, y int) (r, g, b, a uint32) {
	r, g, b, a = img.At(x, y).RGBA()
	return r >> 8, g >> 8, b >> 8, a >> 8
}

func TestExportPNG_SizeAndBackground(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportPNG(&buf, exportScene(t), DefaultPNGOptions()))
	img := decodePNG(t, buf.Bytes())

	// nodes span 200..650 x 200..260, plus 20 padding on every side
	assert.Equal(t, image.Rect(0, 0, 490, 100), img.Bounds())

	for _, p := range []image.Point{{0, 0}, {489, 0}, {0, 99}, {489, 99}} {
		r, g, b, a := rgb(img, p.X, p.Y)
		assert.Equal(t, []uint32{255, 255, 255, 255}, []uint32{r, g, b, a}, "corner %v", p)
	}
}

func TestExportPNG_FillsNodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportPNG(&buf, exportScene(t), DefaultPNGOptions()))
	img := decodePNG(t, buf.Bytes())

	// inside n1, away from its label: world (210, 250)
	r, g, b, _ := rgb(img, 30, 70)
	assert.Equal(t, uint32(0xff), r)
	assert.Equal(t, uint32(0xeb), g)
	assert.Equal(t, uint32(0x3b), b)
}

func TestExportPNG_Padding(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportPNG(&buf, exportScene(t), PNGOptions{Padding: 0}))
	img := decodePNG(t, buf.Bytes())
	assert.Equal(t, image.Rect(0, 0, 450, 60), img.Bounds())

	buf.Reset()
	require.NoError(t, ExportPNG(&buf, exportScene(t), PNGOptions{Padding: -5}))
	img = decodePNG(t, buf.Bytes())
	assert.Equal(t, image.Rect(0, 0, 450, 60), img.Bounds())
}

func TestExportPNG_NothingToExport(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, ExportPNG(&buf, nil, DefaultPNGOptions()), ErrRenderTargetMissing)
	assert.ErrorIs(t, ExportPNG(&buf, &Scene{}, DefaultPNGOptions()), ErrRenderTargetMissing)
	assert.Zero(t, buf.Len())

	path := filepath.Join(t.TempDir(), "empty.png")
	assert.ErrorIs(t, ExportPNGFile(path, nil, DefaultPNGOptions()), ErrRenderTargetMissing)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestExportPNGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, ExportPNGFile(path, exportScene(t), DefaultPNGOptions()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decodePNG(t, data)
}

func TestExportPNG_AllFonts(t *testing.T) {
	for _, family := range fontFamilies {
		for _, weight := range fontWeights {
			for _, style := range fontStyles {
				st := DefaultStyle()
				st.FontFamily, st.FontWeight, st.FontStyle = family, weight, style
				_, err := fontFace(st)
				assert.NoError(t, err, "%s %s %s", family, weight, style)
			}
		}
	}
}

func TestExportTXT(t *testing.T) {
	c := NewSceneCanvas(exportScene(t), 10, 20)
	require.NotNil(t, c)

	var buf bytes.Buffer
	require.NoError(t, ExportTXT(&buf, c))
	out := buf.String()
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "⊗")
	assert.Equal(t, len(c.Lines()), strings.Count(out, "\n"))
	assert.NotContains(t, out, "\x1b[", "no escape codes in text export")
}

func TestExportTXT_NothingToExport(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, ExportTXT(&buf, nil), ErrRenderTargetMissing)
	assert.ErrorIs(t, ExportTXTFile(filepath.Join(t.TempDir(), "x.txt"), nil), ErrRenderTargetMissing)
}

func farScene(t *testing.T) *Scene {
	t.Helper()
	d := NewDiagram(newTestLogger(t))
	require.NoError(t, d.Restore(Snapshot{
		Nodes: []Node{
			{ID: "a", Text: "a", X: 0, Y: 0, Width: 150, Height: 60, Style: DefaultStyle()},
			{ID: "b", Text: "b", X: 300000, Y: 300000, Width: 150, Height: 60, Style: DefaultStyle()},
		},
		Links: []Link{{ID: "l", Source: "a", Target: "b"}},
	}))
	return NewRenderer(nil).Sync(d, Interaction{})
}

func TestExportPNG_FarSpreadIsScaledDown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportPNG(&buf, farScene(t), DefaultPNGOptions()))
	img := decodePNG(t, buf.Bytes())

	assert.Equal(t, maxExportSide, img.Bounds().Dx())
	assert.LessOrEqual(t, img.Bounds().Dy(), maxExportSide)
	assert.Greater(t, img.Bounds().Dy(), maxExportSide-10, "aspect ratio kept")

	r, g, b, _ := rgb(img, img.Bounds().Dx()-1, 0)
	assert.Equal(t, []uint32{255, 255, 255}, []uint32{r, g, b})
}

func TestExportTXT_FarSpreadUsesCoarserCells(t *testing.T) {
	c := NewSceneCanvas(farScene(t), 10, 20)
	require.NotNil(t, c)

	lines := c.Lines()
	assert.LessOrEqual(t, len(lines), maxTextExportSide+4)
	for _, l := range lines {
		assert.LessOrEqual(t, len([]rune(l)), maxTextExportSide+4)
	}
	assert.Contains(t, strings.Join(lines, "\n"), "╭")
}

func TestExportTXTFile_WritesAll(t *testing.T) {
	c := NewSceneCanvas(exportScene(t), 10, 20)
	var want bytes.Buffer
	require.NoError(t, ExportTXT(&want, c))

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, ExportTXTFile(path, c))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want.String(), string(got))

	assert.Error(t, ExportTXTFile(t.TempDir(), c), "a directory is not writable as a file")
}
