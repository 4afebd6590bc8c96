package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// panelField is one editable row of the side panel.
type panelField struct {
	label   string
	options []string
	get     func(Node) string
	set     func(string) NodeUpdate
}

var panelFields = []panelField{
	{
		label: "Text",
		get:   func(n Node) string { return n.Text },
		set:   func(v string) NodeUpdate { return NodeUpdate{Text: &v} },
	},
	{
		label:   "Shape",
		options: shapeOptions(),
		get: func(n Node) string {
			if n.Shape == "" {
				return string(ShapeRectangle)
			}
			return string(n.Shape)
		},
		set: func(v string) NodeUpdate { return NodeUpdate{Shape: ptr(ShapeKind(v))} },
	},
	styleField("Font Family", fontFamilies, func(s Style) string { return s.FontFamily }, func(u *StyleUpdate, v *string) { u.FontFamily = v }),
	styleField("Font Size", fontSizes, func(s Style) string { return s.FontSize }, func(u *StyleUpdate, v *string) { u.FontSize = v }),
	styleField("Font Weight", fontWeights, func(s Style) string { return s.FontWeight }, func(u *StyleUpdate, v *string) { u.FontWeight = v }),
	styleField("Font Style", fontStyles, func(s Style) string { return s.FontStyle }, func(u *StyleUpdate, v *string) { u.FontStyle = v }),
	styleField("Decoration", textDecorations, func(s Style) string { return s.TextDecoration }, func(u *StyleUpdate, v *string) { u.TextDecoration = v }),
	styleField("Align", textAligns, func(s Style) string { return s.TextAlign }, func(u *StyleUpdate, v *string) { u.TextAlign = v }),
	styleField("Fill", fillColors, func(s Style) string { return s.Fill }, func(u *StyleUpdate, v *string) { u.Fill = v }),
	styleField("Border", strokeColors, func(s Style) string { return s.Stroke }, func(u *StyleUpdate, v *string) { u.Stroke = v }),
}

func shapeOptions() []string {
	out := make([]string, len(shapeKinds))
	for i, k := range shapeKinds {
		out[i] = string(k)
	}
	return out
}

func styleField(label string, options []string, get func(Style) string, set func(*StyleUpdate, *string)) panelField {
	return panelField{
		label:   label,
		options: options,
		get:     func(n Node) string { return get(n.Style) },
		set: func(v string) NodeUpdate {
			var u NodeUpdate
			set(&u.Style, &v)
			return u
		},
	}
}

// cycle returns the update that moves the field to the next (delta > 0) or
// previous option. A value outside the option set starts from the first.
func (f panelField) cycle(n Node, delta int) (NodeUpdate, bool) {
	if len(f.options) == 0 {
		return NodeUpdate{}, false
	}
	i := slices.Index(f.options, f.get(n))
	switch {
	case i < 0:
		i = 0
	default:
		i = (i + delta%len(f.options) + len(f.options)) % len(f.options)
	}
	return f.set(f.options[i]), true
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#9e9e9e")).
			PaddingLeft(1)
	panelTitle   = lipgloss.NewStyle().Bold(true).Underline(true)
	panelFocused = lipgloss.NewStyle().Reverse(true)
	panelLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e"))
)

// panelView renders the properties of n, with the focused row highlighted.
func panelView(n Node, focus int, width, height int) string {
	var b strings.Builder
	b.WriteString(panelTitle.Render("Node Properties"))
	b.WriteString("\n\n")
	inner := width - 2
	for i, f := range panelFields {
		value := strings.ReplaceAll(f.get(n), "\n", "⏎")
		swatch := f.label == "Fill" || f.label == "Border"
		room := inner - 12
		if swatch {
			room -= 3
		}
		value = truncate(value, room)
		if swatch {
			value = lipgloss.NewStyle().Background(lipgloss.Color(hexColor(f.get(n), "#ffffff"))).Render("  ") + " " + value
		}
		line := fmt.Sprintf("%s %s", panelLabel.Render(fmt.Sprintf("%-11s", f.label)), value)
		if i == focus {
			line = panelFocused.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(panelLabel.Render("tab field  [ ] change"))
	b.WriteString("\n")
	b.WriteString(panelLabel.Render("e edit text  x delete"))
	return panelStyle.Width(width - 1).Height(height).MaxHeight(height).Render(b.String())
}

func truncate(s string, width int) string {
	rs := []rune(s)
	if width <= 1 || len(rs) <= width {
		return s
	}
	return string(rs[:width-1]) + "…"
}
