package main

import (
	"strconv"
	"strings"
)

type Style struct {
	Fill           string `json:"fill"`
	Stroke         string `json:"stroke"`
	FontFamily     string `json:"fontFamily"`
	FontSize       string `json:"fontSize"`
	FontWeight     string `json:"fontWeight"`
	FontStyle      string `json:"fontStyle"`
	TextDecoration string `json:"textDecoration"`
	TextAlign      string `json:"textAlign"`
}

func DefaultStyle() Style {
	return Style{
		Fill:           "#ffffff",
		Stroke:         "#000000",
		FontFamily:     "Arial",
		FontSize:       "14px",
		FontWeight:     "normal",
		FontStyle:      "normal",
		TextDecoration: "none",
		TextAlign:      "center",
	}
}

// StyleUpdate holds the style fields to change. Nil fields are kept.
type StyleUpdate struct {
	Fill           *string
	Stroke         *string
	FontFamily     *string
	FontSize       *string
	FontWeight     *string
	FontStyle      *string
	TextDecoration *string
	TextAlign      *string
}

// asUpdate returns the update that sets every property to the value in s.
func (s Style) asUpdate() StyleUpdate {
	return StyleUpdate{
		Fill:           &s.Fill,
		Stroke:         &s.Stroke,
		FontFamily:     &s.FontFamily,
		FontSize:       &s.FontSize,
		FontWeight:     &s.FontWeight,
		FontStyle:      &s.FontStyle,
		TextDecoration: &s.TextDecoration,
		TextAlign:      &s.TextAlign,
	}
}

func (u StyleUpdate) apply(s Style) Style {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Fill, u.Fill)
	set(&s.Stroke, u.Stroke)
	set(&s.FontFamily, u.FontFamily)
	set(&s.FontSize, u.FontSize)
	set(&s.FontWeight, u.FontWeight)
	set(&s.FontStyle, u.FontStyle)
	set(&s.TextDecoration, u.TextDecoration)
	set(&s.TextAlign, u.TextAlign)
	return s
}

var (
	fillColors = []string{
		"#ffffff", "#f8bbd0", "#e1bee7", "#bbdefb", "#c8e6c9",
		"#fff9c4", "#ffecb3", "#ffccbc", "#d7ccc8", "#f5f5f5",
	}
	strokeColors = []string{
		"#000000", "#e91e63", "#9c27b0", "#2196f3", "#4caf50",
		"#ffeb3b", "#ff9800", "#ff5722", "#795548", "#9e9e9e",
	}
	fontFamilies    = []string{"Arial", "Verdana", "Helvetica", "Times New Roman", "Courier New"}
	fontSizes       = []string{"10px", "12px", "14px", "16px", "18px", "20px", "24px"}
	fontWeights     = []string{"normal", "bold"}
	fontStyles      = []string{"normal", "italic"}
	textDecorations = []string{"none", "underline"}
	textAligns      = []string{"left", "center", "right"}
)

const dropTargetStroke = "#4caf50"

// fontPoints parses sizes like "14px" or "14". Anything else is 14.
func fontPoints(size string) float64 {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(size), "px"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 14
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}
