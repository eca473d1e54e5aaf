package css

import (
	"strconv"
	"strings"
)

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// Apply sets a declaration, expanding the shorthands the layout understands.
func (s *Style) Apply(property, value string) {
	expandShorthand(s, strings.ToLower(strings.TrimSpace(property)), strings.TrimSpace(value))
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val, s.GetFontSize())
}

// ParseLength parses "12px", "1.5em" (relative to fontSize), "1rem",
// "12pt" or a bare number.
func ParseLength(val string, fontSize float64) (float64, bool) {
	val = strings.TrimSpace(strings.ToLower(val))
	scale, div := 1.0, 1.0
	switch {
	case strings.HasSuffix(val, "px"):
		val = strings.TrimSuffix(val, "px")
	case strings.HasSuffix(val, "rem"):
		val = strings.TrimSuffix(val, "rem")
		scale = DefaultFontSize
	case strings.HasSuffix(val, "em"):
		val = strings.TrimSuffix(val, "em")
		scale = fontSize
	case strings.HasSuffix(val, "pt"):
		val = strings.TrimSuffix(val, "pt")
		scale, div = 4, 3
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num * scale / div, true
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

func (s *Style) GetMargin() BoxEdge {
	return s.edge("margin-%s")
}

func (s *Style) GetPadding() BoxEdge {
	return s.edge("padding-%s")
}

// GetBorderWidth is zero on every side unless a visible border-style is set.
func (s *Style) GetBorderWidth() BoxEdge {
	if st, _ := s.Get("border-style"); st == "" || st == "none" || st == "hidden" {
		return BoxEdge{}
	}
	return s.edge("border-%s-width")
}

func (s *Style) edge(pattern string) BoxEdge {
	side := func(name string) float64 {
		v, _ := s.GetLength(strings.Replace(pattern, "%s", name, 1))
		return v
	}
	return BoxEdge{Top: side("top"), Right: side("right"), Bottom: side("bottom"), Left: side("left")}
}

// ParseInlineStyle parses a style attribute or a rule body.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range strings.Split(styleAttr, ";") {
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if strings.TrimSpace(property) == "" || value == "" {
			continue
		}
		style.Apply(property, value)
	}
	return style
}

func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property+"-%s", value)
	case "border-width":
		expandBoxProperty(style, "border-%s-width", value)
	case "border":
		expandBorderProperty(style, value, "top", "right", "bottom", "left")
	case "border-top", "border-right", "border-bottom", "border-left":
		expandBorderProperty(style, value, strings.TrimPrefix(property, "border-"))
	case "background":
		// Only the colour part of the shorthand is painted.
		for _, part := range strings.Fields(value) {
			if _, ok := ParseColor(part); ok {
				style.Set("background-color", part)
			}
		}
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty handles the 1-4 value forms of margin, padding and
// border-width. pattern holds %s where the side name goes.
func expandBoxProperty(style *Style, pattern, value string) {
	parts := strings.Fields(value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(strings.Replace(pattern, "%s", "top", 1), t)
	style.Set(strings.Replace(pattern, "%s", "right", 1), r)
	style.Set(strings.Replace(pattern, "%s", "bottom", 1), b)
	style.Set(strings.Replace(pattern, "%s", "left", 1), l)
}

// expandBorderProperty expands "1px solid black" onto the given sides.
func expandBorderProperty(style *Style, value string, sides ...string) {
	width := "3px"
	for _, part := range strings.Fields(value) {
		switch {
		case isBorderStyle(part):
			style.Set("border-style", part)
		case startsWithDigit(part) || part == "thin" || part == "medium" || part == "thick":
			width = borderKeyword(part)
		default:
			style.Set("border-color", part)
		}
	}
	for _, side := range sides {
		style.Set("border-"+side+"-width", width)
	}
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}

func borderKeyword(s string) string {
	switch s {
	case "thin":
		return "1px"
	case "medium":
		return "3px"
	case "thick":
		return "5px"
	}
	return s
}

func startsWithDigit(s string) bool {
	return s != "" && (s[0] >= '0' && s[0] <= '9' || s[0] == '.')
}

// DefaultFontSize is the initial font-size in pixels.
const DefaultFontSize = 16.0

// GetFontSize returns the font-size in pixels (default: 16px). The cascade
// resolves relative sizes to px, so em here is relative to the default.
func (s *Style) GetFontSize() float64 {
	if v, ok := s.Get("font-size"); ok {
		if size, ok := ParseLength(v, DefaultFontSize); ok {
			return size
		}
	}
	return DefaultFontSize
}

// GetLineHeight returns the line-height in pixels (default: 1.2 * font-size)
func (s *Style) GetLineHeight() float64 {
	if v, ok := s.Get("line-height"); ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n * s.GetFontSize()
		}
		if lh, ok := ParseLength(v, s.GetFontSize()); ok {
			return lh
		}
	}
	return s.GetFontSize() * 1.2
}

// GetColor returns the text color (default: black)
func (s *Style) GetColor() Color {
	if colorStr, ok := s.Get("color"); ok {
		if color, ok := ParseColor(colorStr); ok {
			return color
		}
	}
	return Color{0, 0, 0, 1.0}
}

// GetBackgroundColor reports false when no visible background is set.
func (s *Style) GetBackgroundColor() (Color, bool) {
	v, ok := s.Get("background-color")
	if !ok {
		return Color{}, false
	}
	c, ok := ParseColor(v)
	return c, ok && c.A > 0
}

// GetBorderColor falls back to the text colour, as currentColor does.
func (s *Style) GetBorderColor() Color {
	if v, ok := s.Get("border-color"); ok {
		if c, ok := ParseColor(v); ok {
			return c
		}
	}
	return s.GetColor()
}

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

// GetFontWeight returns the font-weight value (default: normal)
func (s *Style) GetFontWeight() FontWeight {
	if weight, ok := s.Get("font-weight"); ok {
		switch weight {
		case "bold", "bolder", "600", "700", "800", "900":
			return FontWeightBold
		}
	}
	return FontWeightNormal
}

type DisplayType string

const (
	DisplayBlock  DisplayType = "block"
	DisplayInline DisplayType = "inline"
	DisplayNone   DisplayType = "none"
)

// GetDisplay returns the display value (default: block)
func (s *Style) GetDisplay() DisplayType {
	if display, ok := s.Get("display"); ok {
		switch display {
		case "inline", "inline-block":
			return DisplayInline
		case "none":
			return DisplayNone
		}
	}
	return DisplayBlock
}

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

// GetTextAlign returns the text-align value (default: left)
func (s *Style) GetTextAlign() TextAlign {
	if align, ok := s.Get("text-align"); ok {
		switch align {
		case "center":
			return TextAlignCenter
		case "right", "end":
			return TextAlignRight
		}
	}
	return TextAlignLeft
}

// GetSize returns an explicit width or height. auto and percentages
// report false.
func (s *Style) GetSize(property string) (float64, bool) {
	v, ok := s.Get(property)
	if !ok || v == "auto" || strings.HasSuffix(v, "%") {
		return 0, false
	}
	return ParseLength(v, s.GetFontSize())
}
