package css

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color is an sRGB colour with alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// NRGBA converts c to a non-premultiplied Go colour.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

var namedColors = map[string]Color{
	"black":   {0, 0, 0, 1},
	"white":   {255, 255, 255, 1},
	"red":     {255, 0, 0, 1},
	"green":   {0, 128, 0, 1},
	"blue":    {0, 0, 255, 1},
	"yellow":  {255, 255, 0, 1},
	"cyan":    {0, 255, 255, 1},
	"aqua":    {0, 255, 255, 1},
	"magenta": {255, 0, 255, 1},
	"fuchsia": {255, 0, 255, 1},
	"gray":    {128, 128, 128, 1},
	"grey":    {128, 128, 128, 1},
	"silver":  {192, 192, 192, 1},
	"maroon":  {128, 0, 0, 1},
	"olive":   {128, 128, 0, 1},
	"lime":    {0, 255, 0, 1},
	"navy":    {0, 0, 128, 1},
	"teal":    {0, 128, 128, 1},
	"purple":  {128, 0, 128, 1},
	"orange":  {255, 165, 0, 1},
	"pink":    {255, 192, 203, 1},
	"brown":   {165, 42, 42, 1},
	"gold":    {255, 215, 0, 1},
	"indigo":  {75, 0, 130, 1},
	"violet":  {238, 130, 238, 1},
	"coral":   {255, 127, 80, 1},
	"salmon":  {250, 128, 114, 1},
	"khaki":   {240, 230, 140, 1},
	"crimson": {220, 20, 60, 1},
	"tomato":  {255, 99, 71, 1},

	"lightgray":   {211, 211, 211, 1},
	"lightgrey":   {211, 211, 211, 1},
	"darkgray":    {169, 169, 169, 1},
	"darkgrey":    {169, 169, 169, 1},
	"whitesmoke":  {245, 245, 245, 1},
	"gainsboro":   {220, 220, 220, 1},
	"lightblue":   {173, 216, 230, 1},
	"skyblue":     {135, 206, 235, 1},
	"steelblue":   {70, 130, 180, 1},
	"darkblue":    {0, 0, 139, 1},
	"lightgreen":  {144, 238, 144, 1},
	"darkgreen":   {0, 100, 0, 1},
	"darkred":     {139, 0, 0, 1},
	"beige":       {245, 245, 220, 1},
	"ivory":       {255, 255, 240, 1},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses named colours, #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb() and rgba().
func ParseColor(colorStr string) (Color, bool) {
	s := strings.ToLower(strings.TrimSpace(colorStr))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunction(s)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3, 4:
		// Short forms double each digit.
		long := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			long = append(long, hex[i], hex[i])
		}
		hex = string(long)
	case 6, 8:
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(hex) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, true
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: float64(uint8(v)) / 255}, true
}

func parseRGBFunction(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return Color{}, false
	}
	body := strings.NewReplacer(",", " ", "/", " ").Replace(s[open+1 : len(s)-1])
	args := strings.Fields(body)
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(args[i])
		if !ok {
			return Color{}, false
		}
		ch[i] = v
	}
	c := Color{R: ch[0], G: ch[1], B: ch[2], A: 1}
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return Color{}, false
		}
		c.A = a
	}
	return c, true
}

func parseChannel(s string) (uint8, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return uint8(math.Round(clamp01(f/100) * 255)), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return uint8(math.Round(math.Max(0, math.Min(255, f)))), true
}

func parseAlpha(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return clamp01(f / 100), err
	}
	f, err := strconv.ParseFloat(s, 64)
	return clamp01(f), err
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
