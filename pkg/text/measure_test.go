package text

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := map[string]string{
		"a  b":          "a b",
		"\n  hello\t\n": "hello ",
		"x\n\ny ":       "x y ",
		"   ":           "",
		"":              "",
	}
	for in, want := range tests {
		if got := CollapseWhitespace(in); got != want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMeasureTextScalesWithSize(t *testing.T) {
	f := NewFonts(FontConfig{})
	w1, h1 := f.MeasureText("hello", 10, false)
	w2, h2 := f.MeasureText("hello", 20, false)
	if w1 <= 0 || h1 <= 0 {
		t.Fatalf("expected positive size, got %vx%v", w1, h1)
	}
	if w2 <= w1 || h2 <= h1 {
		t.Errorf("larger font should measure larger: %vx%v vs %vx%v", w1, h1, w2, h2)
	}
	if wb, _ := f.MeasureText("hello", 10, true); wb < w1 {
		t.Errorf("bold narrower than regular: %v < %v", wb, w1)
	}
}

func TestBreakTextIntoLines(t *testing.T) {
	f := NewFonts(FontConfig{})
	text := "the quick brown fox jumps over the lazy dog"
	wordWidth, _ := f.MeasureText("quick brown", 16, false)

	lines := f.BreakTextIntoLines(text, 16, false, wordWidth)
	if len(lines) < 3 {
		t.Fatalf("expected several lines, got %q", lines)
	}
	if got := strings.Join(lines, " "); got != text {
		t.Errorf("lines lost words: %q", got)
	}
	for _, l := range lines {
		if w, _ := f.MeasureText(l, 16, false); w > wordWidth && strings.Contains(l, " ") {
			t.Errorf("line %q wider than %v", l, wordWidth)
		}
	}

	if got := f.BreakTextIntoLines("supercalifragilistic", 16, false, 1); len(got) != 1 {
		t.Errorf("long word should stay on one line, got %q", got)
	}
	if got := f.BreakTextIntoLines("  ", 16, false, 100); got != nil {
		t.Errorf("expected no lines for blank text, got %q", got)
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	f := NewFonts(FontConfig{Regular: filepath.Join(t.TempDir(), "missing.ttf")})
	if w, _ := f.MeasureText("x", 12, false); w <= 0 {
		t.Errorf("expected fallback font to measure text, got %v", w)
	}
}
