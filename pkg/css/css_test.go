package css

import (
	"image/color"
	"testing"

	"webshot/pkg/html"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"red", Color{255, 0, 0, 1}, true},
		{" White ", Color{255, 255, 255, 1}, true},
		{"#0f0", Color{0, 255, 0, 1}, true},
		{"#102030", Color{16, 32, 48, 1}, true},
		{"#ff000080", Color{255, 0, 0, 128.0 / 255}, true},
		{"rgb(1, 2, 3)", Color{1, 2, 3, 1}, true},
		{"rgba(10,20,30,0.5)", Color{10, 20, 30, 0.5}, true},
		{"rgb(100% 0% 0% / 25%)", Color{255, 0, 0, 0.25}, true},
		{"transparent", Color{0, 0, 0, 0}, true},
		{"#12", Color{}, false},
		{"rgb(1,2)", Color{}, false},
		{"notacolor", Color{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestColorNRGBA(t *testing.T) {
	if got := (Color{10, 20, 30, 0.5}).NRGBA(); got != (color.NRGBA{10, 20, 30, 128}) {
		t.Errorf("NRGBA = %v", got)
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10px", 10, true},
		{"2em", 40, true},
		{"1rem", 16, true},
		{"12pt", 16, true},
		{"7", 7, true},
		{"auto", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLength(tt.in, 20)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseLength(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestShorthandExpansion(t *testing.T) {
	s := ParseInlineStyle("margin: 1px 2px 3px; padding: 4px 5px; border: 2px solid red; background: #00f")
	if m := s.GetMargin(); m != (BoxEdge{1, 2, 3, 2}) {
		t.Errorf("margin = %+v", m)
	}
	if p := s.GetPadding(); p != (BoxEdge{4, 5, 4, 5}) {
		t.Errorf("padding = %+v", p)
	}
	if b := s.GetBorderWidth(); b != (BoxEdge{2, 2, 2, 2}) {
		t.Errorf("border = %+v", b)
	}
	if c := s.GetBorderColor(); c != (Color{255, 0, 0, 1}) {
		t.Errorf("border color = %v", c)
	}
	if bg, ok := s.GetBackgroundColor(); !ok || bg != (Color{0, 0, 255, 1}) {
		t.Errorf("background = %v, %v", bg, ok)
	}
}

func TestBorderWithoutStyleIsInvisible(t *testing.T) {
	s := ParseInlineStyle("border-width: 4px; border-color: blue")
	if b := s.GetBorderWidth(); b != (BoxEdge{}) {
		t.Errorf("expected no border, got %+v", b)
	}
}

func TestParseStylesheet(t *testing.T) {
	sheet := ParseStylesheet(`
		/* comment { } */
		@media print { p { color: red } }
		p, div.note { color: blue }
		#main .x { margin: 2px }
		a:hover { color: red }
	`)
	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d: %+v", len(sheet.Rules), sheet.Rules)
	}
	if sheet.Rules[1].Selector.Specificity != 11 {
		t.Errorf("div.note specificity = %d", sheet.Rules[1].Selector.Specificity)
	}
	if sheet.Rules[2].Selector.Specificity != 110 {
		t.Errorf("#main .x specificity = %d", sheet.Rules[2].Selector.Specificity)
	}
}

func TestComputeStyleCascade(t *testing.T) {
	doc, err := html.Parse(`<div id="main" style="font-size: 20px"><p class="x" style="margin-left: 9px">hi</p></div>`)
	if err != nil {
		t.Fatal(err)
	}
	sheets := []*Stylesheet{ParseStylesheet(`
		p { color: red; margin: 1px }
		.x { color: green }
		#main .x { color: blue }
		p { color: yellow }
	`)}

	div := doc.Root.ElementByID("main")
	divStyle := ComputeStyle(div, sheets, nil)
	p := div.ElementsByTagName("p")[0]
	pStyle := ComputeStyle(p, sheets, divStyle)

	if c := pStyle.GetColor(); c != (Color{0, 0, 255, 1}) {
		t.Errorf("color = %v, want blue from the most specific rule", c)
	}
	if m := pStyle.GetMargin(); m.Left != 9 || m.Top != 1 {
		t.Errorf("margin = %+v, want inline left 9 over rule top 1", m)
	}
	if pStyle.GetFontSize() != 20 {
		t.Errorf("font-size not inherited: %v", pStyle.GetFontSize())
	}
}

func TestComputeStyleResolvesEmFontSize(t *testing.T) {
	doc, err := html.Parse(`<div style="font-size: 10px"><h1>x</h1></div>`)
	if err != nil {
		t.Fatal(err)
	}
	div := doc.Body().ElementsByTagName("div")[0]
	h1 := div.ElementsByTagName("h1")[0]
	ds := ComputeStyle(div, nil, nil)
	hs := ComputeStyle(h1, nil, ds)
	if hs.GetFontSize() != 20 {
		t.Errorf("h1 font-size = %v, want 20", hs.GetFontSize())
	}
	if hs.GetFontWeight() != FontWeightBold {
		t.Error("h1 should be bold")
	}
	if m := hs.GetMargin().Top; m < 13.39 || m > 13.41 {
		t.Errorf("h1 margin-top = %v", hs.GetMargin().Top)
	}
}
