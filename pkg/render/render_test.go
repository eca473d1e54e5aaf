package render

import (
	"image"
	"image/color"
	"testing"

	"webshot/pkg/html"
	"webshot/pkg/images"
	"webshot/pkg/layout"
)

func renderHTML(t *testing.T, src string, w, h int, transparent bool) *image.RGBA {
	t.Helper()
	doc, err := html.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	le := layout.NewLayoutEngine(float64(w), float64(h), nil, images.NewLoader(nil))
	r := NewRenderer(w, h, nil)
	r.Transparent = transparent
	r.Render(le.Layout(doc))
	return r.Image()
}

func pixel(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestDefaultCanvasIsWhite(t *testing.T) {
	img := renderHTML(t, `<p></p>`, 20, 20, false)
	if got := pixel(img, 10, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("canvas = %v, want white", got)
	}
}

func TestTransparentCanvas(t *testing.T) {
	img := renderHTML(t, `<p></p>`, 20, 20, true)
	if got := pixel(img, 10, 10); got.A != 0 {
		t.Errorf("canvas = %v, want transparent", got)
	}
}

func TestBodyBackgroundFillsCanvas(t *testing.T) {
	img := renderHTML(t, `<body style="background: #00ff00"><div style="height:5px"></div></body>`, 40, 40, true)
	// Outside the body box, inside its margin and below its content.
	for _, p := range []image.Point{{1, 1}, {20, 35}} {
		if got := pixel(img, p.X, p.Y); got != (color.RGBA{0, 255, 0, 255}) {
			t.Errorf("pixel %v = %v, want green", p, got)
		}
	}
}

func TestBackgroundAndBorder(t *testing.T) {
	img := renderHTML(t, `<body style="margin:0">
		<div style="width:20px; height:20px; margin:10px; border:4px solid blue; background-color:red"></div>
	</body>`, 60, 60, false)

	if got := pixel(img, 24, 24); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("inside = %v, want red", got)
	}
	if got := pixel(img, 11, 24); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("left border = %v, want blue", got)
	}
	if got := pixel(img, 24, 36); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("bottom border = %v, want blue", got)
	}
	if got := pixel(img, 5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("margin = %v, want white", got)
	}
}

func TestTextIsDrawn(t *testing.T) {
	img := renderHTML(t, `<body style="margin:0"><p style="margin:0; font-size:20px; color:black">HHHH</p></body>`, 100, 30, false)
	dark := 0
	for y := 0; y < 30; y++ {
		for x := 0; x < 100; x++ {
			if c := pixel(img, x, y); c.R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("expected text pixels")
	}
}

func TestCanvasBackgroundPrefersRoot(t *testing.T) {
	doc, _ := html.Parse(`<html style="background:red"><body style="background:blue"></body></html>`)
	boxes := layout.NewLayoutEngine(10, 10, nil, nil).Layout(doc)
	c, from := CanvasBackground(boxes)
	if from == nil || from.Node.TagName != "html" || c.R != 255 {
		t.Errorf("background %v from %v, want red from html", c, from)
	}
}
