package render

import (
	"image"
	"strings"

	"github.com/fogleman/gg"

	"webshot/pkg/css"
	"webshot/pkg/layout"
	"webshot/pkg/text"
)

type Renderer struct {
	context *gg.Context
	fonts   *text.Fonts

	// Transparent leaves the canvas clear instead of white when the page
	// sets no background.
	Transparent bool
}

// NewRenderer creates a renderer drawing onto a width x height canvas. A
// nil fonts uses the bundled faces.
func NewRenderer(width, height int, fonts *text.Fonts) *Renderer {
	if fonts == nil {
		fonts = text.NewFonts(text.FontConfig{})
	}
	return &Renderer{context: gg.NewContext(width, height), fonts: fonts}
}

// Render paints the canvas background and then every box in tree order.
func (r *Renderer) Render(boxes []*layout.Box) {
	bg, from := CanvasBackground(boxes)
	switch {
	case from != nil:
		setColor(r.context, bg)
		r.context.Clear()
	case !r.Transparent:
		r.context.SetRGB(1, 1, 1)
		r.context.Clear()
	}

	for _, root := range boxes {
		root.Walk(func(b *layout.Box) {
			r.drawBox(b, b == from)
		})
	}
}

// Image returns the canvas. It is the renderer's backing store, not a copy.
func (r *Renderer) Image() *image.RGBA {
	return r.context.Image().(*image.RGBA)
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// CanvasBackground returns the background that fills the whole canvas:
// the root element's, or the body's when the root has none. from is the
// box the colour was taken from, or nil.
func CanvasBackground(boxes []*layout.Box) (bg css.Color, from *layout.Box) {
	for _, root := range boxes {
		if c, ok := root.Style.GetBackgroundColor(); ok {
			return c, root
		}
		for _, child := range root.Children {
			if child.Node != nil && child.Node.TagName == "body" {
				if c, ok := child.Style.GetBackgroundColor(); ok {
					return c, child
				}
			}
		}
	}
	return css.Color{}, nil
}

func setColor(dc *gg.Context, c css.Color) {
	dc.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}

func (r *Renderer) drawBox(box *layout.Box, skipBackground bool) {
	if !skipBackground {
		if c, ok := box.Style.GetBackgroundColor(); ok {
			pb := box.PaddingBox()
			if pb.Width > 0 && pb.Height > 0 {
				setColor(r.context, c)
				r.context.DrawRectangle(pb.X, pb.Y, pb.Width, pb.Height)
				r.context.Fill()
			}
		}
	}

	r.drawBorder(box)

	if box.Image != nil {
		cb := box.ContentBox()
		r.drawImage(box.Image, cb.X, cb.Y, cb.Width, cb.Height)
	}

	for _, line := range box.LineBoxes {
		r.drawLine(line)
	}
}

// drawBorder fills each side of the border area. Every border style is
// painted solid.
func (r *Renderer) drawBorder(box *layout.Box) {
	bw := box.Border
	if bw == (css.BoxEdge{}) {
		return
	}
	bb := box.BorderBox()
	setColor(r.context, box.Style.GetBorderColor())
	sides := []layout.Rect{
		{X: bb.X, Y: bb.Y, Width: bb.Width, Height: bw.Top},
		{X: bb.X, Y: bb.Bottom() - bw.Bottom, Width: bb.Width, Height: bw.Bottom},
		{X: bb.X, Y: bb.Y + bw.Top, Width: bw.Left, Height: bb.Height - bw.Vertical()},
		{X: bb.Right() - bw.Right, Y: bb.Y + bw.Top, Width: bw.Right, Height: bb.Height - bw.Vertical()},
	}
	for _, s := range sides {
		if s.Width > 0 && s.Height > 0 {
			r.context.DrawRectangle(s.X, s.Y, s.Width, s.Height)
		}
	}
	r.context.Fill()
}

func (r *Renderer) drawLine(line *layout.LineBox) {
	for _, f := range line.Fragments {
		if f.Image != nil {
			r.drawImage(f.Image, f.X, f.Y, f.Width, f.Height)
			continue
		}
		if f.Text == "" {
			continue
		}
		size := f.Style.GetFontSize()
		r.context.SetFontFace(r.fonts.Face(size, f.Style.GetFontWeight() == css.FontWeightBold))
		setColor(r.context, f.Style.GetColor())
		r.context.DrawString(f.Text, f.X, line.Baseline)

		if deco, _ := f.Style.Get("text-decoration"); strings.Contains(deco, "underline") {
			thickness := max(1, size/12.0)
			y := line.Baseline + size*0.1
			r.context.SetLineWidth(thickness)
			r.context.DrawLine(f.X, y, f.X+f.Width, y)
			r.context.Stroke()
		}
	}
}

// drawImage scales img into the given rectangle.
func (r *Renderer) drawImage(img image.Image, x, y, width, height float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || width <= 0 || height <= 0 {
		return
	}
	r.context.Push()
	r.context.Translate(x, y)
	r.context.Scale(width/float64(b.Dx()), height/float64(b.Dy()))
	r.context.DrawImage(img, -b.Min.X, -b.Min.Y)
	r.context.Pop()
}
