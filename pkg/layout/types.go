package layout

import (
	"image"

	"webshot/pkg/css"
	"webshot/pkg/html"
)

// Box is a laid out block-level element. X and Y locate the border box;
// Width and Height are the content size.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Children []*Box
	Parent   *Box

	// Image is set for replaced <img> boxes laid out as blocks.
	Image image.Image

	// LineBoxes hold the inline content of this box, in flow order.
	LineBoxes []*LineBox
}

// LineBox is one line of inline content.
type LineBox struct {
	Y         float64
	Height    float64
	Baseline  float64
	Fragments []*Fragment
}

// Fragment is a run of same-styled text or an inline image placed on a line.
type Fragment struct {
	Text   string
	Image  image.Image
	Style  *css.Style
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// BorderBox returns the box including padding and border.
func (b *Box) BorderBox() Rect {
	return Rect{
		X:      b.X,
		Y:      b.Y,
		Width:  b.Border.Left + b.Padding.Left + b.Width + b.Padding.Right + b.Border.Right,
		Height: b.Border.Top + b.Padding.Top + b.Height + b.Padding.Bottom + b.Border.Bottom,
	}
}

// PaddingBox returns the box inside the border.
func (b *Box) PaddingBox() Rect {
	bb := b.BorderBox()
	return Rect{
		X:      bb.X + b.Border.Left,
		Y:      bb.Y + b.Border.Top,
		Width:  bb.Width - b.Border.Horizontal(),
		Height: bb.Height - b.Border.Vertical(),
	}
}

// ContentBox returns the content area.
func (b *Box) ContentBox() Rect {
	return Rect{
		X:      b.X + b.Border.Left + b.Padding.Left,
		Y:      b.Y + b.Border.Top + b.Padding.Top,
		Width:  b.Width,
		Height: b.Height,
	}
}

// MarginBox returns the border box grown by the margins.
func (b *Box) MarginBox() Rect {
	bb := b.BorderBox()
	return Rect{
		X:      bb.X - b.Margin.Left,
		Y:      bb.Y - b.Margin.Top,
		Width:  bb.Width + b.Margin.Horizontal(),
		Height: bb.Height + b.Margin.Vertical(),
	}
}

// Walk calls fn for b and every descendant box in paint order.
func (b *Box) Walk(fn func(*Box)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// FindByID returns the first box whose element has the given id.
func FindByID(boxes []*Box, id string) *Box {
	var found *Box
	for _, root := range boxes {
		root.Walk(func(b *Box) {
			if found != nil || b.Node == nil {
				return
			}
			if v, _ := b.Node.GetAttribute("id"); v == id {
				found = b
			}
		})
	}
	return found
}
