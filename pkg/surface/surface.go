package surface

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// Surface is a 32 bits per pixel image in cairo's memory layout. Pix holds
// Height rows of Stride bytes; each pixel is four bytes arranged by Order.
type Surface struct {
	Width  int
	Height int
	Stride int
	Format Format
	Order  Order
	Pix    []byte
}

// At returns the premultiplied colour at (x, y). RGB24 pixels are opaque
// whatever their unused byte holds.
func (s *Surface) At(x, y int) color.RGBA {
	slot := s.Order.slots()
	px := s.Pix[y*s.Stride+x*BytesPerPixel:]
	c := color.RGBA{R: px[slot.r], G: px[slot.g], B: px[slot.b], A: 0xff}
	if s.Format.HasAlpha() {
		c.A = px[slot.a]
	}
	return c
}

// RGBA returns a copy of the surface as a Go image. Both use premultiplied
// alpha, so only the byte order changes.
func (s *Surface) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+s.Width*4]
		for x := 0; x < s.Width; x++ {
			c := s.At(x, y)
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}
	return img
}

// EncodePNG writes the surface to w as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return gg.NewContextForRGBA(s.RGBA()).EncodePNG(w)
}
