package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidGeometry is returned when a pixbuf cannot be created with the
// requested dimensions.
var ErrInvalidGeometry = errors.New("invalid pixbuf geometry")

// Pixbuf is an 8 bits per sample RGB or RGBA buffer with non-premultiplied
// alpha, laid out the way GdkPixbuf lays out its pixels: rows of
// Width*NChannels bytes, Rowstride bytes apart.
type Pixbuf struct {
	Width     int
	Height    int
	Rowstride int
	NChannels int
	Pixels    []byte
}

// RowstrideFor returns the rowstride New uses: the row length rounded up to
// a multiple of 4 bytes.
func RowstrideFor(width, channels int) int {
	return (width*channels + 3) &^ 3
}

// New allocates a zeroed pixbuf. hasAlpha selects 4 channels instead of 3.
func New(width, height int, hasAlpha bool) (*Pixbuf, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, width, height)
	}
	channels := 3
	if hasAlpha {
		channels = 4
	}
	stride := RowstrideFor(width, channels)
	return &Pixbuf{
		Width:     width,
		Height:    height,
		Rowstride: stride,
		NChannels: channels,
		Pixels:    make([]byte, stride*height),
	}, nil
}

// HasAlpha reports whether the pixbuf carries an alpha channel.
func (pb *Pixbuf) HasAlpha() bool {
	return pb.NChannels == 4
}

// Row returns the bytes of row y without the trailing padding.
func (pb *Pixbuf) Row(y int) []byte {
	start := y * pb.Rowstride
	return pb.Pixels[start : start+pb.Width*pb.NChannels]
}

// Set stores a non-premultiplied colour at (x, y). The alpha sample is
// dropped for 3-channel pixbufs.
func (pb *Pixbuf) Set(x, y int, c color.NRGBA) {
	i := y*pb.Rowstride + x*pb.NChannels
	pb.Pixels[i+0] = c.R
	pb.Pixels[i+1] = c.G
	pb.Pixels[i+2] = c.B
	if pb.NChannels == 4 {
		pb.Pixels[i+3] = c.A
	}
}

// At returns the colour stored at (x, y). 3-channel pixbufs are opaque.
func (pb *Pixbuf) At(x, y int) color.NRGBA {
	i := y*pb.Rowstride + x*pb.NChannels
	c := color.NRGBA{R: pb.Pixels[i+0], G: pb.Pixels[i+1], B: pb.Pixels[i+2], A: 0xff}
	if pb.NChannels == 4 {
		c.A = pb.Pixels[i+3]
	}
	return c
}

// FromImage copies img into a new pixbuf, un-premultiplying as needed.
func FromImage(img image.Image, hasAlpha bool) (*Pixbuf, error) {
	b := img.Bounds()
	pb, err := New(b.Dx(), b.Dy(), hasAlpha)
	if err != nil {
		return nil, err
	}

	// NRGBA already has the right sample layout, only the stride differs.
	if src, ok := img.(*image.NRGBA); ok && hasAlpha {
		for y := 0; y < pb.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pb.Row(y), src.Pix[off:off+pb.Width*4])
		}
		return pb, nil
	}

	for y := 0; y < pb.Height; y++ {
		for x := 0; x < pb.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			pb.Set(x, y, c)
		}
	}
	return pb, nil
}
