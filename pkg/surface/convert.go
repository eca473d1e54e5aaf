package surface

import (
	"errors"
	"fmt"

	"webshot/pkg/pixbuf"
)

var (
	// ErrInvalidChannelCount is returned for source buffers that are neither
	// RGB nor RGBA.
	ErrInvalidChannelCount = errors.New("invalid channel count")
	// ErrAllocationFailure is returned when the destination buffer cannot be
	// allocated for the requested size.
	ErrAllocationFailure = errors.New("surface allocation failed")
	// ErrShortBuffer is returned when the source rowstride or pixel data is
	// too small for its declared dimensions.
	ErrShortBuffer = errors.New("source buffer too short")
)

// Convert copies src into a newly allocated surface in the host byte order.
// 3-channel sources become FormatRGB24, 4-channel sources become
// FormatARGB32 with premultiplied colour. src is only read.
func Convert(src *pixbuf.Pixbuf) (*Surface, error) {
	return ConvertOrder(src, NativeOrder)
}

// ConvertOrder is Convert with an explicit destination byte order.
func ConvertOrder(src *pixbuf.Pixbuf, order Order) (*Surface, error) {
	var format Format
	switch src.NChannels {
	case 3:
		format = FormatRGB24
	case 4:
		format = FormatARGB32
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, src.NChannels)
	}

	if err := checkSource(src); err != nil {
		return nil, err
	}

	stride := StrideForWidth(format, src.Width)
	if stride < 0 || src.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrAllocationFailure, src.Width, src.Height, MaxDimension)
	}

	s := &Surface{
		Width:  src.Width,
		Height: src.Height,
		Stride: stride,
		Format: format,
		Order:  order,
		Pix:    make([]byte, src.Height*stride),
	}

	slot := order.slots()
	for y := 0; y < src.Height; y++ {
		p := src.Pixels[y*src.Rowstride : y*src.Rowstride+src.Width*src.NChannels]
		q := s.Pix[y*stride : y*stride+src.Width*BytesPerPixel]
		if format == FormatRGB24 {
			convertRGBRow(q, p, slot)
		} else {
			convertRGBARow(q, p, slot)
		}
	}
	return s, nil
}

func checkSource(src *pixbuf.Pixbuf) error {
	if src.Width < 0 || src.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrAllocationFailure, src.Width, src.Height)
	}
	row := src.Width * src.NChannels
	if src.Rowstride < row {
		return fmt.Errorf("%w: rowstride %d < %d", ErrShortBuffer, src.Rowstride, row)
	}
	if src.Height == 0 {
		return nil
	}
	// The last row does not need its padding.
	need := (src.Height-1)*src.Rowstride + row
	if len(src.Pixels) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrShortBuffer, len(src.Pixels), need)
	}
	return nil
}

func convertRGBRow(q, p []byte, slot slots) {
	for len(p) >= 3 {
		q[slot.r] = p[0]
		q[slot.g] = p[1]
		q[slot.b] = p[2]
		q[slot.a] = 0xff
		p = p[3:]
		q = q[4:]
	}
}

func convertRGBARow(q, p []byte, slot slots) {
	for len(p) >= 4 {
		a := p[3]
		q[slot.r] = Premultiply(p[0], a)
		q[slot.g] = Premultiply(p[1], a)
		q[slot.b] = Premultiply(p[2], a)
		q[slot.a] = a
		p = p[4:]
		q = q[4:]
	}
}

// Premultiply scales c by a/255 using cairo's shift-and-add rounding.
// Renderers reading the surface expect exactly these values.
func Premultiply(c, a byte) byte {
	t := uint32(c)*uint32(a) + 0x7f
	return byte(((t >> 8) + t) >> 8)
}
