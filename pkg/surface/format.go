package surface

import "encoding/binary"

// Format is the pixel format of a Surface. Both formats use 4 bytes per
// pixel.
type Format int

const (
	// FormatARGB32 holds premultiplied colour and alpha.
	FormatARGB32 Format = iota
	// FormatRGB24 holds opaque colour. The fourth byte of each pixel is unused.
	FormatRGB24
)

func (f Format) String() string {
	switch f {
	case FormatARGB32:
		return "ARGB32"
	case FormatRGB24:
		return "RGB24"
	}
	return "unknown"
}

// HasAlpha reports whether the alpha byte of each pixel is meaningful.
func (f Format) HasAlpha() bool {
	return f == FormatARGB32
}

// Order is the byte arrangement of one 32-bit pixel in memory. Both formats
// store a pixel as a native-endian 0xAARRGGBB word, so the byte order
// follows the host.
type Order int

const (
	// OrderBGRA is the layout on little-endian hosts: B, G, R, A.
	OrderBGRA Order = iota
	// OrderARGB is the layout on big-endian hosts: A, R, G, B.
	OrderARGB
)

func (o Order) String() string {
	switch o {
	case OrderBGRA:
		return "BGRA"
	case OrderARGB:
		return "ARGB"
	}
	return "unknown"
}

// slots gives the byte offset of each channel within a pixel.
type slots struct {
	r, g, b, a int
}

var orderSlots = [...]slots{
	OrderBGRA: {r: 2, g: 1, b: 0, a: 3},
	OrderARGB: {r: 1, g: 2, b: 3, a: 0},
}

func (o Order) slots() slots {
	return orderSlots[o]
}

// NativeOrder is the pixel byte order of the host, fixed at startup.
var NativeOrder = hostOrder()

func hostOrder() Order {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return OrderBGRA
	}
	return OrderARGB
}

// BytesPerPixel is the pixel size of both formats.
const BytesPerPixel = 4

// MaxDimension is the largest width or height a surface may have.
const MaxDimension = 32767

// StrideForWidth returns the row stride for a surface of the given format
// and width, or -1 when the width is out of range. Both formats pack rows
// at width*4 bytes with no padding; format is taken so callers mirror
// cairo_format_stride_for_width.
func StrideForWidth(format Format, width int) int {
	if width < 0 || width > MaxDimension {
		return -1
	}
	return width * BytesPerPixel
}
