package offscreen

import (
	"fmt"
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/software"
	"fyne.io/fyne/v2/test"

	"webshot/pkg/pixbuf"
	"webshot/pkg/surface"
)

// Window is an offscreen host for a rendered page. It never appears on
// screen: the page image sits in a software canvas that is painted in
// memory when captured.
type Window struct {
	canvas test.WindowlessCanvas
	image  *canvas.Image
	alpha  bool

	width  int
	height int
}

// NewWindow creates an empty window. alpha selects 4-channel captures.
func NewWindow(alpha bool) *Window {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels

	c := software.NewTransparentCanvas()
	c.SetPadded(false)
	c.SetContent(img)
	return &Window{canvas: c, image: img, alpha: alpha}
}

// Allocate forces the window to width x height pixels.
func (w *Window) Allocate(width, height int) error {
	if width <= 0 || height <= 0 || width > surface.MaxDimension || height > surface.MaxDimension {
		return fmt.Errorf("%w: window %dx%d", surface.ErrAllocationFailure, width, height)
	}
	slog.Debug("offscreen: allocate", "width", width, "height", height)
	w.width, w.height = width, height
	size := fyne.NewSize(float32(width), float32(height))
	w.canvas.Resize(size)
	w.image.Resize(size)
	return nil
}

// Size returns the allocated size.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// SetContent shows img in the window.
func (w *Window) SetContent(img image.Image) {
	w.image.Image = img
	w.image.Refresh()
}

// Pixbuf paints the window and copies the result into a new pixbuf with 4
// channels when the window has alpha, 3 otherwise.
func (w *Window) Pixbuf() (*pixbuf.Pixbuf, error) {
	if w.width == 0 || w.height == 0 {
		return nil, fmt.Errorf("%w: window not allocated", pixbuf.ErrInvalidGeometry)
	}
	shot := w.canvas.Capture()
	if b := shot.Bounds(); b.Dx() != w.width || b.Dy() != w.height {
		shot = crop(shot, w.width, w.height)
	}
	return pixbuf.FromImage(shot, w.alpha)
}

// crop trims or pads a capture to exactly width x height. Scaled canvases
// can round their pixel size up by one.
func crop(img image.Image, width, height int) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	for y := 0; y < height && y < b.Dy(); y++ {
		for x := 0; x < width && x < b.Dx(); x++ {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}
