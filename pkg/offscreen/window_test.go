package offscreen

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"webshot/pkg/pixbuf"
	"webshot/pkg/surface"
)

func TestAllocateLimits(t *testing.T) {
	w := NewWindow(false)
	for _, size := range [][2]int{{0, 10}, {10, -1}, {surface.MaxDimension + 1, 1}} {
		if err := w.Allocate(size[0], size[1]); !errors.Is(err, surface.ErrAllocationFailure) {
			t.Errorf("Allocate(%v) = %v", size, err)
		}
	}
	if err := w.Allocate(3, 2); err != nil {
		t.Fatal(err)
	}
	if width, height := w.Size(); width != 3 || height != 2 {
		t.Errorf("Size = %dx%d", width, height)
	}
}

func TestPixbufBeforeAllocate(t *testing.T) {
	if _, err := NewWindow(true).Pixbuf(); !errors.Is(err, pixbuf.ErrInvalidGeometry) {
		t.Errorf("err = %v", err)
	}
}

func TestWindowCapture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(2, 1, color.RGBA{0, 128, 0, 255})

	for _, alpha := range []bool{false, true} {
		w := NewWindow(alpha)
		if err := w.Allocate(5, 3); err != nil {
			t.Fatal(err)
		}
		w.SetContent(img)
		pb, err := w.Pixbuf()
		if err != nil {
			t.Fatal(err)
		}
		if pb.Width != 5 || pb.Height != 3 || pb.HasAlpha() != alpha {
			t.Fatalf("pixbuf %dx%d alpha=%v", pb.Width, pb.Height, pb.HasAlpha())
		}
		if got := pb.At(2, 1); got != (color.NRGBA{0, 128, 0, 255}) {
			t.Errorf("alpha=%v: pixel = %v", alpha, got)
		}
		if got := pb.At(0, 0); got != (color.NRGBA{255, 255, 255, 255}) {
			t.Errorf("alpha=%v: pixel = %v", alpha, got)
		}
	}
}

func TestCrop(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(1, 1, color.NRGBA{1, 2, 3, 255})
	out := crop(src, 2, 2)
	if b := out.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds %v", b)
	}
	if got := color.NRGBAModel.Convert(out.At(1, 1)); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("pixel = %v", got)
	}
}
