package pixbuf

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestRowstrideFor(t *testing.T) {
	tests := []struct{ w, ch, want int }{
		{1, 3, 4},
		{2, 3, 8},
		{4, 3, 12},
		{5, 3, 16},
		{1, 4, 4},
		{3, 4, 12},
	}
	for _, tt := range tests {
		if got := RowstrideFor(tt.w, tt.ch); got != tt.want {
			t.Errorf("RowstrideFor(%d, %d) = %d, want %d", tt.w, tt.ch, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	pb, err := New(5, 2, false)
	if err != nil {
		t.Fatal(err)
	}
	if pb.NChannels != 3 || pb.HasAlpha() {
		t.Errorf("expected 3 channels, got %d", pb.NChannels)
	}
	if pb.Rowstride != 16 || len(pb.Pixels) != 32 {
		t.Errorf("rowstride %d, len %d", pb.Rowstride, len(pb.Pixels))
	}
	if len(pb.Row(1)) != 15 {
		t.Errorf("row length %d, want 15", len(pb.Row(1)))
	}

	if _, err := New(0, 3, true); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestSetAt(t *testing.T) {
	c := color.NRGBA{10, 20, 30, 40}

	rgba, _ := New(3, 3, true)
	rgba.Set(2, 1, c)
	if got := rgba.At(2, 1); got != c {
		t.Errorf("4-channel At = %v, want %v", got, c)
	}

	rgb, _ := New(3, 3, false)
	rgb.Set(2, 1, c)
	if got := rgb.At(2, 1); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("3-channel At = %v, want opaque", got)
	}
	if rgb.At(0, 0) != (color.NRGBA{0, 0, 0, 255}) {
		t.Error("untouched pixel should be opaque black")
	}
}

func TestFromImageNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{200, 100, 50, 128})
	pb, err := FromImage(img, true)
	if err != nil {
		t.Fatal(err)
	}
	if pb.Width != 3 || pb.Height != 2 {
		t.Fatalf("size %dx%d", pb.Width, pb.Height)
	}
	if got := pb.At(1, 1); got != (color.NRGBA{200, 100, 50, 128}) {
		t.Errorf("At(1,1) = %v", got)
	}
}

func TestFromImageUnpremultiplies(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 128, 128})
	pb, err := FromImage(img, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := pb.At(0, 0); got.B != 255 || got.A != 128 {
		t.Errorf("At = %v, want blue 255 at alpha 128", got)
	}
}

func TestFromImageWithoutAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 2, 4, 4))
	img.SetNRGBA(3, 3, color.NRGBA{1, 2, 3, 255})
	pb, err := FromImage(img, false)
	if err != nil {
		t.Fatal(err)
	}
	if pb.NChannels != 3 {
		t.Fatalf("expected 3 channels, got %d", pb.NChannels)
	}
	if got := pb.At(1, 1); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("At(1,1) = %v", got)
	}
}
