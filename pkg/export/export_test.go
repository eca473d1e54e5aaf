package export

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/gofrs/flock"

	"webshot/pkg/pixbuf"
	"webshot/pkg/surface"
)

func testSurface(t *testing.T) *surface.Surface {
	t.Helper()
	pb, err := pixbuf.New(3, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	pb.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	pb.Set(2, 1, color.NRGBA{0, 0, 255, 128})
	s, err := surface.Convert(pb)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(context.Background(), path, testSurface(t)); err != nil {
		t.Fatal(err)
	}

	img, err := gg.LoadPNG(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds %v", b)
	}
	if got := color.NRGBAModel.Convert(img.At(0, 0)); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel = %v", got)
	}
	_, _, _, a := img.At(2, 1).RGBA()
	if a>>8 != 128 {
		t.Errorf("alpha = %d, want 128", a>>8)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != DefaultMode {
		t.Errorf("mode = %v, want %v", mode, DefaultMode)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if e.Name() != "out.png" && e.Name() != "out.png.lock" {
			t.Errorf("left-over file %s", e.Name())
		}
	}
}

func TestSavePNGReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := SavePNG(context.Background(), path, testSurface(t)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := SavePNG(context.Background(), path, testSurface(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := gg.LoadPNG(path); err != nil {
		t.Errorf("replaced file is not a PNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0o640 {
		t.Errorf("mode = %v, want existing 0640 kept", mode)
	}
}

func TestSavePNGLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	held := flock.New(path + ".lock")
	if err := held.Lock(); err != nil {
		t.Fatal(err)
	}
	defer held.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SavePNG(ctx, path, testSurface(t)); err == nil {
		t.Fatal("expected error while locked")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output written despite lock: %v", err)
	}
}

func TestSavePNGBadDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	if err := SavePNG(context.Background(), path, testSurface(t)); err == nil {
		t.Error("expected error for missing directory")
	}
}
