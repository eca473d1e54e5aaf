package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"testing"
)

// createTestPNGDataURI creates a small 2x2 red PNG as a data URI.
func createTestPNGDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestLoadDataURI(t *testing.T) {
	l := NewLoader(nil)
	uri := createTestPNGDataURI(t)
	img, err := l.Load(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", b.Dx(), b.Dy())
	}

	// Second call should hit cache
	img2, err := l.Load(uri)
	if err != nil {
		t.Fatalf("unexpected error on cached load: %v", err)
	}
	if img2 != img {
		t.Error("expected cached image")
	}
}

func TestLoadDataURIInvalid(t *testing.T) {
	l := NewLoader(nil)
	tests := []string{
		"not-a-data-uri",
		"data:image/png;base64", // no comma
		"data:image/png;base64,!!!invalid-base64!!!",
		"data:image/png;base64,aGVsbG8=", // valid base64 but not an image
	}
	for _, uri := range tests {
		if _, err := l.Load(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestLoadUsesFetcher(t *testing.T) {
	var calls int
	png64 := createTestPNGDataURI(t)
	data, _, err := DecodeDataURI(png64)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(func(uri string) ([]byte, error) {
		calls++
		if uri == "missing.png" {
			return nil, errors.New("not found")
		}
		return data, nil
	})
	if _, err := l.Load("a.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load("a.png"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 fetch, got %d", calls)
	}
	if _, err := l.Load("missing.png"); err == nil {
		t.Error("expected fetch error")
	}
}

func TestDecodeSVG(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10">
		<rect x="0" y="0" width="20" height="10" fill="#00ff00"/></svg>`
	l := NewLoader(nil)
	img, err := l.Load("data:image/svg+xml," + url.PathEscape(svg))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("expected 20x10, got %v", b)
	}
	r, g, b, a := img.At(10, 5).RGBA()
	if g>>8 < 250 || r>>8 > 5 || b>>8 > 5 || a>>8 < 250 {
		t.Errorf("expected green centre, got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestDecodeDataURIText(t *testing.T) {
	data, mediaType, err := DecodeDataURI("data:text/plain,hello%20world")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello world" || mediaType != "text/plain" {
		t.Errorf("got %q (%s)", data, mediaType)
	}
}
