package main

import (
	"context"
	"image/color"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"

	"webshot/pkg/config"
)

func TestRunWritesPNG(t *testing.T) {
	src := `<html><body style="margin:0;background:#00ff00"><div style="width:12px;height:6px"></div></body></html>`
	cmd := &config.Command{
		Config: config.Default(),
		URL:    "data:text/html," + url.PathEscape(src),
	}
	cmd.Output = filepath.Join(t.TempDir(), "shot.png")

	if err := run(context.Background(), cmd); err != nil {
		t.Fatal(err)
	}
	img, err := gg.LoadPNG(cmd.Output)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 6 {
		t.Errorf("size = %v, want 12x6", b)
	}
	if got := color.NRGBAModel.Convert(img.At(3, 3)); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestRunFailure(t *testing.T) {
	cmd := &config.Command{
		Config: config.Default(),
		URL:    filepath.Join(t.TempDir(), "missing.html"),
	}
	cmd.Output = filepath.Join(t.TempDir(), "shot.png")
	if err := run(context.Background(), cmd); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(cmd.Output); err == nil {
		t.Error("output written for failed capture")
	}
}

func TestLocalPath(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")

	got, err := localPath(page)
	if err != nil {
		t.Fatal(err)
	}
	if got != page {
		t.Errorf("localPath = %q, want %q", got, page)
	}

	for _, arg := range []string{"http://example.com/", "data:text/html,x"} {
		if _, err := localPath(arg); err == nil {
			t.Errorf("expected error for %s", arg)
		}
	}
}
