package resource

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"webshot/pkg/text"
	stdnet "webshot/std/net"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFetchLocalAndData(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "style.css", "p { color: red }")
	base, err := stdnet.NormalizeURI(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(base)
	ctx := context.Background()

	for _, uri := range []string{"style.css", path, base[:len(base)-len("index.html")] + "style.css"} {
		body, ct, err := f.Fetch(ctx, uri)
		if err != nil {
			t.Fatalf("Fetch(%q): %v", uri, err)
		}
		if string(body) != "p { color: red }" {
			t.Errorf("Fetch(%q) = %q", uri, body)
		}
		if ct != "" && ct != "text/css; charset=utf-8" {
			t.Errorf("content type %q", ct)
		}
	}

	body, ct, err := f.Fetch(ctx, "data:text/plain,hi%21")
	if err != nil || string(body) != "hi!" || ct != "text/plain" {
		t.Errorf("data fetch = %q, %q, %v", body, ct, err)
	}

	if _, _, err := f.Fetch(ctx, "missing.css"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFetchCSSRejectsNonText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	if _, err := FetchCSS(context.Background(), NewFetcher(""), srv.URL+"/a.css"); err == nil {
		t.Error("expected content type error")
	}
}

func TestLoadResolvesSubresources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "style.css", "body { background: #ff0000; margin: 0 } #box { height: 10px }")
	page := writeFile(t, dir, "index.html", `<html><head><title>T</title><link rel="stylesheet" href="style.css"></head>
		<body><div id="box"></div></body></html>`)

	r := NewRenderer(text.FontConfig{}, false)
	p, err := r.Load(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}
	if p.Title() != "T" {
		t.Errorf("title = %q", p.Title())
	}
	w, h := p.Layout(50, 0)
	if w != 50 || h != 10 {
		t.Errorf("content size %vx%v, want 50x10", w, h)
	}
	img := p.Paint(50, 20, false)
	if got := img.RGBAAt(25, 15); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel = %v, want red canvas from stylesheet", got)
	}
}

func TestLoadOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<link rel="stylesheet" href="/s.css"><p id="p">hello</p>`))
	})
	mux.HandleFunc("/s.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		w.Write([]byte("p { display: none }"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p, err := NewRenderer(text.FontConfig{}, false).Load(context.Background(), srv.URL+"/page.html")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Doc.Stylesheets) != 1 {
		t.Fatalf("stylesheets = %d", len(p.Doc.Stylesheets))
	}
	if _, h := p.Layout(100, 0); h != 16 {
		t.Errorf("height = %v, want 16 (body margins only)", h)
	}
}

func TestScriptsToggle(t *testing.T) {
	src := `<p id="p">before</p><script>document.getElementById("p").textContent = "after";</script>`
	ctx := context.Background()

	off, err := NewRenderer(text.FontConfig{}, false).LoadString(ctx, src, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := off.Doc.Root.ElementByID("p").TextContent(); got != "before" {
		t.Errorf("scripts disabled: %q", got)
	}

	on, err := NewRenderer(text.FontConfig{}, true).LoadString(ctx, src, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := on.Doc.Root.ElementByID("p").TextContent(); got != "after" {
		t.Errorf("scripts enabled: %q", got)
	}
}

func TestScriptErrorKeepsRendering(t *testing.T) {
	src := `<p id="p">x</p><script>nosuchfunction()</script>`
	p, err := NewRenderer(text.FontConfig{}, true).LoadString(context.Background(), src, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, h := p.Layout(100, 0); h <= 0 {
		t.Error("expected page to lay out after a script error")
	}
}

func TestIntrinsicLayout(t *testing.T) {
	p, err := NewRenderer(text.FontConfig{}, false).LoadString(context.Background(),
		`<body style="margin:0"><div style="width:123px; height:45px"></div></body>`, "")
	if err != nil {
		t.Fatal(err)
	}
	if w, h := p.Layout(0, 0); w != 123 || h != 45 {
		t.Errorf("intrinsic size %vx%v, want 123x45", w, h)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRenderer(text.FontConfig{}, false).LoadString(ctx, "<p>x</p>", ""); err == nil {
		t.Error("expected context error")
	}
}
