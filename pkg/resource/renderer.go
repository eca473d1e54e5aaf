package resource

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"webshot/pkg/html"
	"webshot/pkg/images"
	"webshot/pkg/js"
	"webshot/pkg/layout"
	"webshot/pkg/render"
	"webshot/pkg/text"
	stdnet "webshot/std/net"
)

// Renderer loads pages and turns them into laid out, paintable documents.
type Renderer struct {
	fonts   *text.Fonts
	scripts bool

	// NewFetcher builds the fetcher for a page at baseURL. Nil uses
	// a DefaultFetcher.
	NewFetcher func(baseURL string) Fetcher
}

// NewRenderer creates a Renderer. scripts enables inline JavaScript.
func NewRenderer(fonts text.FontConfig, scripts bool) *Renderer {
	return &Renderer{fonts: text.NewFonts(fonts), scripts: scripts}
}

func (r *Renderer) fetcher(baseURL string) Fetcher {
	if r.NewFetcher != nil {
		return r.NewFetcher(baseURL)
	}
	return NewFetcher(baseURL)
}

// Load fetches the page at uri and prepares it for layout.
func (r *Renderer) Load(ctx context.Context, uri string) (*Page, error) {
	uri, err := stdnet.NormalizeURI(uri)
	if err != nil {
		return nil, err
	}
	f := r.fetcher(uri)
	body, _, err := f.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", uri, err)
	}
	return r.parse(ctx, string(body), f)
}

// LoadString prepares an HTML string whose relative references resolve
// against baseURL.
func (r *Renderer) LoadString(ctx context.Context, src, baseURL string) (*Page, error) {
	return r.parse(ctx, src, r.fetcher(baseURL))
}

func (r *Renderer) parse(ctx context.Context, src string, f Fetcher) (*Page, error) {
	cssFetcher := func(uri string) (string, error) {
		return FetchCSS(ctx, f, uri)
	}
	doc, err := html.ParseWithFetcher(src, cssFetcher)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.scripts && len(doc.Scripts) > 0 {
		if err := js.New().Execute(ctx, doc); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("running scripts: %w", err)
			}
			slog.Warn("resource: script error", "err", err)
		}
	}

	loader := images.NewLoader(func(uri string) ([]byte, error) {
		return FetchImage(ctx, f, uri)
	})
	return &Page{
		Doc:    doc,
		fonts:  r.fonts,
		engine: layout.NewLayoutEngine(0, 0, r.fonts, loader),
	}, nil
}

// Page is a parsed document ready to be laid out and painted.
type Page struct {
	Doc *html.Document

	fonts  *text.Fonts
	engine *layout.LayoutEngine
	boxes  []*layout.Box
}

// Title returns the document title.
func (p *Page) Title() string {
	return p.Doc.Title
}

// IntrinsicWidth returns the width the page's content asks for.
func (p *Page) IntrinsicWidth() float64 {
	return p.engine.IntrinsicWidth(p.Doc)
}

// Layout lays the page out at the given viewport and returns the content
// size. A zero width lays out at the intrinsic width.
func (p *Page) Layout(width, height float64) (contentWidth, contentHeight float64) {
	if width <= 0 {
		width = p.IntrinsicWidth()
	}
	p.engine.SetViewport(width, height)
	p.boxes = p.engine.Layout(p.Doc)
	return layout.ContentSize(p.boxes)
}

// Boxes returns the boxes from the last Layout call.
func (p *Page) Boxes() []*layout.Box {
	return p.boxes
}

// Paint draws the laid out page onto a new width x height canvas.
func (p *Page) Paint(width, height int, transparent bool) *image.RGBA {
	if p.boxes == nil {
		p.Layout(float64(width), float64(height))
	}
	r := render.NewRenderer(width, height, p.fonts)
	r.Transparent = transparent
	r.Render(p.boxes)
	return r.Image()
}
