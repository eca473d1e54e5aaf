package layout

import (
	"image"
	"log/slog"

	"webshot/pkg/css"
	"webshot/pkg/html"
	"webshot/pkg/images"
	"webshot/pkg/text"
)

// MaxIntrinsicWidth caps the width chosen for pages laid out at their
// content size.
const MaxIntrinsicWidth = 1280

// LayoutEngine lays out a document into boxes for a given viewport width.
type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	stylesheets []*css.Stylesheet
	fonts       *text.Fonts
	images      *images.Loader
}

// NewLayoutEngine creates an engine. A nil fonts uses the bundled faces;
// a nil loader leaves images unloaded.
func NewLayoutEngine(viewportWidth, viewportHeight float64, fonts *text.Fonts, loader *images.Loader) *LayoutEngine {
	if fonts == nil {
		fonts = text.NewFonts(text.FontConfig{})
	}
	le := &LayoutEngine{fonts: fonts, images: loader}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// SetViewport changes the viewport used by the next Layout call.
func (le *LayoutEngine) SetViewport(width, height float64) {
	le.viewport.width = width
	le.viewport.height = height
}

// Viewport returns the current viewport size.
func (le *LayoutEngine) Viewport() (width, height float64) {
	return le.viewport.width, le.viewport.height
}

// Fonts returns the font set used for measurement.
func (le *LayoutEngine) Fonts() *text.Fonts {
	return le.fonts
}

func (le *LayoutEngine) loadStylesheets(doc *html.Document) {
	le.stylesheets = make([]*css.Stylesheet, 0, len(doc.Stylesheets))
	for _, src := range doc.Stylesheets {
		le.stylesheets = append(le.stylesheets, css.ParseStylesheet(src))
	}
}

func (le *LayoutEngine) loadImage(node *html.Node) image.Image {
	src, _ := node.GetAttribute("src")
	if src == "" || le.images == nil {
		return nil
	}
	img, err := le.images.Load(src)
	if err != nil {
		slog.Warn("layout: image not loaded", "src", src, "err", err)
		return nil
	}
	return img
}

// imageSize resolves the used size of a replaced element: explicit CSS
// size, then width/height attributes, then the natural size, keeping the
// aspect ratio when only one dimension is given.
func (le *LayoutEngine) imageSize(node *html.Node, style *css.Style, img image.Image) (w, h float64) {
	w, hasW := style.GetSize("width")
	h, hasH := style.GetSize("height")
	if !hasW {
		w, hasW = attrLength(node, "width")
	}
	if !hasH {
		h, hasH = attrLength(node, "height")
	}
	var nw, nh float64
	if img != nil {
		b := img.Bounds()
		nw, nh = float64(b.Dx()), float64(b.Dy())
	}
	switch {
	case hasW && hasH:
	case hasW && nw > 0:
		h = w * nh / nw
	case hasH && nh > 0:
		w = h * nw / nh
	case !hasW && !hasH:
		w, h = nw, nh
	}
	return w, h
}

func attrLength(node *html.Node, name string) (float64, bool) {
	v, ok := node.GetAttribute(name)
	if !ok {
		return 0, false
	}
	return css.ParseLength(v, css.DefaultFontSize)
}

func isBold(style *css.Style) bool {
	return style.GetFontWeight() == css.FontWeightBold
}
