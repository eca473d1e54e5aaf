package layout

import (
	"image"
	"strings"
	"unicode"

	"webshot/pkg/css"
	"webshot/pkg/html"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokSpace
	tokImage
	tokBreak
)

// token is the unit of line breaking: a word, a collapsed space, an inline
// image or a forced break.
type token struct {
	kind   tokenKind
	text   string
	style  *css.Style
	image  image.Image
	width  float64
	height float64
}

// tokenize flattens an inline run into measured tokens, collapsing white
// space across element boundaries.
func (le *LayoutEngine) tokenize(run []inlineEntry) []*token {
	var toks []*token
	addSpace := func(style *css.Style) {
		if len(toks) == 0 {
			return
		}
		if last := toks[len(toks)-1]; last.kind == tokSpace || last.kind == tokBreak {
			return
		}
		w, _ := le.fonts.MeasureText(" ", style.GetFontSize(), isBold(style))
		toks = append(toks, &token{kind: tokSpace, text: " ", style: style, width: w})
	}

	var walk func(n *html.Node, style *css.Style)
	walk = func(n *html.Node, style *css.Style) {
		if n.Type == html.TextNode {
			s := n.Text
			for s != "" {
				i := strings.IndexFunc(s, unicode.IsSpace)
				if i == 0 {
					addSpace(style)
					s = strings.TrimLeftFunc(s, unicode.IsSpace)
					continue
				}
				if i < 0 {
					i = len(s)
				}
				word := s[:i]
				w, _ := le.fonts.MeasureText(word, style.GetFontSize(), isBold(style))
				toks = append(toks, &token{kind: tokWord, text: word, style: style, width: w})
				s = s[i:]
			}
			return
		}

		switch n.TagName {
		case "br":
			toks = append(toks, &token{kind: tokBreak, style: style})
			return
		case "img":
			img := le.loadImage(n)
			w, h := le.imageSize(n, style, img)
			toks = append(toks, &token{kind: tokImage, style: style, image: img, width: w, height: h})
			return
		}
		for _, c := range n.Children {
			if c.Type == html.TextNode {
				walk(c, style)
				continue
			}
			cs := css.ComputeStyle(c, le.stylesheets, style)
			if cs.GetDisplay() != css.DisplayNone {
				walk(c, cs)
			}
		}
	}

	for _, e := range run {
		walk(e.node, e.style)
	}
	return toks
}

// layoutInline breaks an inline run into line boxes starting at (x, y)
// within availableWidth. It returns the lines and their total height.
func (le *LayoutEngine) layoutInline(run []inlineEntry, blockStyle *css.Style, x, y, availableWidth float64) ([]*LineBox, float64) {
	toks := le.tokenize(run)

	var lines [][]*token
	var cur []*token
	lineWidth := 0.0
	emit := func(force bool) {
		for len(cur) > 0 && cur[len(cur)-1].kind == tokSpace {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 || force {
			lines = append(lines, cur)
		}
		cur, lineWidth = nil, 0
	}
	for _, t := range toks {
		switch t.kind {
		case tokBreak:
			if len(cur) == 0 {
				cur = append(cur, t)
			}
			emit(true)
			continue
		case tokSpace:
			if len(cur) == 0 {
				continue
			}
		default:
			if lineWidth+t.width > availableWidth && hasContent(cur) {
				emit(false)
			}
		}
		cur = append(cur, t)
		lineWidth += t.width
	}
	emit(false)

	var boxes []*LineBox
	top := y
	for _, l := range lines {
		lb := le.placeLine(l, blockStyle, x, top, availableWidth)
		boxes = append(boxes, lb)
		top += lb.Height
	}
	return boxes, top - y
}

func hasContent(toks []*token) bool {
	for _, t := range toks {
		if t.kind == tokWord || t.kind == tokImage {
			return true
		}
	}
	return false
}

// metrics returns the space a token needs above and below the baseline.
func (le *LayoutEngine) metrics(t *token) (above, below float64) {
	if t.kind == tokImage {
		return t.height, 0
	}
	size := t.style.GetFontSize()
	m := le.fonts.Face(size, isBold(t.style)).Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	lh := t.style.GetLineHeight()
	halfLeading := (lh - ascent - descent) / 2
	above = halfLeading + ascent
	return above, lh - above
}

// placeLine positions the tokens of one line and merges neighbouring text
// in the same style into single fragments.
func (le *LayoutEngine) placeLine(toks []*token, blockStyle *css.Style, x, y, availableWidth float64) *LineBox {
	var above, below, width float64
	for _, t := range toks {
		a, b := le.metrics(t)
		above = max(above, a)
		below = max(below, b)
		if t.kind != tokBreak {
			width += t.width
		}
	}

	lb := &LineBox{Y: y, Height: above + below, Baseline: y + above}

	switch blockStyle.GetTextAlign() {
	case css.TextAlignCenter:
		x += max(0, availableWidth-width) / 2
	case css.TextAlignRight:
		x += max(0, availableWidth-width)
	}

	var last *Fragment
	for _, t := range toks {
		switch t.kind {
		case tokBreak:
			continue
		case tokImage:
			lb.Fragments = append(lb.Fragments, &Fragment{
				Image: t.image, Style: t.style,
				X: x, Y: lb.Baseline - t.height, Width: t.width, Height: t.height,
			})
			last = nil
		default:
			if last != nil && last.Style == t.style {
				last.Text += t.text
				last.Width += t.width
			} else {
				a, b := le.metrics(t)
				last = &Fragment{
					Text: t.text, Style: t.style,
					X: x, Y: lb.Baseline - a, Width: t.width, Height: a + b,
				}
				lb.Fragments = append(lb.Fragments, last)
			}
		}
		x += t.width
	}
	return lb
}
