package layout

import (
	"math"

	"webshot/pkg/css"
	"webshot/pkg/html"
)

// MinMaxSizes are the min-content and max-content widths of a subtree's
// margin box.
type MinMaxSizes struct {
	Min float64
	Max float64
}

// IntrinsicWidth returns the width the page asks for: its max-content
// width, rounded up and clamped to [1, MaxIntrinsicWidth].
func (le *LayoutEngine) IntrinsicWidth(doc *html.Document) float64 {
	le.loadStylesheets(doc)
	sizes := le.computeChildrenMinMax(doc.Root, css.NewStyle())
	w := math.Ceil(sizes.Max)
	return min(max(w, 1), MaxIntrinsicWidth)
}

// ComputeMinMaxSizes returns the intrinsic widths of a block-level element.
func (le *LayoutEngine) ComputeMinMaxSizes(node *html.Node, style *css.Style) MinMaxSizes {
	edges := style.GetMargin().Horizontal() + style.GetPadding().Horizontal() + style.GetBorderWidth().Horizontal()

	if node.TagName == "img" {
		w, _ := le.imageSize(node, style, le.loadImage(node))
		return MinMaxSizes{w + edges, w + edges}
	}
	if w, ok := style.GetSize("width"); ok {
		return MinMaxSizes{w + edges, w + edges}
	}
	sizes := le.computeChildrenMinMax(node, style)
	return MinMaxSizes{sizes.Min + edges, sizes.Max + edges}
}

func (le *LayoutEngine) computeChildrenMinMax(node *html.Node, style *css.Style) MinMaxSizes {
	var result MinMaxSizes
	var run []inlineEntry
	flush := func() {
		if len(run) == 0 {
			return
		}
		s := le.computeInlineMinMax(run)
		result.Min = max(result.Min, s.Min)
		result.Max = max(result.Max, s.Max)
		run = nil
	}

	for _, child := range node.Children {
		if child.Type == html.TextNode {
			run = append(run, inlineEntry{child, style})
			continue
		}
		cs := css.ComputeStyle(child, le.stylesheets, style)
		switch cs.GetDisplay() {
		case css.DisplayNone:
			continue
		case css.DisplayInline:
			run = append(run, inlineEntry{child, cs})
			continue
		}
		flush()
		s := le.ComputeMinMaxSizes(child, cs)
		result.Min = max(result.Min, s.Min)
		result.Max = max(result.Max, s.Max)
	}
	flush()
	return result
}

// computeInlineMinMax measures an inline run: the widest unbreakable token
// and the widest line between forced breaks.
func (le *LayoutEngine) computeInlineMinMax(run []inlineEntry) MinMaxSizes {
	var result MinMaxSizes
	line := 0.0
	trailing := 0.0
	for _, t := range le.tokenize(run) {
		switch t.kind {
		case tokBreak:
			result.Max = max(result.Max, line-trailing)
			line, trailing = 0, 0
		case tokSpace:
			if line > 0 {
				line += t.width
				trailing = t.width
			}
		default:
			result.Min = max(result.Min, t.width)
			line += t.width
			trailing = 0
		}
	}
	result.Max = max(result.Max, line-trailing)
	return result
}
