package layout

import (
	"webshot/pkg/css"
	"webshot/pkg/html"
)

// Layout lays out the document at the current viewport width and returns
// the top-level boxes, normally just the <html> box.
func (le *LayoutEngine) Layout(doc *html.Document) []*Box {
	le.loadStylesheets(doc)

	root := &Box{Node: doc.Root, Style: css.NewStyle(), Width: le.viewport.width}
	root.Height = le.layoutChildren(root, doc.Root)
	for _, child := range root.Children {
		child.Parent = nil
	}
	return root.Children
}

// ContentSize returns the extent of the laid out page: the right and
// bottom edges of the outermost margin boxes.
func ContentSize(boxes []*Box) (width, height float64) {
	for _, b := range boxes {
		mb := b.MarginBox()
		width = max(width, mb.Right())
		height = max(height, mb.Bottom())
	}
	return width, height
}

// inlineEntry is a node taking part in an inline run, with the style its
// text is set in.
type inlineEntry struct {
	node  *html.Node
	style *css.Style
}

// layoutChildren stacks block children vertically and flows runs of inline
// children into line boxes. It returns the content height.
func (le *LayoutEngine) layoutChildren(box *Box, node *html.Node) float64 {
	content := box.ContentBox()
	cursor := content.Y
	prevMargin := 0.0
	var run []inlineEntry

	flush := func() {
		if len(run) == 0 {
			return
		}
		lines, h := le.layoutInline(run, box.Style, content.X, cursor, box.Width)
		if len(lines) > 0 {
			box.LineBoxes = append(box.LineBoxes, lines...)
			cursor += h
			prevMargin = 0
		}
		run = nil
	}

	for _, child := range node.Children {
		if child.Type == html.TextNode {
			run = append(run, inlineEntry{child, box.Style})
			continue
		}
		style := css.ComputeStyle(child, le.stylesheets, box.Style)
		switch style.GetDisplay() {
		case css.DisplayNone:
			continue
		case css.DisplayInline:
			run = append(run, inlineEntry{child, style})
			continue
		}

		flush()
		cb := le.layoutBlock(child, style, content.X, cursor, box.Width, prevMargin)
		cb.Parent = box
		box.Children = append(box.Children, cb)
		cursor = cb.BorderBox().Bottom()
		prevMargin = cb.Margin.Bottom
	}
	flush()

	return cursor + prevMargin - content.Y
}

// layoutBlock lays out a block-level element whose margin box starts at
// (x, y). Vertical margins collapse with prevMargin, the bottom margin of
// the preceding sibling.
func (le *LayoutEngine) layoutBlock(node *html.Node, style *css.Style, x, y, availableWidth, prevMargin float64) *Box {
	box := &Box{
		Node:    node,
		Style:   style,
		Margin:  style.GetMargin(),
		Padding: style.GetPadding(),
		Border:  style.GetBorderWidth(),
	}

	width, explicitWidth := style.GetSize("width")
	if node.TagName == "img" {
		box.Image = le.loadImage(node)
		width, box.Height = le.imageSize(node, style, box.Image)
		explicitWidth = true
	}
	edges := box.Border.Horizontal() + box.Padding.Horizontal()
	if explicitWidth {
		box.Width = width
		if isAuto(style, "margin-left") && isAuto(style, "margin-right") {
			free := max(0, availableWidth-width-edges)
			box.Margin.Left, box.Margin.Right = free/2, free/2
		}
	} else {
		box.Width = max(0, availableWidth-box.Margin.Horizontal()-edges)
	}

	box.X = x + box.Margin.Left
	box.Y = y + max(prevMargin, box.Margin.Top)
	if box.Image != nil || node.TagName == "img" {
		return box
	}

	contentHeight := le.layoutChildren(box, node)
	if h, ok := style.GetSize("height"); ok {
		box.Height = h
	} else {
		box.Height = contentHeight
	}
	return box
}

func isAuto(style *css.Style, property string) bool {
	v, _ := style.Get(property)
	return v == "auto"
}
