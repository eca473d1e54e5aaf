package css

import (
	"sort"
	"strconv"

	"webshot/pkg/html"
)

// inherited lists the properties a child takes from its parent when it
// does not set them itself.
var inherited = []string{"color", "font-size", "font-weight", "line-height", "text-align", "font-family"}

// userAgentStyles are the default styles for elements, applied before
// author rules.
var userAgentStyles = map[string]string{
	"body":       "margin: 8px",
	"h1":         "font-size: 2em; font-weight: bold; margin: 0.67em 0",
	"h2":         "font-size: 1.5em; font-weight: bold; margin: 0.83em 0",
	"h3":         "font-size: 1.17em; font-weight: bold; margin: 1em 0",
	"h4":         "font-weight: bold; margin: 1.33em 0",
	"h5":         "font-size: 0.83em; font-weight: bold; margin: 1.67em 0",
	"h6":         "font-size: 0.67em; font-weight: bold; margin: 2.33em 0",
	"p":          "margin: 1em 0",
	"ul":         "margin: 1em 0; padding-left: 40px",
	"ol":         "margin: 1em 0; padding-left: 40px",
	"blockquote": "margin: 1em 40px",
	"pre":        "margin: 1em 0",
	"hr":         "margin: 8px 0; border: 1px inset gray",
	"b":          "display: inline; font-weight: bold",
	"strong":     "display: inline; font-weight: bold",
	"a":          "display: inline; color: #0645ad",
	"span":       "display: inline",
	"em":         "display: inline",
	"i":          "display: inline",
	"code":       "display: inline",
	"small":      "display: inline; font-size: 0.83em",
	"img":        "display: inline",
	"br":         "display: inline",
	"label":      "display: inline",
}

var uaParsed = func() map[string]*Style {
	m := make(map[string]*Style, len(userAgentStyles))
	for tag, decls := range userAgentStyles {
		m[tag] = ParseInlineStyle(decls)
	}
	return m
}()

// ComputeStyle computes the final style for a node: inherited values from
// parent, then user agent defaults, then matching rules by specificity and
// source order, then the style attribute. Font sizes in em are resolved
// against the parent so descendants see px.
func ComputeStyle(node *html.Node, stylesheets []*Stylesheet, parent *Style) *Style {
	style := NewStyle()
	parentSize := DefaultFontSize
	if parent != nil {
		parentSize = parent.GetFontSize()
		for _, p := range inherited {
			if v, ok := parent.Get(p); ok {
				style.Set(p, v)
			}
		}
	}
	if node.Type != html.ElementNode {
		return style
	}

	apply := func(src *Style) {
		for property, value := range src.Properties {
			if property == "font-size" {
				if px, ok := ParseLength(value, parentSize); ok {
					value = strconv.FormatFloat(px, 'f', -1, 64) + "px"
				}
			}
			style.Set(property, value)
		}
	}

	if ua, ok := uaParsed[node.TagName]; ok {
		apply(ua)
	}

	type match struct {
		rule  Rule
		sheet int
	}
	var matches []match
	for i, sheet := range stylesheets {
		for _, rule := range sheet.Rules {
			if rule.Selector.Matches(node) {
				matches = append(matches, match{rule, i})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.rule.Selector.Specificity != b.rule.Selector.Specificity {
			return a.rule.Selector.Specificity < b.rule.Selector.Specificity
		}
		if a.sheet != b.sheet {
			return a.sheet < b.sheet
		}
		return a.rule.order < b.rule.order
	})
	for _, m := range matches {
		apply(m.rule.Declarations)
	}

	if styleAttr, ok := node.GetAttribute("style"); ok {
		apply(ParseInlineStyle(styleAttr))
	}
	return style
}
