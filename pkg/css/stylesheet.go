package css

import (
	"regexp"
	"strings"

	"webshot/pkg/html"
)

// Selector is a descendant chain of compound selectors, e.g. "div.note p".
// Attribute, pseudo-class and child/sibling combinators are not supported;
// rules using them are dropped.
type Selector struct {
	Raw         string
	Parts       []SelectorPart // outermost ancestor first
	Specificity int
}

// SelectorPart is one compound selector: tag, #id and .classes.
type SelectorPart struct {
	Tag     string // "" or "*" matches any element
	ID      string
	Classes []string
}

// Rule represents a CSS rule (selector + declarations)
type Rule struct {
	Selector     Selector
	Declarations *Style
	order        int
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

var commentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)

// ParseStylesheet parses CSS text. Malformed rules and at-rules are
// skipped rather than reported.
func ParseStylesheet(src string) *Stylesheet {
	sheet := &Stylesheet{Rules: make([]Rule, 0)}
	src = commentRE.ReplaceAllString(src, "")

	for _, block := range splitRules(src) {
		head, body, ok := strings.Cut(block, "{")
		if !ok {
			continue
		}
		head = strings.TrimSpace(head)
		if head == "" || strings.HasPrefix(head, "@") {
			continue
		}
		decls := ParseInlineStyle(strings.TrimSuffix(strings.TrimSpace(body), "}"))
		for _, raw := range strings.Split(head, ",") {
			sel, ok := ParseSelector(raw)
			if !ok {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Declarations: decls, order: len(sheet.Rules)})
		}
	}
	return sheet
}

// splitRules splits CSS into top-level "selector { ... }" blocks, keeping
// nested at-rule blocks together so they can be skipped whole.
func splitRules(src string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0
	for i, ch := range src {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if r := strings.TrimSpace(src[start : i+1]); r != "" {
					rules = append(rules, r)
				}
				start = i + 1
			}
			if depth < 0 {
				depth = 0
				start = i + 1
			}
		}
	}
	return rules
}

// ParseSelector parses a descendant selector made of compound parts.
func ParseSelector(raw string) (Selector, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, "[]:>+~") {
		return Selector{}, false
	}
	sel := Selector{Raw: raw}
	for _, field := range strings.Fields(raw) {
		part, ok := parseCompound(field)
		if !ok {
			return Selector{}, false
		}
		sel.Parts = append(sel.Parts, part)
		if part.ID != "" {
			sel.Specificity += 100
		}
		sel.Specificity += 10 * len(part.Classes)
		if part.Tag != "" && part.Tag != "*" {
			sel.Specificity++
		}
	}
	return sel, true
}

func parseCompound(s string) (SelectorPart, bool) {
	var part SelectorPart
	i := strings.IndexAny(s, ".#")
	if i < 0 {
		part.Tag = strings.ToLower(s)
		return part, true
	}
	part.Tag = strings.ToLower(s[:i])
	s = s[i:]
	for s != "" {
		kind := s[0]
		s = s[1:]
		end := strings.IndexAny(s, ".#")
		if end < 0 {
			end = len(s)
		}
		name := s[:end]
		if name == "" {
			return SelectorPart{}, false
		}
		if kind == '#' {
			part.ID = name
		} else {
			part.Classes = append(part.Classes, name)
		}
		s = s[end:]
	}
	return part, true
}

// Matches reports whether node matches the selector.
func (sel Selector) Matches(node *html.Node) bool {
	if len(sel.Parts) == 0 || !sel.Parts[len(sel.Parts)-1].matches(node) {
		return false
	}
	// Remaining parts must match ancestors, innermost first.
	i := len(sel.Parts) - 2
	for anc := node.Parent; anc != nil && i >= 0; anc = anc.Parent {
		if sel.Parts[i].matches(anc) {
			i--
		}
	}
	return i < 0
}

func (p SelectorPart) matches(node *html.Node) bool {
	if node.Type != html.ElementNode {
		return false
	}
	if p.Tag != "" && p.Tag != "*" && p.Tag != node.TagName {
		return false
	}
	if p.ID != "" {
		if id, _ := node.GetAttribute("id"); id != p.ID {
			return false
		}
	}
	for _, cls := range p.Classes {
		if !node.HasClass(cls) {
			return false
		}
	}
	return true
}
