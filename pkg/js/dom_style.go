package js

import (
	"slices"
	"strings"
	"unicode"

	"webshot/pkg/html"

	"github.com/dop251/goja"
)

// newStyleProxy maps JS camelCase property access to CSS kebab-case
// declarations on the node's inline style attribute.
func newStyleProxy(vm *goja.Runtime, node *html.Node) goja.Value {
	return vm.NewDynamicObject(&styleAccessor{vm: vm, node: node})
}

type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	if key == "cssText" {
		v, _ := s.node.GetAttribute("style")
		return s.vm.ToValue(v)
	}
	styles := parseInlineStyle(s.styleAttr())
	return s.vm.ToValue(styles[camelToKebab(key)])
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.node.SetAttribute("style", val.String())
		return true
	}
	styles := parseInlineStyle(s.styleAttr())
	prop := camelToKebab(key)
	if v := val.String(); v == "" {
		delete(styles, prop)
	} else {
		styles[prop] = v
	}
	s.node.SetAttribute("style", serializeInlineStyle(styles))
	return true
}

func (s *styleAccessor) Has(key string) bool { return true }

func (s *styleAccessor) Delete(key string) bool {
	styles := parseInlineStyle(s.styleAttr())
	delete(styles, camelToKebab(key))
	s.node.SetAttribute("style", serializeInlineStyle(styles))
	return true
}

func (s *styleAccessor) Keys() []string {
	styles := parseInlineStyle(s.styleAttr())
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *styleAccessor) styleAttr() string {
	v, _ := s.node.GetAttribute("style")
	return v
}

// parseInlineStyle splits a style attribute into property/value pairs.
func parseInlineStyle(s string) map[string]string {
	result := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		result[prop] = strings.TrimSpace(val)
	}
	return result
}

// serializeInlineStyle writes declarations back in property order.
func serializeInlineStyle(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m[k]
	}
	return strings.Join(parts, "; ")
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
