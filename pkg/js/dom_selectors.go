package js

import (
	"strings"

	"webshot/pkg/css"
	"webshot/pkg/html"

	"github.com/dop251/goja"
)

// parseSelectorGroup parses a comma separated selector list, throwing a
// SyntaxError for anything the stylesheet engine cannot match.
func parseSelectorGroup(ctx *domContext, method, group string) []css.Selector {
	var sels []css.Selector
	for _, raw := range strings.Split(group, ",") {
		sel, ok := css.ParseSelector(raw)
		if !ok {
			panic(ctx.vm.NewGoError(&selectorError{method: method, selector: group}))
		}
		sels = append(sels, sel)
	}
	return sels
}

type selectorError struct {
	method, selector string
}

func (e *selectorError) Error() string {
	return "Failed to execute '" + e.method + "': '" + e.selector + "' is not a valid selector"
}

func matchAny(sels []css.Selector, n *html.Node) bool {
	for _, sel := range sels {
		if sel.Matches(n) {
			return true
		}
	}
	return false
}

// querySelectorFn returns a JS function implementing querySelector.
func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelector': 1 argument required"))
		}
		sels := parseSelectorGroup(ctx, "querySelector", call.Arguments[0].String())
		for _, n := range root.ElementsByTagName("*") {
			if matchAny(sels, n) {
				return ctx.elementProxy(n)
			}
		}
		return goja.Null()
	}
}

// querySelectorAllFn returns a JS function implementing querySelectorAll.
func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelectorAll': 1 argument required"))
		}
		sels := parseSelectorGroup(ctx, "querySelectorAll", call.Arguments[0].String())
		var results []*html.Node
		for _, n := range root.ElementsByTagName("*") {
			if matchAny(sels, n) {
				results = append(results, n)
			}
		}
		return ctx.elementArray(results)
	}
}

// matchesFn returns a JS function implementing element.matches.
func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'matches': 1 argument required"))
		}
		sels := parseSelectorGroup(ctx, "matches", call.Arguments[0].String())
		return ctx.vm.ToValue(matchAny(sels, node))
	}
}
