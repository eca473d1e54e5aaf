package js

import (
	"slices"
	"strconv"
	"strings"

	"webshot/pkg/html"

	"github.com/dop251/goja"
)

// newClassListProxy implements the DOMTokenList subset used by pages:
// add, remove, toggle, contains, length and index access.
func newClassListProxy(ctx *domContext, node *html.Node) goja.Value {
	return ctx.vm.NewDynamicObject(&classListAccessor{ctx: ctx, node: node})
}

type classListAccessor struct {
	ctx  *domContext
	node *html.Node
}

func (cl *classListAccessor) classes() []string {
	attr, _ := cl.node.GetAttribute("class")
	return strings.Fields(attr)
}

func (cl *classListAccessor) setClasses(classes []string) {
	cl.node.SetAttribute("class", strings.Join(classes, " "))
}

func (cl *classListAccessor) Get(key string) goja.Value {
	vm := cl.ctx.vm
	classes := cl.classes()

	switch key {
	case "length":
		return vm.ToValue(len(classes))
	case "value":
		return vm.ToValue(strings.Join(classes, " "))
	case "add":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cls := cl.classes()
			for _, arg := range call.Arguments {
				if token := arg.String(); !slices.Contains(cls, token) {
					cls = append(cls, token)
				}
			}
			cl.setClasses(cls)
			return goja.Undefined()
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cls := cl.classes()
			for _, arg := range call.Arguments {
				token := arg.String()
				cls = slices.DeleteFunc(cls, func(c string) bool { return c == token })
			}
			cl.setClasses(cls)
			return goja.Undefined()
		})
	case "toggle":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("Failed to execute 'toggle': 1 argument required"))
			}
			token := call.Arguments[0].String()
			cls := cl.classes()
			want := !slices.Contains(cls, token)
			if len(call.Arguments) > 1 {
				want = call.Arguments[1].ToBoolean()
			}
			cls = slices.DeleteFunc(cls, func(c string) bool { return c == token })
			if want {
				cls = append(cls, token)
			}
			cl.setClasses(cls)
			return vm.ToValue(want)
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			return vm.ToValue(slices.Contains(cl.classes(), call.Arguments[0].String()))
		})
	}

	if idx, err := strconv.Atoi(key); err == nil {
		if idx >= 0 && idx < len(classes) {
			return vm.ToValue(classes[idx])
		}
	}
	return goja.Undefined()
}

func (cl *classListAccessor) Set(key string, val goja.Value) bool {
	if key == "value" {
		cl.setClasses(strings.Fields(val.String()))
		return true
	}
	return false
}

func (cl *classListAccessor) Has(key string) bool {
	switch key {
	case "length", "value", "add", "remove", "toggle", "contains":
		return true
	}
	idx, err := strconv.Atoi(key)
	return err == nil && idx >= 0 && idx < len(cl.classes())
}

func (cl *classListAccessor) Delete(key string) bool { return false }

func (cl *classListAccessor) Keys() []string {
	keys := make([]string, len(cl.classes()))
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}
