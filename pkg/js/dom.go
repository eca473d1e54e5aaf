package js

import (
	"strconv"
	"strings"

	"webshot/pkg/html"

	"github.com/dop251/goja"
)

// domContext holds shared state for DOM bindings within a single execution.
// It keeps a node-to-proxy cache so the same JS object is returned for the
// same *html.Node, which === comparisons rely on.
type domContext struct {
	vm    *goja.Runtime
	doc   *html.Document
	cache map[*html.Node]goja.Value
}

func newDOMContext(vm *goja.Runtime, doc *html.Document) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		cache: make(map[*html.Node]goja.Value),
	}
}

// registerDocument sets the global `document` object on the runtime.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := newDOMContext(vm, doc)
	vm.Set("document", vm.NewDynamicObject(&documentAccessor{ctx: ctx}))
	return ctx
}

var documentKeys = []string{
	"title", "body", "documentElement",
	"getElementById", "getElementsByTagName", "getElementsByClassName",
	"createElement", "createTextNode", "querySelector", "querySelectorAll",
}

// documentAccessor implements goja.DynamicObject for `document`.
type documentAccessor struct {
	ctx *domContext
}

func (d *documentAccessor) Get(key string) goja.Value {
	vm := d.ctx.vm
	doc := d.ctx.doc

	switch key {
	case "title":
		return vm.ToValue(doc.Title)
	case "body":
		return d.ctx.elementProxy(doc.Body())
	case "documentElement":
		if els := doc.Root.ElementsByTagName("html"); len(els) > 0 {
			return d.ctx.elementProxy(els[0])
		}
		return goja.Null()
	case "getElementById":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			return d.ctx.nodeOrNull(doc.Root.ElementByID(call.Arguments[0].String()))
		})
	case "getElementsByTagName":
		return vm.ToValue(d.ctx.byTagNameFn(doc.Root))
	case "getElementsByClassName":
		return vm.ToValue(d.ctx.byClassNameFn(doc.Root))
	case "createElement":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
			}
			return d.ctx.elementProxy(html.NewElement(call.Arguments[0].String()))
		})
	case "createTextNode":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			text := ""
			if len(call.Arguments) > 0 {
				text = call.Arguments[0].String()
			}
			return d.ctx.elementProxy(html.NewText(text))
		})
	case "querySelector":
		return vm.ToValue(querySelectorFn(d.ctx, doc.Root))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(d.ctx, doc.Root))
	}
	return goja.Undefined()
}

func (d *documentAccessor) Set(key string, val goja.Value) bool {
	if key == "title" {
		d.ctx.doc.Title = val.String()
		return true
	}
	return false
}

func (d *documentAccessor) Has(key string) bool {
	for _, k := range documentKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (d *documentAccessor) Delete(key string) bool { return false }

func (d *documentAccessor) Keys() []string { return documentKeys }

func (ctx *domContext) byTagNameFn(root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		return ctx.elementArray(root.ElementsByTagName(call.Arguments[0].String()))
	}
}

func (ctx *domContext) byClassNameFn(root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		cls := call.Arguments[0].String()
		var result []*html.Node
		for _, n := range root.ElementsByTagName("*") {
			if n.HasClass(cls) {
				result = append(result, n)
			}
		}
		return ctx.elementArray(result)
	}
}

// elementArray creates a JS array of element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	arr := ctx.vm.NewArray()
	for i, n := range nodes {
		arr.Set(strconv.Itoa(i), ctx.elementProxy(n))
	}
	return arr
}

func (ctx *domContext) nodeOrNull(node *html.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	return ctx.elementProxy(node)
}

// elementProxy creates (or retrieves from cache) a JS object wrapping node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode returns the *html.Node behind a proxy, or nil.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj := val.ToObject(ctx.vm)
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

var elementKeys = []string{
	"tagName", "nodeName", "nodeType", "nodeValue", "id", "className",
	"textContent", "getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "childNodes", "parentElement", "parentNode", "style", "classList",
	"appendChild", "removeChild", "insertBefore", "remove",
	"firstChild", "lastChild", "nextSibling", "previousSibling",
	"querySelector", "querySelectorAll", "matches",
	"getElementsByTagName", "getElementsByClassName",
}

// elementAccessor implements goja.DynamicObject for DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	n := e.node

	switch key {
	case "nodeType":
		if n.Type == html.TextNode {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "nodeName":
		if n.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "nodeValue":
		if n.Type == html.TextNode {
			return vm.ToValue(n.Text)
		}
		return goja.Null()
	case "tagName":
		if n.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "id":
		id, _ := n.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := n.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := n.GetAttribute(strings.ToLower(call.Arguments[0].String()))
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				return goja.Undefined()
			}
			n.SetAttribute(strings.ToLower(call.Arguments[0].String()), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := n.GetAttribute(strings.ToLower(call.Arguments[0].String()))
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 && n.Attributes != nil {
				delete(n.Attributes, strings.ToLower(call.Arguments[0].String()))
			}
			return goja.Undefined()
		})
	case "children":
		var elChildren []*html.Node
		for _, child := range n.Children {
			if child.Type == html.ElementNode {
				elChildren = append(elChildren, child)
			}
		}
		return e.ctx.elementArray(elChildren)
	case "childNodes":
		return e.ctx.elementArray(n.Children)
	case "parentElement", "parentNode":
		if n.Parent != nil && n.Parent.TagName != "document" {
			return e.ctx.elementProxy(n.Parent)
		}
		return goja.Null()
	case "style":
		return newStyleProxy(vm, n)
	case "classList":
		return newClassListProxy(e.ctx, n)

	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.requireNode(call, "appendChild")
			n.AddChild(child)
			return e.ctx.elementProxy(child)
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.requireNode(call, "removeChild")
			if n.RemoveChild(child) == nil {
				panic(vm.NewTypeError("Failed to execute 'removeChild': The node to be removed is not a child of this node"))
			}
			return e.ctx.elementProxy(child)
		})
	case "insertBefore":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.requireNode(call, "insertBefore")
			var ref *html.Node
			if len(call.Arguments) > 1 {
				ref = e.ctx.unwrapNode(call.Arguments[1])
			}
			n.InsertBefore(child, ref)
			return e.ctx.elementProxy(child)
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
			return goja.Undefined()
		})

	case "firstChild":
		if len(n.Children) == 0 {
			return goja.Null()
		}
		return e.ctx.elementProxy(n.Children[0])
	case "lastChild":
		if len(n.Children) == 0 {
			return goja.Null()
		}
		return e.ctx.elementProxy(n.Children[len(n.Children)-1])
	case "nextSibling":
		return e.sibling(1)
	case "previousSibling":
		return e.sibling(-1)

	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, n))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, n))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, n))
	case "getElementsByTagName":
		return vm.ToValue(e.ctx.byTagNameFn(n))
	case "getElementsByClassName":
		return vm.ToValue(e.ctx.byClassNameFn(n))
	}
	return goja.Undefined()
}

// requireNode unwraps the first argument or throws a TypeError.
func (e *elementAccessor) requireNode(call goja.FunctionCall, method string) *html.Node {
	if len(call.Arguments) == 0 {
		panic(e.ctx.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required"))
	}
	child := e.ctx.unwrapNode(call.Arguments[0])
	if child == nil {
		panic(e.ctx.vm.NewTypeError("Failed to execute '" + method + "': parameter 1 is not a Node"))
	}
	return child
}

func (e *elementAccessor) sibling(delta int) goja.Value {
	p := e.node.Parent
	if p == nil {
		return goja.Null()
	}
	for i, c := range p.Children {
		if c == e.node {
			j := i + delta
			if j < 0 || j >= len(p.Children) {
				return goja.Null()
			}
			return e.ctx.elementProxy(p.Children[j])
		}
	}
	return goja.Null()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.SetTextContent(val.String())
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	case "nodeValue":
		if e.node.Type == html.TextNode {
			e.node.Text = val.String()
		}
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool { return false }

func (e *elementAccessor) Keys() []string { return elementKeys }
