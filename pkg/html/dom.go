package html

import "strings"

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

type Document struct {
	Root        *Node
	Title       string
	Stylesheets []string // CSS from <style> tags and fetched <link> sheets
	Scripts     []string // JavaScript from <script> tags, in document order
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: make(map[string]string),
		Children:   make([]*Node, 0),
	}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// AddChild appends child, detaching it from any previous parent first.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertBefore inserts child before ref. A nil or foreign ref appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	for i, c := range n.Children {
		if c == ref {
			child.Parent = n
			n.Children = append(n.Children[:i], append([]*Node{child}, n.Children[i:]...)...)
			return
		}
	}
	n.AddChild(child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(NewText(text))
}

// RemoveChild removes child from n and clears its parent pointer.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n.Type == TextNode {
		n.Text = text
		return
	}
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = make([]*Node, 0)
	n.AppendText(text)
}

// Walk calls fn for n and each descendant in document order until fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// ElementByID returns the first element with the given id, or nil.
func (n *Node) ElementByID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if v, ok := c.GetAttribute("id"); ok && c.Type == ElementNode && v == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// ElementsByTagName returns all descendant elements named tag. "*" matches
// every element.
func (n *Node) ElementsByTagName(tag string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(e *Node) bool {
			if e.Type == ElementNode && (tag == "*" || e.TagName == tag) {
				out = append(out, e)
			}
			return true
		})
	}
	return out
}

// HasClass reports whether the class attribute lists cls.
func (n *Node) HasClass(cls string) bool {
	v, ok := n.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == cls {
			return true
		}
	}
	return false
}

// Body returns the <body> element, or the root if there is none.
func (d *Document) Body() *Node {
	if body := d.Root.ElementsByTagName("body"); len(body) > 0 {
		return body[0]
	}
	return d.Root
}
