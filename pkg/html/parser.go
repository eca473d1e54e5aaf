package html

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fetcher loads a subresource (stylesheet or script) referenced by the
// document. A nil Fetcher only resolves data: URIs.
type Fetcher func(uri string) (string, error)

func Parse(src string) (*Document, error) {
	return ParseWithFetcher(src, nil)
}

// ParseWithFetcher parses src into a Document. <head> content is not kept
// in the tree: titles, stylesheets and scripts are collected on the
// Document instead.
func ParseWithFetcher(src string, fetch Fetcher) (*Document, error) {
	root, err := xhtml.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	p := &parser{doc: NewDocument(), fetch: fetch}
	p.convertChildren(root, p.doc.Root)
	return p.doc, nil
}

type parser struct {
	doc   *Document
	fetch Fetcher
}

func (p *parser) convertChildren(src *xhtml.Node, dst *Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		p.convert(c, dst)
	}
}

func (p *parser) convert(src *xhtml.Node, parent *Node) {
	switch src.Type {
	case xhtml.TextNode:
		parent.AppendText(src.Data)
		return
	case xhtml.ElementNode:
	default:
		// Comments and doctypes carry nothing to render.
		return
	}

	switch src.DataAtom {
	case atom.Head:
		p.collectHead(src)
		return
	case atom.Title:
		p.doc.Title = strings.TrimSpace(textOf(src))
		return
	case atom.Style:
		p.doc.Stylesheets = append(p.doc.Stylesheets, textOf(src))
		return
	case atom.Script:
		p.addScript(src)
		return
	case atom.Link:
		p.addLink(src)
		return
	case atom.Noscript, atom.Template, atom.Meta:
		return
	}

	node := NewElement(src.Data)
	for _, a := range src.Attr {
		node.Attributes[strings.ToLower(a.Key)] = a.Val
	}
	parent.AddChild(node)
	p.convertChildren(src, node)
}

// collectHead pulls title, styles and scripts out of <head>.
func (p *parser) collectHead(head *xhtml.Node) {
	scratch := NewElement("head")
	p.convertChildren(head, scratch)
}

func (p *parser) addScript(n *xhtml.Node) {
	if typ := attr(n, "type"); typ != "" && !strings.Contains(typ, "javascript") && typ != "module" {
		return
	}
	if src := attr(n, "src"); src != "" {
		if body, ok := p.load(src); ok {
			p.doc.Scripts = append(p.doc.Scripts, body)
		}
		return
	}
	p.doc.Scripts = append(p.doc.Scripts, textOf(n))
}

func (p *parser) addLink(n *xhtml.Node) {
	if !strings.Contains(strings.ToLower(attr(n, "rel")), "stylesheet") {
		return
	}
	href := attr(n, "href")
	if href == "" {
		return
	}
	if css, ok := p.load(href); ok {
		p.doc.Stylesheets = append(p.doc.Stylesheets, css)
	}
}

func (p *parser) load(uri string) (string, bool) {
	uri = strings.TrimSpace(uri)
	if body, ok := decodeDataText(uri); ok {
		return body, true
	}
	if p.fetch == nil {
		return "", false
	}
	body, err := p.fetch(uri)
	if err != nil {
		slog.Warn("html: subresource not loaded", "uri", uri, "err", err)
		return "", false
	}
	return body, true
}

// decodeDataText handles the percent-encoded text data URIs pages use for
// inline stylesheets and scripts.
func decodeDataText(uri string) (string, bool) {
	if !strings.HasPrefix(uri, "data:") {
		return "", false
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 || strings.Contains(uri[:comma], ";base64") {
		return "", false
	}
	payload := uri[comma+1:]
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return payload, true
	}
	return decoded, true
}

func attr(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textOf(n *xhtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
