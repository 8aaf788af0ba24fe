package dom

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document describes the page shell a tree is rendered into.
type Document struct {
	Title   string
	Scripts []string
}

// toHTML converts the tree into an x/net/html node tree.
func (n *Node) toHTML() *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		h.Attr = append(h.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.Children {
		h.AppendChild(c.toHTML())
	}
	return h
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

// Render writes n as a fragment.
func Render(w io.Writer, n *Node) error {
	if err := html.Render(w, n.toHTML()); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

// RenderDocument writes a complete HTML document with body as the only
// child of <body>.
func RenderDocument(w io.Writer, doc Document, body *Node) error {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html)
	root.AppendChild(htmlEl)

	head := element(atom.Head)
	htmlEl.AppendChild(head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	head.AppendChild(element(atom.Meta,
		html.Attribute{Key: "name", Val: "viewport"},
		html.Attribute{Key: "content", Val: "width=device-width, initial-scale=1"}))
	if doc.Title != "" {
		title := element(atom.Title)
		title.AppendChild(&html.Node{Type: html.TextNode, Data: doc.Title})
		head.AppendChild(title)
	}

	bodyEl := element(atom.Body)
	htmlEl.AppendChild(bodyEl)
	if body != nil {
		bodyEl.AppendChild(body.toHTML())
	}
	for _, src := range doc.Scripts {
		script := element(atom.Script)
		script.AppendChild(&html.Node{Type: html.TextNode, Data: src})
		bodyEl.AppendChild(script)
	}

	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("dom: render document: %w", err)
	}
	return nil
}

// DocumentBytes renders a document into memory.
func DocumentBytes(doc Document, body *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderDocument(&buf, doc, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
