// Package dom defines the presentational tree handed to a rendering
// substrate: labeled elements with ordered attributes and text or element
// children.
package dom

import "strings"

// Attr is a single element attribute. Attribute order is preserved so that
// two trees built from the same input serialize identically.
type Attr struct {
	Key string
	Val string
}

// Node is an element (Tag set) or a text leaf (Tag empty).
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// El builds an element. Nil children are skipped.
func El(tag string, attrs []Attr, children ...*Node) *Node {
	n := &Node{Tag: tag, Attrs: attrs}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Text builds a text leaf.
func Text(s string) *Node {
	return &Node{Text: s}
}

// Attrs pairs up key/value arguments. A trailing key without value is dropped.
func Attrs(kv ...string) []Attr {
	out := make([]Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Attr{Key: kv[i], Val: kv[i+1]})
	}
	return out
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute lists name.
func (n *Node) HasClass(name string) bool {
	v, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == name {
			return true
		}
	}
	return false
}

// TextContent concatenates all text leaves below n in document order.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.walk(func(c *Node) bool {
		if c.IsText() {
			b.WriteString(c.Text)
		}
		return true
	})
	return b.String()
}

// FindAll returns every node below and including n matching pred, in
// document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Find returns the first node matching pred, or nil.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if found == nil && pred(c) {
			found = c
		}
		return found == nil
	})
	return found
}

// ByTag matches elements with the given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.Tag == tag }
}

// ByClass matches elements carrying the given class.
func ByClass(name string) func(*Node) bool {
	return func(n *Node) bool { return n.HasClass(name) }
}

func (n *Node) walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
