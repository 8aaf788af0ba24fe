package dom

import "testing"

func sample() *Node {
	return El("div", Attrs("class", "app main"),
		El("h1", nil, Text("Title")),
		nil,
		El("p", Attrs("class", "description"), Text("one "), El("b", nil, Text("two"))),
	)
}

func TestElSkipsNilChildren(t *testing.T) {
	n := sample()
	if len(n.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(n.Children))
	}
}

func TestAttrsDropsDanglingKey(t *testing.T) {
	got := Attrs("a", "1", "b")
	if len(got) != 1 || got[0] != (Attr{Key: "a", Val: "1"}) {
		t.Fatalf("Attrs = %#v", got)
	}
}

func TestHasClass(t *testing.T) {
	n := sample()
	if !n.HasClass("app") || !n.HasClass("main") {
		t.Error("expected app and main classes")
	}
	if n.HasClass("ap") {
		t.Error("partial class name should not match")
	}
	if n.Children[0].HasClass("app") {
		t.Error("h1 has no class attribute")
	}
}

func TestTextContent(t *testing.T) {
	if got := sample().TextContent(); got != "Titleone two" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestFindAndFindAll(t *testing.T) {
	n := sample()
	if p := n.Find(ByClass("description")); p == nil || p.Tag != "p" {
		t.Fatalf("Find(description) = %#v", p)
	}
	if got := len(n.FindAll(func(c *Node) bool { return c.IsText() })); got != 3 {
		t.Errorf("text leaves = %d, want 3", got)
	}
	if n.Find(ByTag("table")) != nil {
		t.Error("expected no table")
	}
}
