package dom

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderFragment(t *testing.T) {
	n := El("a", Attrs("href", "https://x/?a=1&b=2"), Text("<zip>"))
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<a href="https://x/?a=1&amp;b=2">&lt;zip&gt;</a>`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderVoidElement(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, El("img", Attrs("src", "i.png"))); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), `<img src="i.png"`) || strings.Contains(buf.String(), "</img>") {
		t.Errorf("unexpected void rendering %q", buf.String())
	}
}

func TestRenderDocument(t *testing.T) {
	body := El("div", Attrs("class", "app"), Text("hi"))
	b, err := DocumentBytes(Document{Title: "Mods", Scripts: []string{`if (a < b) {}`}}, body)
	if err != nil {
		t.Fatalf("DocumentBytes: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Mods</title>",
		`<meta charset="utf-8"/>`,
		`<body><div class="app">hi</div>`,
		"<script>if (a < b) {}</script>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("document missing %q in %q", want, s)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	body := El("div", Attrs("b", "2", "a", "1"), Text("x"))
	first, _ := DocumentBytes(Document{}, body)
	second, _ := DocumentBytes(Document{}, body)
	if !bytes.Equal(first, second) {
		t.Error("rendering the same tree twice differs")
	}
	if !bytes.Contains(first, []byte(`<div b="2" a="1">`)) {
		t.Errorf("attribute order not preserved: %s", first)
	}
}
