// Package view derives the page tree from application state.
package view

import (
	"github.com/starford/modcatalog/internal/dom"
	"github.com/starford/modcatalog/internal/format"
	"github.com/starford/modcatalog/internal/store"
)

// Deriver maps a State to a view tree.
type Deriver struct {
	Title      string
	Stylesheet string
	Format     format.Formatter
}

// Derive builds the page. Entries are rendered one card each, in state
// order. The result depends on s and the Deriver fields only.
func (d Deriver) Derive(s store.State) *dom.Node {
	listing := dom.El("div", dom.Attrs("class", "listing-container"))
	if n := statusLine(s); n != nil {
		listing.Children = append(listing.Children, n)
	}
	for _, e := range s.Entries {
		listing.Children = append(listing.Children, d.Format.Card(e))
	}

	return dom.El("div", dom.Attrs("class", "app"),
		dom.El("header", nil, dom.El("h1", nil, dom.Text(d.Title))),
		dom.El("link", dom.Attrs("href", d.Stylesheet, "rel", "stylesheet")),
		listing,
	)
}

func statusLine(s store.State) *dom.Node {
	switch s.Status {
	case store.StatusPending:
		return dom.El("p", dom.Attrs("class", "status"), dom.Text("Loading catalog…"))
	case store.StatusFailed:
		return dom.El("p", dom.Attrs("class", "status error"), dom.Text("Catalog failed to load: "+s.LoadError))
	}
	return nil
}
