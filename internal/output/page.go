package output

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/starford/modcatalog/internal/dom"
)

// liveReloadScript reloads the page when a newer render is announced on
// the SSE stream.
const liveReloadScript = `(function () {
  var rev = %d;
  var es = new EventSource(%q);
  es.addEventListener("view.rendered", function (e) {
    if (JSON.parse(e.data).revision > rev) { location.reload(); }
  });
})();`

// Page keeps the latest rendered document in memory for the preview server.
type Page struct {
	doc        dom.Document
	eventsPath string
	onRender   func(revision int64)
	mu         sync.Mutex
	body       atomic.Pointer[[]byte]
	revision   atomic.Int64
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithLiveReload embeds a script that follows render announcements at
// eventsPath.
func WithLiveReload(eventsPath string) PageOption {
	return func(p *Page) {
		p.eventsPath = eventsPath
	}
}

// WithRenderHook calls fn after each successful replacement with the new
// revision number.
func WithRenderHook(fn func(revision int64)) PageOption {
	return func(p *Page) {
		p.onRender = fn
	}
}

// NewPage creates an empty page.
func NewPage(doc dom.Document, opts ...PageOption) *Page {
	p := &Page{doc: doc}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Replace implements Sink.
func (p *Page) Replace(_ context.Context, tree *dom.Node) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rev := p.revision.Load() + 1
	doc := p.doc
	if p.eventsPath != "" {
		doc.Scripts = append(append([]string(nil), p.doc.Scripts...), fmt.Sprintf(liveReloadScript, rev, p.eventsPath))
	}
	b, err := dom.DocumentBytes(doc, tree)
	if err != nil {
		return err
	}
	p.body.Store(&b)
	p.revision.Store(rev)
	if p.onRender != nil {
		p.onRender(rev)
	}
	return nil
}

// Bytes returns the current document, or nil before the first render.
func (p *Page) Bytes() []byte {
	b := p.body.Load()
	if b == nil {
		return nil
	}
	return *b
}

// Revision returns how many times the page has been replaced.
func (p *Page) Revision() int64 {
	return p.revision.Load()
}
