package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with the preview routes.
// events, if non-nil, is mounted at GET /api/events and its client count
// is reported by GET /api/state.
// staticDir, if non-empty, is served for every path not matched otherwise.
func NewRouter(src StateSource, page PageSource, events EventStream, staticDir string) chi.Router {
	h := NewHandler(src, page, events)

	r := chi.NewRouter()

	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)

	r.Group(func(r chi.Router) {
		r.Use(NoStore)
		r.Get("/", h.Page)
		r.Get("/index.html", h.Page)
		r.Get("/api/state", h.State)
	})

	if events != nil {
		r.Get("/api/events", events.ServeHTTP)
	}

	if staticDir != "" {
		r.NotFound(http.FileServer(http.Dir(staticDir)).ServeHTTP)
	}

	return r
}
