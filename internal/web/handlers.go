package web

import (
	"log/slog"
	"net/http"

	"github.com/starford/modcatalog/internal/shell"
	"github.com/starford/modcatalog/internal/store"
)

// StateSource exposes the application state and lifecycle phase.
type StateSource interface {
	State() store.State
	Phase() shell.Phase
}

// PageSource exposes the latest rendered document.
type PageSource interface {
	Bytes() []byte
	Revision() int64
}

// EventStream is the live-reload endpoint and its subscriber count.
type EventStream interface {
	http.Handler
	ClientCount() int
}

// Handler holds the route handlers.
type Handler struct {
	src    StateSource
	page   PageSource
	events EventStream
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(src StateSource, page PageSource, events EventStream) *Handler {
	return &Handler{src: src, page: page, events: events}
}

// Page handles GET /.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	body := h.page.Bytes()
	if body == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("not rendered yet"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Debug("page write failed", slog.String("error", err.Error()))
	}
}

// State handles GET /api/state.
func (h *Handler) State(w http.ResponseWriter, _ *http.Request) {
	st := h.src.State()
	clients := 0
	if h.events != nil {
		clients = h.events.ClientCount()
	}
	writeJSON(w, http.StatusOK, StateResponse{
		Phase:        h.src.Phase().String(),
		Status:       string(st.Status),
		LoadRequests: st.LoadRequests,
		Error:        st.LoadError,
		EntryCount:   len(st.Entries),
		StartedAt:    st.StartedAt,
		Revision:     h.page.Revision(),
		LiveClients:  clients,
	})
}

// Live handles GET /health/live.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Ready handles GET /health/ready.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if h.src.Phase() != shell.Ready {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: h.src.Phase().String()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
