// Package store holds the application state and the reducer that moves it
// from one value to the next.
package store

import (
	"time"

	"github.com/starford/modcatalog/internal/catalog"
)

// Status is the catalog load marker.
type Status string

const (
	StatusPending Status = "pending"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// State is one immutable application state value. A State is never
// modified after it has been published; Update returns a fresh value.
type State struct {
	StartedAt    time.Time
	LoadRequests int
	Status       Status
	LoadError    string
	Entries      []catalog.Entry
}

// Initial returns the startup state.
func Initial(startedAt time.Time) State {
	return State{
		StartedAt: startedAt,
		Status:    StatusPending,
		Entries:   []catalog.Entry{},
	}
}

// Event is a closed set of occurrences that drive state transitions.
type Event interface {
	event()
}

// LoadStarted records that a catalog request has been issued.
type LoadStarted struct{}

// CatalogLoaded carries the outcome of a catalog request. Err non-nil is
// the failure arm; Entries is ignored then.
type CatalogLoaded struct {
	Entries []catalog.Entry
	Err     error
}

func (LoadStarted) event()   {}
func (CatalogLoaded) event() {}

// Loaded builds a successful load event.
func Loaded(entries []catalog.Entry) CatalogLoaded {
	return CatalogLoaded{Entries: entries}
}

// LoadFailed builds a failed load event.
func LoadFailed(err error) CatalogLoaded {
	return CatalogLoaded{Err: err}
}

// OK reports whether the load succeeded.
func (e CatalogLoaded) OK() bool {
	return e.Err == nil
}

// Update derives the next state. It is total: an unknown or nil event
// returns s unchanged.
func Update(s State, ev Event) State {
	switch ev := ev.(type) {
	case LoadStarted:
		s.LoadRequests++
	case CatalogLoaded:
		if ev.Err != nil {
			s.Status = StatusFailed
			s.LoadError = ev.Err.Error()
			return s
		}
		entries := make([]catalog.Entry, len(ev.Entries))
		copy(entries, ev.Entries)
		s.Entries = entries
		s.Status = StatusLoaded
		s.LoadError = ""
	}
	return s
}
