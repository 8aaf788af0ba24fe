package store

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Store owns the current State. Writers are serialized; readers load the
// published pointer and never observe a half-applied transition.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[State]
}

// New creates a store holding initial.
func New(initial State) *Store {
	s := &Store{}
	s.current.Store(&initial)
	return s
}

// Current returns the latest published state. The Entries slice is a copy;
// the optional string fields of each entry are shared and must not be
// written through.
func (s *Store) Current() State {
	return snapshot(*s.current.Load())
}

// Apply runs ev through Update, publishes the result and returns it.
func (s *Store) Apply(ev Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Update(*s.current.Load(), ev)
	s.current.Store(&next)
	return snapshot(next)
}

func snapshot(st State) State {
	st.Entries = slices.Clone(st.Entries)
	return st
}
