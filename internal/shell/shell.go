// Package shell wires the catalog loader, the state store and the view
// deriver into a single update loop.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/starford/modcatalog/internal/apperr"
	"github.com/starford/modcatalog/internal/dom"
	"github.com/starford/modcatalog/internal/output"
	"github.com/starford/modcatalog/internal/store"
)

// Phase is the shell lifecycle stage.
type Phase int32

const (
	Uninitialized Phase = iota
	Loading
	Ready
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("phase(%d)", int32(p))
}

// ErrStopped is returned by Wait when the loop ended before Ready.
var ErrStopped = errors.New("shell stopped before ready")

// Loader starts a catalog load and later delivers the outcome to dispatch.
type Loader interface {
	Start(ctx context.Context, dispatch func(store.Event))
}

// Deriver builds a view tree from a state.
type Deriver interface {
	Derive(s store.State) *dom.Node
}

// Shell runs the update cycle. Events are processed one at a time, in
// arrival order, on the loop goroutine.
type Shell struct {
	store  *store.Store
	loader Loader
	view   Deriver
	sink   output.Sink
	logger *slog.Logger

	events  chan store.Event
	phase   atomic.Int32
	started atomic.Bool

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
}

// New creates a shell in the Uninitialized phase.
func New(st *store.Store, loader Loader, view Deriver, sink output.Sink, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		store:  st,
		loader: loader,
		view:   view,
		sink:   sink,
		logger: logger,
		events: make(chan store.Event, 16),
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start moves to Loading, renders the pending state, and issues the single
// catalog load. It returns without waiting for the load. A second call
// fails with apperr.ErrAlreadyStarted.
func (s *Shell) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return apperr.ErrAlreadyStarted
	}
	s.phase.Store(int32(Loading))

	st := s.store.Apply(store.LoadStarted{})
	s.render(ctx, st)

	go s.loop(ctx)
	s.loader.Start(ctx, s.Dispatch)

	s.logger.Info("shell: catalog load issued", slog.Int("load_requests", st.LoadRequests))
	return nil
}

// Dispatch queues an event for the loop. It drops the event once the loop
// has stopped.
func (s *Shell) Dispatch(ev store.Event) {
	select {
	case s.events <- ev:
	case <-s.done:
		s.logger.Debug("shell: event dropped after stop", slog.String("event", fmt.Sprintf("%T", ev)))
	}
}

// Phase returns the current lifecycle stage.
func (s *Shell) Phase() Phase {
	return Phase(s.phase.Load())
}

// State returns the latest state.
func (s *Shell) State() store.State {
	return s.store.Current()
}

// Ready is closed once the first load outcome has been rendered.
func (s *Shell) Ready() <-chan struct{} {
	return s.ready
}

// Done is closed when the loop exits.
func (s *Shell) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until Ready, the loop stops, or ctx ends.
func (s *Shell) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-s.done:
		select {
		case <-s.ready:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shell) loop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shell: stopped")
			return
		case ev := <-s.events:
			s.process(ctx, ev)
		}
	}
}

func (s *Shell) process(ctx context.Context, ev store.Event) {
	next := s.store.Apply(ev)
	s.render(ctx, next)

	if loaded, ok := ev.(store.CatalogLoaded); ok {
		if loaded.OK() {
			s.logger.Info("shell: catalog applied", slog.Int("entries", len(next.Entries)))
		} else {
			s.logger.Error("shell: catalog load failed", slog.String("error", next.LoadError))
		}
		s.phase.Store(int32(Ready))
		s.readyOnce.Do(func() { close(s.ready) })
	}
}

// render is the render trigger: derive, then replace the sink's output.
func (s *Shell) render(ctx context.Context, st store.State) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Replace(ctx, s.view.Derive(st)); err != nil {
		s.logger.Error("shell: render failed", slog.String("error", err.Error()))
	}
}
