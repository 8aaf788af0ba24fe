package shell

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/starford/modcatalog/internal/apperr"
	"github.com/starford/modcatalog/internal/catalog"
	"github.com/starford/modcatalog/internal/dom"
	"github.com/starford/modcatalog/internal/format"
	"github.com/starford/modcatalog/internal/loader"
	"github.com/starford/modcatalog/internal/store"
	"github.com/starford/modcatalog/internal/testutil"
	"github.com/starford/modcatalog/internal/view"
)

// fakeLoader hands its dispatch func to the test instead of fetching.
type fakeLoader struct {
	mu       sync.Mutex
	calls    int
	dispatch func(store.Event)
}

func (f *fakeLoader) Start(_ context.Context, dispatch func(store.Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.dispatch = dispatch
}

func (f *fakeLoader) deliver(ev store.Event) {
	f.mu.Lock()
	d := f.dispatch
	f.mu.Unlock()
	d(ev)
}

// recordingSink keeps every tree it is given.
type recordingSink struct {
	mu    sync.Mutex
	trees []*dom.Node
	err   error
}

func (s *recordingSink) Replace(_ context.Context, tree *dom.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees = append(s.trees, tree)
	return s.err
}

func (s *recordingSink) last() *dom.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.trees) == 0 {
		return nil
	}
	return s.trees[len(s.trees)-1]
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trees)
}

func deriver() view.Deriver {
	return view.Deriver{
		Title:      "Mindustry Mods",
		Stylesheet: "css/listing.css",
		Format:     format.New("mindustry-mods", "https://github.com", "https://raw.githubusercontent.com"),
	}
}

func newShell(l Loader, sink *recordingSink) *Shell {
	return New(store.New(store.Initial(time.Now())), l, deriver(), sink, testutil.Logger())
}

func waitReady(t *testing.T, s *Shell) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestPhases(t *testing.T) {
	fl := &fakeLoader{}
	sink := &recordingSink{}
	s := newShell(fl, sink)
	if s.Phase() != Uninitialized {
		t.Fatalf("phase = %s, want uninitialized", s.Phase())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Phase() != Loading {
		t.Fatalf("phase = %s, want loading", s.Phase())
	}
	if fl.calls != 1 {
		t.Fatalf("loader calls = %d, want 1", fl.calls)
	}
	if st := s.State(); st.LoadRequests != 1 || st.Status != store.StatusPending {
		t.Fatalf("state after start = %+v", st)
	}
	if sink.count() != 1 || sink.last().Find(dom.ByClass("status")) == nil {
		t.Fatal("pending state was not rendered on start")
	}

	fl.deliver(store.Loaded([]catalog.Entry{testutil.Alpha()}))
	waitReady(t, s)

	if s.Phase() != Ready {
		t.Fatalf("phase = %s, want ready", s.Phase())
	}
	if got := len(sink.last().FindAll(dom.ByClass("wrapper"))); got != 1 {
		t.Errorf("rendered cards = %d, want 1", got)
	}
}

func TestStartTwice(t *testing.T) {
	fl := &fakeLoader{}
	s := newShell(fl, &recordingSink{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(ctx); !errors.Is(err, apperr.ErrAlreadyStarted) {
		t.Fatalf("second Start err = %v", err)
	}
	if fl.calls != 1 {
		t.Errorf("loader calls = %d, want 1", fl.calls)
	}
}

func TestFailedLoadReachesReady(t *testing.T) {
	fl := &fakeLoader{}
	sink := &recordingSink{}
	s := newShell(fl, sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = s.Start(ctx)

	fl.deliver(store.LoadFailed(errors.New("dial tcp: refused")))
	waitReady(t, s)

	st := s.State()
	if st.Status != store.StatusFailed || st.LoadError == "" {
		t.Fatalf("state = %+v", st)
	}
	if sink.last().Find(dom.ByClass("error")) == nil {
		t.Error("error state was not rendered")
	}
}

func TestReadyToReady(t *testing.T) {
	fl := &fakeLoader{}
	sink := &recordingSink{}
	s := newShell(fl, sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = s.Start(ctx)

	fl.deliver(store.Loaded(nil))
	waitReady(t, s)
	fl.deliver(store.Loaded([]catalog.Entry{testutil.Alpha(), testutil.Beta()}))

	deadline := time.Now().Add(5 * time.Second)
	for len(s.State().Entries) != 2 {
		if time.Now().After(deadline) {
			t.Fatal("second event not applied")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if s.Phase() != Ready {
		t.Errorf("phase = %s, want ready", s.Phase())
	}
}

func TestEventsProcessedInOrder(t *testing.T) {
	fl := &fakeLoader{}
	sink := &recordingSink{}
	s := newShell(fl, sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = s.Start(ctx)

	for i := 0; i < 10; i++ {
		s.Dispatch(store.LoadStarted{})
	}
	fl.deliver(store.Loaded(nil))
	waitReady(t, s)

	if got := s.State().LoadRequests; got != 11 {
		t.Errorf("LoadRequests = %d, want 11", got)
	}
	// One render on start plus one per event.
	if got := sink.count(); got != 12 {
		t.Errorf("renders = %d, want 12", got)
	}
}

func TestRenderErrorIsNotFatal(t *testing.T) {
	fl := &fakeLoader{}
	sink := &recordingSink{err: errors.New("disk full")}
	s := newShell(fl, sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = s.Start(ctx)

	fl.deliver(store.Loaded([]catalog.Entry{testutil.Alpha()}))
	waitReady(t, s)
	if s.State().Status != store.StatusLoaded {
		t.Error("state not applied after render failure")
	}
}

func TestWaitAfterStop(t *testing.T) {
	fl := &fakeLoader{}
	s := newShell(fl, &recordingSink{})
	ctx, cancel := context.WithCancel(context.Background())
	_ = s.Start(ctx)
	cancel()
	<-s.Done()

	if err := s.Wait(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("Wait err = %v, want ErrStopped", err)
	}
	// Dispatch after stop must not block.
	fl.deliver(store.Loaded(nil))
}

func TestEndToEndWithLoader(t *testing.T) {
	srv := testutil.ServeAsset(t, http.StatusOK, testutil.Catalog(t, testutil.Alpha(), testutil.Beta()))
	l, err := loader.New(srv.URL, "", loader.WithLogger(testutil.Logger()))
	if err != nil {
		t.Fatal(err)
	}
	sink := &recordingSink{}
	s := newShell(l, sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitReady(t, s)

	if srv.Hits() != 1 {
		t.Errorf("asset hits = %d, want 1", srv.Hits())
	}
	cards := sink.last().FindAll(dom.ByClass("wrapper"))
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(cards))
	}
	if cards[0].Find(dom.ByClass("title")).TextContent() != "Alpha" ||
		cards[1].Find(dom.ByClass("title")).TextContent() != "Beta" {
		t.Error("cards out of order")
	}
}

func TestEndToEndTransportFailure(t *testing.T) {
	srv := testutil.ServeAsset(t, http.StatusOK, nil)
	base := srv.URL
	srv.Close()

	l, err := loader.New(base, "", loader.WithLogger(testutil.Logger()))
	if err != nil {
		t.Fatal(err)
	}
	sink := &recordingSink{}
	s := newShell(l, sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = s.Start(ctx)
	waitReady(t, s)

	st := s.State()
	if st.Status != store.StatusFailed || len(st.Entries) != 0 {
		t.Fatalf("state = %+v", st)
	}
	if sink.last().Find(dom.ByClass("error")) == nil {
		t.Error("failure not rendered")
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{Uninitialized: "uninitialized", Loading: "loading", Ready: "ready", Phase(9): "phase(9)"} {
		if p.String() != want {
			t.Errorf("%d.String() = %q", p, p.String())
		}
	}
}
