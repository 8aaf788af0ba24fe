package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/starford/modcatalog/internal/catalog"
	"github.com/starford/modcatalog/internal/testutil"
)

func TestStoreApply(t *testing.T) {
	s := New(Initial(t0))
	if s.Current().Status != StatusPending {
		t.Fatal("new store should hold the initial state")
	}

	s.Apply(LoadStarted{})
	got := s.Apply(Loaded([]catalog.Entry{testutil.Alpha()}))

	cur := s.Current()
	if got.Status != StatusLoaded || cur.Status != StatusLoaded {
		t.Fatalf("status = %s / %s", got.Status, cur.Status)
	}
	if cur.LoadRequests != 1 || len(cur.Entries) != 1 {
		t.Errorf("current = %+v", cur)
	}
}

func TestStoreCurrentIsSnapshot(t *testing.T) {
	s := New(Initial(t0))
	before := s.Current()
	s.Apply(LoadFailed(errors.New("x")))
	if before.Status != StatusPending {
		t.Error("earlier snapshot changed after Apply")
	}
}

func TestStoreCurrentDoesNotExposePublishedEntries(t *testing.T) {
	s := New(Initial(t0))
	applied := s.Apply(Loaded([]catalog.Entry{testutil.Alpha()}))
	applied.Entries[0].Name = "changed by Apply caller"

	cur := s.Current()
	cur.Entries[0].Name = "changed by Current caller"

	if got := s.Current().Entries[0].Name; got != testutil.Alpha().Name {
		t.Errorf("published entry name = %q, want %q", got, testutil.Alpha().Name)
	}
}

// Readers racing writers must only ever see states produced by Update.
func TestStoreConcurrentReaders(t *testing.T) {
	s := New(Initial(t0))
	entries := []catalog.Entry{testutil.Alpha(), testutil.Beta()}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				st := s.Current()
				switch st.Status {
				case StatusLoaded:
					if len(st.Entries) != len(entries) || st.LoadError != "" {
						t.Errorf("torn loaded state %+v", st)
						return
					}
				case StatusFailed:
					if st.LoadError == "" {
						t.Errorf("failed state without error")
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		s.Apply(LoadStarted{})
		s.Apply(Loaded(entries))
		s.Apply(LoadFailed(errors.New("boom")))
	}
	close(stop)
	wg.Wait()

	if got := s.Current().LoadRequests; got != 200 {
		t.Errorf("LoadRequests = %d, want 200", got)
	}
}
