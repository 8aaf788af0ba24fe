// Package testutil provides shared test helpers for catalog fixtures and
// asset servers.
package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/starford/modcatalog/internal/catalog"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Alpha and Beta are the two-entry catalog used across end-to-end tests.
func Alpha() catalog.Entry {
	return catalog.Entry{
		Name:            "Alpha",
		Stars:           5,
		UpdatedAtMillis: 1_580_000_000_123,
		Description:     "First mod",
		Link:            "https://github.com/u/alpha",
		Repo:            "u/alpha",
		LastCommitAgo:   "2 days",
	}
}

func Beta() catalog.Entry {
	return catalog.Entry{
		Name:            "Beta",
		Stars:           0,
		UpdatedAtMillis: 1_570_000_000_000,
		Description:     "Second mod",
		Link:            "https://github.com/u/beta",
		Repo:            "u/beta",
		Wiki:            Ptr("https://wiki"),
		LastCommitAgo:   "1 month",
		IconPath:        Ptr("icon.png"),
	}
}

// Catalog marshals entries into an asset body.
func Catalog(t *testing.T, entries ...catalog.Entry) []byte {
	t.Helper()
	if entries == nil {
		entries = []catalog.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// AssetServer serves body at every path with the given status and counts
// requests. It is closed on test cleanup.
type AssetServer struct {
	*httptest.Server
	hits atomic.Int64
}

// Hits returns how many requests were served.
func (s *AssetServer) Hits() int64 {
	return s.hits.Load()
}

// ServeAsset starts an AssetServer.
func ServeAsset(t *testing.T, status int, body []byte) *AssetServer {
	t.Helper()
	s := &AssetServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
