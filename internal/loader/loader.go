// Package loader fetches the catalog asset and reports the outcome as a
// store event.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/starford/modcatalog/internal/apperr"
	"github.com/starford/modcatalog/internal/catalog"
	"github.com/starford/modcatalog/internal/store"
)

// DefaultAssetPath is the versioned catalog asset.
const DefaultAssetPath = "data/modmeta.1.0.json"

// Loader issues catalog requests.
type Loader struct {
	client  *resty.Client
	timeout time.Duration
	url     string
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithClient replaces the HTTP client.
func WithClient(c *resty.Client) Option {
	return func(l *Loader) {
		l.client = c
	}
}

// WithTimeout bounds each request. It applies to the final client
// regardless of option order; zero leaves the client's timeout alone.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader for assetPath resolved against baseURL.
func New(baseURL, assetPath string, opts ...Option) (*Loader, error) {
	u, err := AssetURL(baseURL, assetPath)
	if err != nil {
		return nil, err
	}
	l := &Loader{
		client: resty.New(),
		url:    u,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.timeout > 0 {
		l.client.SetTimeout(l.timeout)
	}
	return l, nil
}

// AssetURL joins base and asset path. An empty asset path selects
// DefaultAssetPath.
func AssetURL(baseURL, assetPath string) (string, error) {
	if assetPath == "" {
		assetPath = DefaultAssetPath
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("loader: parse base url: %w", err)
	}
	ref, err := url.Parse(strings.TrimLeft(assetPath, "/"))
	if err != nil {
		return "", fmt.Errorf("loader: parse asset path: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// URL returns the resolved asset URL.
func (l *Loader) URL() string {
	return l.url
}

// Load performs one request. Every outcome, including transport and decode
// failures, is returned as a CatalogLoaded event.
func (l *Loader) Load(ctx context.Context) store.CatalogLoaded {
	start := time.Now()
	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(l.url)
	if err != nil {
		l.logger.Warn("catalog request failed",
			slog.String("url", l.url),
			slog.String("error", err.Error()))
		return store.LoadFailed(fmt.Errorf("%w: %v", apperr.ErrTransport, err))
	}
	if !resp.IsSuccess() {
		l.logger.Warn("catalog request rejected",
			slog.String("url", l.url),
			slog.Int("status", resp.StatusCode()))
		return store.LoadFailed(fmt.Errorf("%w: unexpected status %s", apperr.ErrTransport, resp.Status()))
	}

	entries, err := catalog.Decode(resp.Body())
	if err != nil {
		l.logger.Warn("catalog decode failed",
			slog.String("url", l.url),
			slog.String("error", err.Error()))
		return store.LoadFailed(err)
	}

	l.logger.Info("catalog loaded",
		slog.String("url", l.url),
		slog.Int("entries", len(entries)),
		slog.Duration("elapsed", time.Since(start)))
	return store.Loaded(entries)
}

// Start runs Load in the background and hands the event to dispatch. It
// returns immediately.
func (l *Loader) Start(ctx context.Context, dispatch func(store.Event)) {
	go func() {
		dispatch(l.Load(ctx))
	}()
}
