// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/modcatalog/internal/dom"
	"github.com/starford/modcatalog/internal/format"
	"github.com/starford/modcatalog/internal/loader"
	"github.com/starford/modcatalog/internal/output"
	"github.com/starford/modcatalog/internal/shell"
	"github.com/starford/modcatalog/internal/sse"
	"github.com/starford/modcatalog/internal/store"
	"github.com/starford/modcatalog/internal/view"
	"github.com/starford/modcatalog/internal/web"
)

// ErrCatalogFailed is returned by Render when the page was written with
// the load failure state.
var ErrCatalogFailed = errors.New("catalog failed to load")

const eventsPath = "/api/events"

func setup(opts []Option) (*application, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	slog.SetDefault(app.logger)

	cfg := app.config
	app.logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_base_url", cfg.Catalog.BaseURL),
		slog.String("catalog_asset_path", cfg.Catalog.AssetPath),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return app, nil
}

// newShell builds the loader, store and view deriver around sink.
func (a *application) newShell(sink output.Sink) (*shell.Shell, error) {
	cfg := a.config

	l, err := loader.New(cfg.Catalog.BaseURL, cfg.Catalog.AssetPath,
		loader.WithTimeout(cfg.Catalog.Timeout),
		loader.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("init loader: %w", err)
	}

	st := store.New(store.Initial(time.Now()))

	return shell.New(st, l, newDeriver(cfg), sink, a.logger), nil
}

func newDeriver(cfg *Config) view.Deriver {
	return view.Deriver{
		Title:      cfg.Site.Title,
		Stylesheet: cfg.Site.Stylesheet,
		Format:     format.New(cfg.Site.HomePrefix, cfg.Site.CodeHost, cfg.Site.RawContentHost),
	}
}

func document(cfg *Config) dom.Document {
	return dom.Document{Title: cfg.Site.Title}
}

// Render loads the catalog once, writes the page to out and returns. The
// page is written even when the load fails; ErrCatalogFailed is returned
// in that case.
func Render(ctx context.Context, out string, opts ...Option) error {
	app, err := setup(opts)
	if err != nil {
		return err
	}

	sink, err := output.NewFile(out, document(app.config))
	if err != nil {
		return err
	}

	sh, err := app.newShell(sink)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := sh.Start(ctx); err != nil {
		return fmt.Errorf("start shell: %w", err)
	}
	if err := sh.Wait(ctx); err != nil {
		return fmt.Errorf("wait for catalog: %w", err)
	}

	st := sh.State()
	app.logger.Info("Page written",
		slog.String("path", sink.Path()),
		slog.String("status", string(st.Status)),
		slog.Int("entries", len(st.Entries)))

	if st.Status == store.StatusFailed {
		return fmt.Errorf("%w: %s", ErrCatalogFailed, st.LoadError)
	}
	return nil
}

// Run starts the preview server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	var sh *shell.Shell
	page := output.NewPage(document(cfg),
		output.WithLiveReload(eventsPath),
		output.WithRenderHook(func(rev int64) {
			st := sh.State()
			broker.PublishRender(sse.Render{
				Revision: rev,
				Status:   string(st.Status),
				Entries:  len(st.Entries),
			})
		}))

	var sink output.Sink = page
	if app.outputFile != "" {
		file, err := output.NewFile(app.outputFile, document(cfg))
		if err != nil {
			return err
		}
		sink = output.Multi{page, file}
	}

	sh, err = app.newShell(sink)
	if err != nil {
		return err
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/", web.NewRouter(sh, page, broker, cfg.Site.StaticDir))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if err := sh.Start(gCtx); err != nil {
		return fmt.Errorf("start shell: %w", err)
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		cancel()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	err = g.Wait()
	cancel()
	<-sh.Done()
	if err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
