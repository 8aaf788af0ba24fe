package internal

import "log/slog"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	logger     *slog.Logger
	outputFile string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger overrides the JSON stdout logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithOutputFile makes the preview server also write every render to path.
func WithOutputFile(path string) Option {
	return func(a *application) {
		a.outputFile = path
	}
}
