package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/specialistvlad/playpublisher/internal/credentials"
	"github.com/specialistvlad/playpublisher/internal/metadata"
	"github.com/specialistvlad/playpublisher/internal/playapi"
	"github.com/specialistvlad/playpublisher/internal/publisher"
	"github.com/specialistvlad/playpublisher/internal/release"
)

// Dependencies are the collaborators a run talks to. Tests replace them with
// fakes; DefaultDependencies returns the real ones.
type Dependencies struct {
	ReadMetadata    func(ctx context.Context, path string) (*release.BinaryMetadata, error)
	LoadCredentials func(ctx context.Context, keyPath string) (*http.Client, error)
	NewService      func(ctx context.Context, httpClient *http.Client, appName string) (publisher.Service, error)
	Clock           clockwork.Clock
	NewRunID        func() string
}

// DefaultDependencies wires the APK reader, the service-account loader and
// the Play API client.
func DefaultDependencies() Dependencies {
	return Dependencies{
		ReadMetadata:    metadata.Read,
		LoadCredentials: credentials.Load,
		NewService: func(ctx context.Context, httpClient *http.Client, appName string) (publisher.Service, error) {
			return playapi.New(ctx, httpClient, appName)
		},
		Clock:    clockwork.NewRealClock(),
		NewRunID: uuid.NewString,
	}
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	deps   Dependencies
}

// Option customizes an App.
type Option func(*App)

// WithDependencies replaces the collaborators of the App.
func WithDependencies(deps Dependencies) Option {
	return func(a *App) { a.deps = deps }
}

// NewApp is the constructor for the main application. outW receives the final
// status line and logW the logs.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		config: cfg,
		deps:   DefaultDependencies(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger.Debug("Logger configured successfully.", "level", cfg.LogLevel, "format", cfg.LogFormat)
	return a
}
