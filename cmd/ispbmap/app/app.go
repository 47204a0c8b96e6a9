// Package app provides the application context and dependency wiring for
// the ispbmap CLI. It centralizes configuration, logging, and the catalog
// service instance.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/openispb/ispbmap"
	"github.com/openispb/ispbmap/pkg/catalogs"
)

// App represents the ispbmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	// Catalog service, lazily initialized singleton.
	mu      sync.RWMutex
	service ispbmap.Ispbmap
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Service returns the catalog service, creating it lazily if needed.
func (a *App) Service() (ispbmap.Ispbmap, error) {
	a.mu.RLock()
	if a.service != nil {
		svc := a.service
		a.mu.RUnlock()
		return svc, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.service != nil {
		return a.service, nil
	}

	svc, err := ispbmap.New(a.serviceOptions()...)
	if err != nil {
		return nil, err
	}

	a.service = svc
	return svc, nil
}

// Catalog returns the current catalog from the service.
func (a *App) Catalog() (catalogs.Catalog, error) {
	svc, err := a.Service()
	if err != nil {
		return nil, err
	}
	return svc.Catalog(), nil
}

// Shutdown stops background work before the process exits.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.RLock()
	svc := a.service
	a.mu.RUnlock()

	if svc != nil {
		if err := svc.AutoRefreshOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop auto-refresh during shutdown")
		}
	}

	return nil
}

// serviceOptions constructs catalog service options from the configuration.
func (a *App) serviceOptions() []ispbmap.Option {
	var opts []ispbmap.Option

	if a.config.DataDir != "" {
		opts = append(opts, ispbmap.WithDataDir(a.config.DataDir))
	}
	if a.config.RefreshInterval > 0 {
		opts = append(opts, ispbmap.WithRefreshInterval(a.config.RefreshInterval))
	}
	if a.config.PIXURLTemplate != "" || a.config.STRURL != "" {
		opts = append(opts, ispbmap.WithSourceURLs(a.config.PIXURLTemplate, a.config.STRURL))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithService sets a custom catalog service, useful for testing.
func WithService(svc ispbmap.Ispbmap) Option {
	return func(a *App) error {
		a.service = svc
		return nil
	}
}
