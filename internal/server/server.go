// Package server provides the HTTP API server for the participant catalog.
// The server is read-only: it serves whatever snapshot is currently
// published and never mutates the catalog.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/openispb/ispbmap/internal/server/handlers"
	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/constants"
)

// Server is the ispbmap HTTP API server.
type Server struct {
	config    Config
	catalog   catalogs.Catalog
	logger    *zerolog.Logger
	handlers  *handlers.Handlers
	http      *http.Server
	startTime time.Time
}

// New creates a new API server serving the given catalog.
func New(catalog catalogs.Catalog, logger *zerolog.Logger, config Config) *Server {
	startTime := time.Now()

	s := &Server{
		config:    config,
		catalog:   catalog,
		logger:    logger,
		handlers:  handlers.New(catalog, logger, startTime),
		startTime: startTime,
	}

	s.http = &http.Server{
		Addr:         config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Addr()
}

// Run starts the server and blocks until the context is canceled or the
// listener fails. On cancellation the server shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().
			Str("addr", s.config.Addr()).
			Str("prefix", s.config.PathPrefix).
			Msg("Starting HTTP server")

		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	return s.http.Shutdown(ctx)
}
