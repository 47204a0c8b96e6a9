// Package handlers provides HTTP request handlers for the ispbmap API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/openispb/ispbmap/pkg/catalogs"
)

// Handlers provides access to all HTTP handlers. Every handler reads from
// the currently published snapshot and never triggers a refresh.
type Handlers struct {
	catalog   catalogs.Catalog
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(catalog catalogs.Catalog, logger *zerolog.Logger, startTime time.Time) *Handlers {
	return &Handlers{
		catalog:   catalog,
		logger:    logger,
		startTime: startTime,
	}
}
