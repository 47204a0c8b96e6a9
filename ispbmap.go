// Package ispbmap builds and serves a canonical catalog of Brazilian
// financial institutions keyed by ISPB, the 8-digit identifier the Banco
// Central do Brasil assigns to payment system participants.
//
// The catalog is assembled from two public BCB registries, the PIX
// participant list and the STR participant list, normalized per source,
// reconciled into one record per institution, and published as an immutable
// snapshot. Lookups always hit the current snapshot; refreshes build a new
// one off to the side and swap it in atomically.
package ispbmap

import (
	"context"
	"sync"
	"time"

	"github.com/openispb/ispbmap/internal/catalogs/files"
	"github.com/openispb/ispbmap/internal/sources/bcb"
	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/constants"
	"github.com/openispb/ispbmap/pkg/logging"
	"github.com/openispb/ispbmap/pkg/reconcile"
	"github.com/openispb/ispbmap/pkg/sources"
)

// Fetcher retrieves raw registry records. The production implementation is
// the BCB HTTP client; tests substitute stubs.
type Fetcher interface {
	FetchPIX(ctx context.Context) ([]sources.RawRecord, error)
	FetchSTR(ctx context.Context) ([]sources.RawRecord, error)
}

// Ispbmap is the top-level catalog service.
type Ispbmap interface {
	// Catalog returns the catalog serving the current snapshot.
	Catalog() catalogs.Catalog

	// Refresh fetches both registries, reconciles them, persists the
	// result, and publishes the new snapshot. Concurrent calls are
	// serialized; each caller gets a full cycle.
	Refresh(ctx context.Context) error

	// AutoRefreshOn starts periodic background refreshes.
	AutoRefreshOn() error

	// AutoRefreshOff stops periodic background refreshes.
	AutoRefreshOff() error
}

type ispbmap struct {
	catalog     catalogs.Catalog
	fetcher     Fetcher
	normalizers []sources.Normalizer
	reconciler  *reconcile.Reconciler
	store       *files.Store

	refreshMu sync.Mutex

	refreshInterval time.Duration
	autoMu          sync.Mutex
	stopCh          chan struct{}
	doneCh          chan struct{}
}

// New creates a catalog service. If a data directory is configured and
// holds a previously persisted snapshot, it is loaded and published so
// lookups work before the first refresh.
func New(opts ...Option) (Ispbmap, error) {
	reconciler, err := reconcile.New()
	if err != nil {
		return nil, err
	}

	im := &ispbmap{
		catalog: catalogs.New(),
		fetcher: bcb.NewClient(),
		normalizers: []sources.Normalizer{
			sources.NewPIXNormalizer(),
			sources.NewSTRNormalizer(),
		},
		reconciler:      reconciler,
		refreshInterval: constants.DefaultRefreshInterval,
	}

	for _, opt := range opts {
		if err := opt(im); err != nil {
			return nil, err
		}
	}

	if im.store != nil && im.store.Exists() {
		snapshot, err := im.store.Load()
		if err != nil {
			logging.Warn().Err(err).
				Str("dir", im.store.Dir()).
				Msg("Failed to load persisted catalog, starting empty")
		} else {
			im.catalog.Publish(snapshot)
			logging.Info().
				Int("participants", snapshot.Len()).
				Time("generated_at", snapshot.Metadata().GeneratedAt).
				Msg("Loaded persisted catalog")
		}
	}

	return im, nil
}

// Catalog returns the catalog serving the current snapshot.
func (im *ispbmap) Catalog() catalogs.Catalog {
	return im.catalog
}
