package ispbmap

import (
	"time"

	"github.com/openispb/ispbmap/internal/catalogs/files"
	"github.com/openispb/ispbmap/internal/sources/bcb"
	"github.com/openispb/ispbmap/pkg/errors"
)

// Option configures the catalog service.
type Option func(*ispbmap) error

// WithDataDir enables snapshot persistence under dir. Snapshots are written
// there after each successful refresh and reloaded on startup.
func WithDataDir(dir string) Option {
	return func(im *ispbmap) error {
		if dir == "" {
			return &errors.ValidationError{Field: "data_dir", Message: "directory cannot be empty"}
		}
		im.store = files.NewStore(dir)
		return nil
	}
}

// WithFetcher replaces the registry fetcher. Tests use this to feed canned
// registry payloads.
func WithFetcher(fetcher Fetcher) Option {
	return func(im *ispbmap) error {
		if fetcher == nil {
			return &errors.ValidationError{Field: "fetcher", Message: "fetcher cannot be nil"}
		}
		im.fetcher = fetcher
		return nil
	}
}

// WithRefreshInterval sets the period between automatic refreshes.
func WithRefreshInterval(interval time.Duration) Option {
	return func(im *ispbmap) error {
		if interval <= 0 {
			return &errors.ValidationError{Field: "refresh_interval", Message: "interval must be positive"}
		}
		im.refreshInterval = interval
		return nil
	}
}

// WithSourceURLs overrides the registry endpoints on the default BCB client.
// Empty values keep the published defaults. It has no effect when a custom
// fetcher is also supplied.
func WithSourceURLs(pixURLTemplate, strURL string) Option {
	return func(im *ispbmap) error {
		client, ok := im.fetcher.(*bcb.Client)
		if !ok {
			return nil
		}
		if pixURLTemplate != "" {
			client.PIXURLTemplate = pixURLTemplate
		}
		if strURL != "" {
			client.STRURL = strURL
		}
		return nil
	}
}
