package ispbmap

import (
	"context"
	"time"

	"github.com/openispb/ispbmap/pkg/constants"
	"github.com/openispb/ispbmap/pkg/logging"
)

// AutoRefreshOn starts a background loop that refreshes the catalog every
// refresh interval. Calling it while the loop is already running is a no-op.
func (im *ispbmap) AutoRefreshOn() error {
	im.autoMu.Lock()
	defer im.autoMu.Unlock()

	if im.stopCh != nil {
		return nil
	}

	im.stopCh = make(chan struct{})
	im.doneCh = make(chan struct{})

	go im.autoRefreshLoop(im.stopCh, im.doneCh)

	logging.Info().
		Dur("interval", im.refreshInterval).
		Msg("Automatic catalog refresh enabled")
	return nil
}

// AutoRefreshOff stops the background refresh loop and waits for it to
// finish. Calling it while the loop is not running is a no-op.
func (im *ispbmap) AutoRefreshOff() error {
	im.autoMu.Lock()
	defer im.autoMu.Unlock()

	if im.stopCh == nil {
		return nil
	}

	close(im.stopCh)
	<-im.doneCh
	im.stopCh = nil
	im.doneCh = nil

	logging.Info().Msg("Automatic catalog refresh disabled")
	return nil
}

func (im *ispbmap) autoRefreshLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(im.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), constants.RefreshContextTimeout)
			if err := im.Refresh(ctx); err != nil {
				logging.Error().Err(err).Msg("Scheduled catalog refresh failed")
			}
			cancel()
		}
	}
}
