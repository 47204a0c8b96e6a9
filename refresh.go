package ispbmap

import (
	"context"

	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/logging"
	"github.com/openispb/ispbmap/pkg/reconcile"
	"github.com/openispb/ispbmap/pkg/sources"
)

// Refresh runs one full ingestion cycle: fetch both registries, normalize,
// reconcile, persist, publish. A registry that fails to fetch or whose
// schema no longer matches contributes zero records and the cycle carries
// on with the other one. Only when every registry comes back empty is the
// cycle abandoned, leaving the previous snapshot published.
//
// A storage write failure fails the cycle. The fresh snapshot is still
// published in memory so serving keeps working, but callers see the broken
// store instead of a false success.
func (im *ispbmap) Refresh(ctx context.Context) error {
	im.refreshMu.Lock()
	defer im.refreshMu.Unlock()

	ctx = logging.WithOperation(ctx, "refresh")
	logging.Ctx(ctx).Info().Msg("Starting catalog refresh")

	inputs := make([]reconcile.Input, 0, len(im.normalizers))
	for _, normalizer := range im.normalizers {
		inputs = append(inputs, im.ingest(ctx, normalizer))
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	snapshot, err := im.reconciler.Reconcile(inputs)
	if err != nil {
		if errors.IsEmptyCatalog(err) {
			logging.Ctx(ctx).Error().Err(err).Msg("All registries came back empty, keeping previous snapshot")
		}
		return err
	}

	if im.store != nil {
		if err := im.store.Write(snapshot); err != nil {
			// Publish anyway so lookups get the fresh data; only restart
			// recovery is lost, and the returned error reports that.
			im.catalog.Publish(snapshot)
			logging.Ctx(ctx).Error().Err(err).
				Str("dir", im.store.Dir()).
				Msg("Failed to persist catalog snapshot")
			return err
		}
	}

	im.catalog.Publish(snapshot)

	meta := snapshot.Metadata()
	logging.Ctx(ctx).Info().
		Int("participants", snapshot.Len()).
		Interface("per_source", meta.PerSource).
		Interface("rejected", meta.Rejected).
		Interface("duplicates", meta.Duplicates).
		Msg("Catalog refresh complete")

	return nil
}

// ingest fetches and normalizes one registry. Failures are degraded to an
// empty contribution so the other registry can still produce a catalog.
func (im *ispbmap) ingest(ctx context.Context, normalizer sources.Normalizer) reconcile.Input {
	ctx = logging.WithSource(ctx, normalizer.ID().String())
	input := reconcile.Input{Source: normalizer.ID()}

	raw, err := im.fetch(ctx, normalizer.ID())
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Msg("Registry fetch failed, contributing zero records")
		return input
	}

	records, report, err := normalizer.Normalize(raw)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Msg("Registry normalization failed, contributing zero records")
		return input
	}

	input.Records = records
	input.Report = report
	return input
}

func (im *ispbmap) fetch(ctx context.Context, id sources.ID) ([]sources.RawRecord, error) {
	switch id {
	case sources.PIX:
		return im.fetcher.FetchPIX(ctx)
	case sources.STR:
		return im.fetcher.FetchSTR(ctx)
	default:
		return nil, &errors.ValidationError{Field: "source", Value: id.String(), Message: "unknown registry"}
	}
}
