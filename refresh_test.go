package ispbmap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/sources"
)

// stubFetcher serves canned registry payloads or errors.
type stubFetcher struct {
	pix    []sources.RawRecord
	str    []sources.RawRecord
	pixErr error
	strErr error
}

func (f *stubFetcher) FetchPIX(_ context.Context) ([]sources.RawRecord, error) {
	return f.pix, f.pixErr
}

func (f *stubFetcher) FetchSTR(_ context.Context) ([]sources.RawRecord, error) {
	return f.str, f.strErr
}

func pixRow(ispb, name string) sources.RawRecord {
	return sources.RawRecord{
		sources.PIXColISPB:      ispb,
		sources.PIXColShortName: name,
	}
}

func strRow(ispb, name string) sources.RawRecord {
	return sources.RawRecord{
		sources.STRColISPB:     ispb,
		sources.STRColFullName: name,
	}
}

func TestRefreshPublishesMergedCatalog(t *testing.T) {
	fetcher := &stubFetcher{
		pix: []sources.RawRecord{pixRow("00000208", "BRB")},
		str: []sources.RawRecord{strRow("00000208", "Banco de Brasília S.A."), strRow("00038121", "Banco da Amazônia S.A.")},
	}

	svc, err := New(WithFetcher(fetcher))
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(context.Background()))

	snapshot := svc.Catalog().Snapshot()
	require.Equal(t, 2, snapshot.Len())

	merged, ok := snapshot.ByISPB("00000208")
	require.True(t, ok)
	assert.Equal(t, catalogs.OriginBoth, merged.Origin)
	assert.Equal(t, "BRB", merged.FullName, "PIX name wins when both registries contribute")

	strOnly, ok := snapshot.ByISPB("00038121")
	require.True(t, ok)
	assert.Equal(t, catalogs.OriginSTR, strOnly.Origin)
}

func TestRefreshSurvivesOneRegistryFailing(t *testing.T) {
	fetcher := &stubFetcher{
		pixErr: &errors.APIError{Source: "PIX", Message: "down"},
		str:    []sources.RawRecord{strRow("00000000", "Banco do Brasil S.A.")},
	}

	svc, err := New(WithFetcher(fetcher))
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(context.Background()))

	snapshot := svc.Catalog().Snapshot()
	require.Equal(t, 1, snapshot.Len())

	p, ok := snapshot.ByISPB("00000000")
	require.True(t, ok)
	assert.Equal(t, catalogs.OriginSTR, p.Origin)
	assert.Equal(t, 0, snapshot.Metadata().PerSource["PIX"], "failed registry contributes zero records")
}

func TestRefreshKeepsPreviousSnapshotWhenAllRegistriesFail(t *testing.T) {
	fetcher := &stubFetcher{
		pix: []sources.RawRecord{pixRow("00000208", "BRB")},
		str: []sources.RawRecord{strRow("00000000", "Banco do Brasil S.A.")},
	}

	svc, err := New(WithFetcher(fetcher))
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))
	require.Equal(t, 2, svc.Catalog().Snapshot().Len())

	fetcher.pix, fetcher.str = nil, nil
	fetcher.pixErr = &errors.APIError{Source: "PIX", Message: "down"}
	fetcher.strErr = &errors.APIError{Source: "STR", Message: "down"}

	err = svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsEmptyCatalog(err))

	// The previously published snapshot is still served.
	assert.Equal(t, 2, svc.Catalog().Snapshot().Len())
	_, ok := svc.Catalog().Snapshot().ByISPB("00000208")
	assert.True(t, ok)
}

func TestRefreshPersistsAndReloads(t *testing.T) {
	dir := t.TempDir()

	fetcher := &stubFetcher{
		pix: []sources.RawRecord{pixRow("00000208", "BRB")},
	}

	svc, err := New(WithFetcher(fetcher), WithDataDir(dir))
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))

	// A fresh instance pointed at the same directory starts populated even
	// when the registries are unreachable.
	reloaded, err := New(
		WithFetcher(&stubFetcher{pixErr: &errors.APIError{Source: "PIX", Message: "down"}, strErr: &errors.APIError{Source: "STR", Message: "down"}}),
		WithDataDir(dir),
	)
	require.NoError(t, err)

	snapshot := reloaded.Catalog().Snapshot()
	require.Equal(t, 1, snapshot.Len())
	p, ok := snapshot.ByISPB("00000208")
	require.True(t, ok)
	assert.Equal(t, "BRB", p.ShortName)
}

func TestRefreshStorageFailureIsFatal(t *testing.T) {
	// A regular file where the data directory should be makes every write
	// fail while fetching and reconciliation still succeed.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	fetcher := &stubFetcher{
		pix: []sources.RawRecord{pixRow("00000208", "BRB")},
	}

	svc, err := New(WithFetcher(fetcher), WithDataDir(blocker))
	require.NoError(t, err)

	err = svc.Refresh(context.Background())
	require.Error(t, err, "a storage write failure must fail the cycle")

	// The fresh snapshot is still served in memory; only restart recovery
	// is lost.
	snapshot := svc.Catalog().Snapshot()
	require.Equal(t, 1, snapshot.Len())
	_, ok := snapshot.ByISPB("00000208")
	assert.True(t, ok)
}

func TestNewOptionValidation(t *testing.T) {
	_, err := New(WithFetcher(nil))
	require.Error(t, err)

	_, err = New(WithDataDir(""))
	require.Error(t, err)

	_, err = New(WithRefreshInterval(0))
	require.Error(t, err)
}

func TestAutoRefreshToggleIsIdempotent(t *testing.T) {
	svc, err := New(WithFetcher(&stubFetcher{pix: []sources.RawRecord{pixRow("00000208", "BRB")}}))
	require.NoError(t, err)

	require.NoError(t, svc.AutoRefreshOn())
	require.NoError(t, svc.AutoRefreshOn())
	require.NoError(t, svc.AutoRefreshOff())
	require.NoError(t, svc.AutoRefreshOff())
}
