// Package reconcile implements the reconciliation engine: it merges the
// normalized record sequences from the PIX and STR registries into one
// canonical, deduplicated, deterministically ordered catalog snapshot.
//
// Conflicts are resolved declaratively. Scalar descriptive fields follow a
// per-field source-priority table (see Authority); participation flags are
// unioned; PIX-only fields come from the PIX record when present. Output is
// sorted by identifier ascending so successive snapshots diff cleanly and
// tests can assert exact ordering.
package reconcile

import (
	"sort"
	"time"

	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/sources"
)

// Input is one registry's contribution to a refresh cycle: its normalized
// records and the normalization report. A registry that failed upstream
// contributes an Input with zero records so its rejection counts still reach
// the snapshot metadata.
type Input struct {
	Source  sources.ID
	Records []sources.NormalizedRecord
	Report  sources.Report
}

// Reconciler merges registry inputs into catalog snapshots.
type Reconciler struct {
	merger *Merger
	now    func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler) error

// WithAuthorities replaces the scalar-field rule table.
func WithAuthorities(authorities []Authority) Option {
	return func(r *Reconciler) error {
		if len(authorities) == 0 {
			return &errors.ValidationError{Field: "authorities", Message: "rule table cannot be empty"}
		}
		r.merger = NewMerger(authorities)
		return nil
	}
}

// WithClock replaces the timestamp source, used by tests that assert
// byte-identical snapshots.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "clock cannot be nil"}
		}
		r.now = now
		return nil
	}
}

// New creates a Reconciler with options.
func New(opts ...Option) (*Reconciler, error) {
	r := &Reconciler{
		merger: NewMerger(DefaultAuthorities()),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Reconcile merges the registry inputs into one snapshot.
//
// The engine never fails on a per-record basis; malformed records were
// already filtered by the normalizers. It fails when an input names a
// registry that is not declared, and when every registry contributed zero
// records, in which case the caller must keep the previous snapshot
// published.
func (r *Reconciler) Reconcile(inputs []Input) (*catalogs.Snapshot, error) {
	for _, input := range inputs {
		if !input.Source.IsValid() {
			return nil, &errors.ValidationError{
				Field:   "source",
				Value:   input.Source.String(),
				Message: "unknown registry",
			}
		}
	}

	groups := make(map[string]map[sources.ID]sources.NormalizedRecord)
	for _, input := range inputs {
		for _, record := range input.Records {
			group, exists := groups[record.ISPB]
			if !exists {
				group = make(map[sources.ID]sources.NormalizedRecord, len(inputs))
				groups[record.ISPB] = group
			}
			group[input.Source] = record
		}
	}

	if len(groups) == 0 {
		names := make([]string, 0, len(inputs))
		for _, input := range inputs {
			names = append(names, input.Source.String())
		}
		return nil, &errors.EmptyCatalogError{Sources: names}
	}

	participants := make([]catalogs.Participant, 0, len(groups))
	for ispb, group := range groups {
		participants = append(participants, r.merger.Merge(ispb, group))
	}

	sort.Slice(participants, func(i, j int) bool {
		return participants[i].ISPB < participants[j].ISPB
	})

	meta := catalogs.Metadata{
		GeneratedAt: r.now().UTC(),
		PerSource:   make(map[string]int, len(inputs)),
		Rejected:    make(map[string]int, len(inputs)),
		Duplicates:  make(map[string]int, len(inputs)),
	}
	for _, input := range inputs {
		name := input.Source.String()
		meta.PerSource[name] = input.Report.Accepted
		meta.Rejected[name] = input.Report.Rejected
		meta.Duplicates[name] = input.Report.Duplicates
	}

	return catalogs.NewSnapshot(participants, meta), nil
}
