package reconcile

import (
	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/sources"
)

// Merger merges the records one identifier collected across registries into a
// single canonical participant, using the authority table for scalar fields.
type Merger struct {
	authorities []Authority
}

// NewMerger creates a Merger with the given rule table.
func NewMerger(authorities []Authority) *Merger {
	return &Merger{authorities: authorities}
}

// Merge builds the canonical participant for one identifier group. The group
// holds at most one record per registry. Scalar fields follow the authority
// table; participation flags are unioned across registries; the PIX-only
// detail is adopted from the PIX record when one contributed.
func (m *Merger) Merge(ispb string, group map[sources.ID]sources.NormalizedRecord) catalogs.Participant {
	merged := catalogs.Participant{
		ISPB:       ispb,
		Authorized: catalogs.TriStateUnknown,
	}

	for _, rule := range m.authorities {
		for _, id := range rule.Order {
			record, exists := group[id]
			if !exists {
				continue
			}
			if value := rule.Get(record); value != "" {
				rule.Set(&merged, value)
				break
			}
		}
	}

	for _, record := range group {
		merged.Flags = merged.Flags.Union(record.Flags)
		if record.Pix != nil {
			detail := *record.Pix
			merged.Pix = &detail
		}
	}

	merged.Origin = origin(group)
	return merged
}

// origin renders which registries contributed to a group.
func origin(group map[sources.ID]sources.NormalizedRecord) string {
	_, pix := group[sources.PIX]
	_, str := group[sources.STR]
	switch {
	case pix && str:
		return catalogs.OriginBoth
	case pix:
		return catalogs.OriginPIX
	default:
		return catalogs.OriginSTR
	}
}
