package reconcile

import (
	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/sources"
)

// Authority is one row of the declarative conflict-resolution table: for a
// single scalar field it names the registries in precedence order and how to
// read and write the field. The merger walks the order and takes the first
// non-empty value, so a higher-precedence registry wins only when it actually
// supplies data and lower-precedence registries fill its gaps.
//
// Adding a registry means adding it to precedence orders here, not touching
// the merge logic.
type Authority struct {
	// Field is the scalar field this rule governs, for logs and tests.
	Field string

	// Order lists registries from most to least authoritative.
	Order []sources.ID

	// Get reads the field from a normalized record; empty string means the
	// registry did not supply a value. TriState fields render unknown as
	// empty so precedence treats an unasserted value as a gap.
	Get func(sources.NormalizedRecord) string

	// Set writes the winning value onto the canonical participant.
	Set func(*catalogs.Participant, string)
}

// pixFirst is the descriptive-field precedence, which is the registry
// declaration order: the PIX list is republished every business day and is
// treated as the higher-fidelity source; the STR list fills gaps.
var pixFirst = sources.IDs()

// DefaultAuthorities returns the scalar-field rule table for the two BCB
// registries.
func DefaultAuthorities() []Authority {
	return []Authority{
		{
			Field: "full_name",
			Order: pixFirst,
			Get:   func(r sources.NormalizedRecord) string { return r.FullName },
			Set:   func(p *catalogs.Participant, v string) { p.FullName = v },
		},
		{
			Field: "short_name",
			Order: pixFirst,
			Get:   func(r sources.NormalizedRecord) string { return r.ShortName },
			Set:   func(p *catalogs.Participant, v string) { p.ShortName = v },
		},
		{
			Field: "tax_id",
			Order: pixFirst,
			Get:   func(r sources.NormalizedRecord) string { return r.TaxID },
			Set:   func(p *catalogs.Participant, v string) { p.TaxID = v },
		},
		{
			Field: "type",
			Order: pixFirst,
			Get:   func(r sources.NormalizedRecord) string { return r.Type },
			Set:   func(p *catalogs.Participant, v string) { p.Type = v },
		},
		{
			Field: "authorized",
			Order: pixFirst,
			Get: func(r sources.NormalizedRecord) string {
				if !r.Authorized.Known() {
					return ""
				}
				return r.Authorized.String()
			},
			Set: func(p *catalogs.Participant, v string) { p.Authorized = catalogs.TriState(v) },
		},
		{
			Field: "status",
			Order: pixFirst,
			Get:   func(r sources.NormalizedRecord) string { return r.Status },
			Set:   func(p *catalogs.Participant, v string) { p.Status = v },
		},
		{
			Field: "start_date",
			Order: pixFirst,
			Get:   func(r sources.NormalizedRecord) string { return r.StartDate },
			Set:   func(p *catalogs.Participant, v string) { p.StartDate = v },
		},
	}
}
