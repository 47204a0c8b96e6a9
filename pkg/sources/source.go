// Package sources defines the registry source abstraction for ispbmap: the
// raw record shape produced by the fetch/parse layer, the normalized
// intermediate record shared by all registries, and one normalizer per
// registry that maps its column contract onto that shape.
//
// Each registry publishes a differently structured participant list. The
// normalizers erase those differences; everything downstream of this package
// works on NormalizedRecord only.
package sources

import (
	"slices"

	"github.com/openispb/ispbmap/pkg/catalogs"
)

// ID identifies a registry source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// The registries this catalog reconciles.
const (
	// PIX is the BCB's PIX participant list, republished every business day.
	PIX ID = "PIX"

	// STR is the BCB's STR participant list, published at a fixed URL.
	STR ID = "STR"
)

// IDs returns all registry sources in reconciliation order. Order matters:
// the first source wins scalar-field ties during merging.
func IDs() []ID {
	return []ID{PIX, STR}
}

// IsValid returns true if the ID is one of the defined registries.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// RawRecord is one row of a registry file as parsed by the fetch layer:
// trimmed source column names mapped to raw string values. Raw records are
// never persisted.
type RawRecord map[string]string

// NormalizedRecord is the common intermediate shape, one per accepted raw
// record. The identifier is always exactly 8 ASCII digits after
// normalization; records that cannot satisfy that are dropped and counted,
// never propagated.
type NormalizedRecord struct {
	ISPB       string
	FullName   string
	ShortName  string
	TaxID      string
	Type       string
	Authorized catalogs.TriState
	Status     string
	StartDate  string
	Flags      catalogs.SystemFlags
	Pix        *catalogs.PixDetail
	Source     ID
}

// Report counts what happened to a registry's raw records during
// normalization. Rejected and duplicate records are metrics, not errors.
type Report struct {
	// Accepted is the number of normalized records produced.
	Accepted int

	// Rejected is the number of records dropped for a malformed identifier.
	Rejected int

	// Duplicates is the number of records superseded by a later record with
	// the same identifier in the same file.
	Duplicates int
}

// Normalizer converts one registry's raw records into normalized records.
//
// Normalize fails with a SchemaError only when the raw record set is missing
// a column the registry contract requires, which signals the upstream
// publisher changed its format. Per-record problems never fail the call.
type Normalizer interface {
	ID() ID
	Normalize(records []RawRecord) ([]NormalizedRecord, Report, error)
}
