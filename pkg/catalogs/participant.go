// Package catalogs defines the canonical catalog types for the ispbmap system:
// the merged participant record, the immutable catalog snapshot, and the
// catalog interface served to readers.
//
// A Participant is the single, deduplicated representation of one financial
// institution after reconciling the PIX and STR registries by ISPB. Snapshots
// are built once per refresh cycle and replaced wholesale; they are never
// mutated in place, which is what lets the lookup surface serve them without
// locks.
package catalogs

// TriState represents a boolean-like value whose source may not assert it
// either way. Unrecognized source encodings map to TriStateUnknown, never to a
// guessed value.
type TriState string

// TriState values.
const (
	TriStateYes     TriState = "yes"
	TriStateNo      TriState = "no"
	TriStateUnknown TriState = "unknown"
)

// String returns the string representation of a TriState.
func (t TriState) String() string {
	return string(t)
}

// Known reports whether the value was asserted by a source.
func (t TriState) Known() bool {
	return t == TriStateYes || t == TriStateNo
}

// SystemFlags records which national payment systems an institution
// participates in. A flag is true only when the originating registry
// explicitly asserts it; a registry never asserts negative participation in a
// system it does not describe.
type SystemFlags struct {
	PIX   bool `json:"pix" yaml:"pix"`
	STR   bool `json:"str" yaml:"str"`
	COMPE bool `json:"compe" yaml:"compe"`
}

// Union returns the flag-wise union of two flag sets.
func (f SystemFlags) Union(other SystemFlags) SystemFlags {
	return SystemFlags{
		PIX:   f.PIX || other.PIX,
		STR:   f.STR || other.STR,
		COMPE: f.COMPE || other.COMPE,
	}
}

// PixDetail carries the fields only the PIX registry publishes.
type PixDetail struct {
	// Modality is the PIX participation modality (direct, indirect, ...).
	Modality string `json:"modality,omitempty" yaml:"modality,omitempty"`

	// PaymentInitiation indicates whether the institution may initiate
	// payment transactions on behalf of users.
	PaymentInitiation TriState `json:"payment_initiation,omitempty" yaml:"payment_initiation,omitempty"`

	// CashWithdrawal indicates whether the institution is a cash-withdrawal
	// and change facilitator (FSS).
	CashWithdrawal TriState `json:"cash_withdrawal,omitempty" yaml:"cash_withdrawal,omitempty"`
}

// Origin values record which registries contributed to a Participant.
const (
	OriginPIX  = "PIX"
	OriginSTR  = "STR"
	OriginBoth = "PIX+STR"
)

// Participant is the canonical merged record for one institution, keyed by
// ISPB. It is immutable once its snapshot is published.
type Participant struct {
	// ISPB is the 8-digit payment-system identifier, zero-padded.
	ISPB string `json:"ispb" yaml:"ispb"`

	// FullName is the institution's full legal name, when a registry supplies one.
	FullName string `json:"full_name,omitempty" yaml:"full_name,omitempty"`

	// ShortName is the reduced trading name.
	ShortName string `json:"short_name,omitempty" yaml:"short_name,omitempty"`

	// TaxID is the CNPJ, digits only.
	TaxID string `json:"tax_id,omitempty" yaml:"tax_id,omitempty"`

	// Type is the institution type category, free-form.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Authorized indicates BCB authorization.
	Authorized TriState `json:"authorized" yaml:"authorized"`

	// Status is the operational status in production.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// StartDate is the ISO date operations began, when known.
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"`

	// Flags is the union of participation flags asserted by the
	// contributing registries.
	Flags SystemFlags `json:"flags" yaml:"flags"`

	// Pix carries PIX-only fields; nil when no PIX record contributed.
	Pix *PixDetail `json:"pix,omitempty" yaml:"pix,omitempty"`

	// Origin records which registries contributed: "PIX", "STR" or "PIX+STR".
	Origin string `json:"origin" yaml:"origin"`
}
