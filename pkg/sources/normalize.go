package sources

import (
	"strings"
	"time"

	"github.com/openispb/ispbmap/pkg/catalogs"
)

// ispbLength is the fixed width of a payment-system identifier.
const ispbLength = 8

// CleanISPB strips non-digit characters from a raw identifier and left-pads
// the result to 8 digits. It returns false when the cleaned value is empty or
// longer than 8 digits; such records are rejected rather than repaired.
func CleanISPB(raw string) (string, bool) {
	digits := digitsOnly(raw)
	if digits == "" || len(digits) > ispbLength {
		return "", false
	}
	if len(digits) < ispbLength {
		digits = strings.Repeat("0", ispbLength-len(digits)) + digits
	}
	return digits, true
}

// digitsOnly strips everything but ASCII digits.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseTriState maps the boolean encodings the BCB files use ("Sim"/"Não",
// occasionally abbreviated) to a TriState. Anything unrecognized maps to
// unknown; participation is never inferred.
func ParseTriState(raw string) catalogs.TriState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sim", "s", "yes":
		return catalogs.TriStateYes
	case "não", "nao", "n", "no":
		return catalogs.TriStateNo
	default:
		return catalogs.TriStateUnknown
	}
}

// dateLayouts are the formats observed in the BCB files, most common first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02T15:04:05",
}

// ParseDate normalizes a registry date value to an ISO date string. An
// unparseable or empty value yields the empty string.
func ParseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// field returns a trimmed value from a raw record.
func field(r RawRecord, column string) string {
	return strings.TrimSpace(r[column])
}

// requireColumns checks the registry column contract against the record set.
// Headers are uniform across a parsed CSV, so the first record stands for all
// of them. An empty record set has no schema to violate.
func requireColumns(records []RawRecord, required []string) (missing string, ok bool) {
	if len(records) == 0 {
		return "", true
	}
	for _, col := range required {
		if _, present := records[0][col]; !present {
			return col, false
		}
	}
	return "", true
}

// dedupe keeps at most one normalized record per identifier for one registry,
// last record winning, preserving first-seen order. Returns the surviving
// records and how many were superseded.
func dedupe(records []NormalizedRecord) ([]NormalizedRecord, int) {
	index := make(map[string]int, len(records))
	out := records[:0]
	duplicates := 0
	for _, r := range records {
		if i, seen := index[r.ISPB]; seen {
			out[i] = r
			duplicates++
			continue
		}
		index[r.ISPB] = len(out)
		out = append(out, r)
	}
	return out, duplicates
}
