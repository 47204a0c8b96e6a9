package sources

import (
	"testing"

	"github.com/openispb/ispbmap/pkg/catalogs"
)

func TestCleanISPB(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"already canonical", "00000208", "00000208", true},
		{"short value padded", "208", "00000208", true},
		{"single digit padded", "1", "00000001", true},
		{"formatting stripped", "00.000-208", "00000208", true},
		{"surrounding whitespace", "  208  ", "00000208", true},
		{"empty", "", "", false},
		{"no digits at all", "ISPB", "", false},
		{"nine digits rejected", "123456789", "", false},
		{"formatted but too long", "12.345.678-9", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanISPB(tt.input)
			if ok != tt.ok {
				t.Fatalf("CleanISPB(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("CleanISPB(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTriState(t *testing.T) {
	tests := []struct {
		input string
		want  catalogs.TriState
	}{
		{"Sim", catalogs.TriStateYes},
		{"sim", catalogs.TriStateYes},
		{"S", catalogs.TriStateYes},
		{"Não", catalogs.TriStateNo},
		{"Nao", catalogs.TriStateNo},
		{"N", catalogs.TriStateNo},
		{"", catalogs.TriStateUnknown},
		{"talvez", catalogs.TriStateUnknown},
		{"  sim  ", catalogs.TriStateYes},
	}

	for _, tt := range tests {
		if got := ParseTriState(tt.input); got != tt.want {
			t.Errorf("ParseTriState(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2020-11-03", "2020-11-03"},
		{"03/11/2020", "2020-11-03"},
		{"3/1/2021", "2021-01-03"},
		{"2020-11-03T09:30:00", "2020-11-03"},
		{"", ""},
		{"not a date", ""},
	}

	for _, tt := range tests {
		if got := ParseDate(tt.input); got != tt.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDedupeLastWins(t *testing.T) {
	records := []NormalizedRecord{
		{ISPB: "00000001", FullName: "First"},
		{ISPB: "00000002", FullName: "Other"},
		{ISPB: "00000001", FullName: "Second"},
	}

	out, duplicates := dedupe(records)

	if duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", duplicates)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	// Later record wins, first-seen position is kept.
	if out[0].ISPB != "00000001" || out[0].FullName != "Second" {
		t.Errorf("out[0] = %+v, want the later record in first position", out[0])
	}
	if out[1].ISPB != "00000002" {
		t.Errorf("out[1].ISPB = %q, want 00000002", out[1].ISPB)
	}
}
