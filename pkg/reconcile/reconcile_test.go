package reconcile

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/sources"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newReconciler(t *testing.T) *Reconciler {
	t.Helper()
	r, err := New(WithClock(fixedClock))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestReconcileMergesAcrossRegistries(t *testing.T) {
	r := newReconciler(t)

	inputs := []Input{
		{
			Source: sources.PIX,
			Records: []sources.NormalizedRecord{
				{
					ISPB:       "00000208",
					FullName:   "BRB - BCO DE BRASILIA",
					ShortName:  "BRB - BCO DE BRASILIA",
					Type:       "Banco Múltiplo",
					Authorized: catalogs.TriStateYes,
					Flags:      catalogs.SystemFlags{PIX: true},
					Pix:        &catalogs.PixDetail{Modality: "Participante direto"},
					Source:     sources.PIX,
				},
			},
			Report: sources.Report{Accepted: 1},
		},
		{
			Source: sources.STR,
			Records: []sources.NormalizedRecord{
				{
					ISPB:      "00000208",
					FullName:  "Banco de Brasília S.A.",
					ShortName: "BRB",
					TaxID:     "00000208000100",
					StartDate: "2002-04-22",
					Flags:     catalogs.SystemFlags{STR: true, COMPE: true},
					Source:    sources.STR,
				},
			},
			Report: sources.Report{Accepted: 1},
		},
	}

	snapshot, err := r.Reconcile(inputs)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if snapshot.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", snapshot.Len())
	}

	p, ok := snapshot.ByISPB("00000208")
	if !ok {
		t.Fatal("ByISPB(00000208) not found")
	}

	// PIX wins descriptive fields it supplies.
	if p.FullName != "BRB - BCO DE BRASILIA" {
		t.Errorf("FullName = %q, want the PIX value", p.FullName)
	}
	// STR fills the gaps PIX left.
	if p.TaxID != "00000208000100" {
		t.Errorf("TaxID = %q, want the STR value", p.TaxID)
	}
	if p.StartDate != "2002-04-22" {
		t.Errorf("StartDate = %q, want the STR value", p.StartDate)
	}
	// Flags are unioned, never overridden.
	want := catalogs.SystemFlags{PIX: true, STR: true, COMPE: true}
	if p.Flags != want {
		t.Errorf("Flags = %+v, want %+v", p.Flags, want)
	}
	if p.Pix == nil || p.Pix.Modality != "Participante direto" {
		t.Errorf("Pix = %+v, want the PIX detail", p.Pix)
	}
	if p.Origin != catalogs.OriginBoth {
		t.Errorf("Origin = %q, want %q", p.Origin, catalogs.OriginBoth)
	}
	if p.Authorized != catalogs.TriStateYes {
		t.Errorf("Authorized = %v, want yes", p.Authorized)
	}
}

func TestReconcileSingleRegistryOrigins(t *testing.T) {
	r := newReconciler(t)

	inputs := []Input{
		{
			Source: sources.PIX,
			Records: []sources.NormalizedRecord{
				{ISPB: "00000001", ShortName: "PIX ONLY", Flags: catalogs.SystemFlags{PIX: true}, Source: sources.PIX},
			},
		},
		{
			Source: sources.STR,
			Records: []sources.NormalizedRecord{
				{ISPB: "00000002", FullName: "STR ONLY", Flags: catalogs.SystemFlags{STR: true}, Source: sources.STR},
			},
		},
	}

	snapshot, err := r.Reconcile(inputs)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	pixOnly, _ := snapshot.ByISPB("00000001")
	if pixOnly.Origin != catalogs.OriginPIX {
		t.Errorf("pix-only Origin = %q, want %q", pixOnly.Origin, catalogs.OriginPIX)
	}
	strOnly, _ := snapshot.ByISPB("00000002")
	if strOnly.Origin != catalogs.OriginSTR {
		t.Errorf("str-only Origin = %q, want %q", strOnly.Origin, catalogs.OriginSTR)
	}
	if strOnly.Authorized != catalogs.TriStateUnknown {
		t.Errorf("str-only Authorized = %v, want unknown", strOnly.Authorized)
	}
}

func TestReconcileOrdersByISPB(t *testing.T) {
	r := newReconciler(t)

	inputs := []Input{
		{
			Source: sources.PIX,
			Records: []sources.NormalizedRecord{
				{ISPB: "90000000", ShortName: "LAST", Source: sources.PIX},
				{ISPB: "00000001", ShortName: "FIRST", Source: sources.PIX},
				{ISPB: "10000000", ShortName: "MIDDLE", Source: sources.PIX},
			},
		},
	}

	snapshot, err := r.Reconcile(inputs)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	list := snapshot.List()
	wantOrder := []string{"00000001", "10000000", "90000000"}
	for i, want := range wantOrder {
		if list[i].ISPB != want {
			t.Errorf("list[%d].ISPB = %q, want %q", i, list[i].ISPB, want)
		}
	}
}

func TestReconcileDeterministic(t *testing.T) {
	inputs := []Input{
		{
			Source: sources.PIX,
			Records: []sources.NormalizedRecord{
				{ISPB: "00000003", ShortName: "C", Source: sources.PIX},
				{ISPB: "00000001", ShortName: "A", Source: sources.PIX},
			},
			Report: sources.Report{Accepted: 2},
		},
		{
			Source: sources.STR,
			Records: []sources.NormalizedRecord{
				{ISPB: "00000002", FullName: "B", Source: sources.STR},
				{ISPB: "00000001", FullName: "A full", Source: sources.STR},
			},
			Report: sources.Report{Accepted: 2},
		},
	}

	var outputs [][]byte
	for i := 0; i < 3; i++ {
		r := newReconciler(t)
		snapshot, err := r.Reconcile(inputs)
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		data, err := json.Marshal(snapshot.List())
		if err != nil {
			t.Fatalf("marshal error = %v", err)
		}
		outputs = append(outputs, data)
	}

	for i := 1; i < len(outputs); i++ {
		if !bytes.Equal(outputs[0], outputs[i]) {
			t.Fatalf("run %d produced different bytes than run 0", i)
		}
	}
}

func TestReconcileEmptyInputsFails(t *testing.T) {
	r := newReconciler(t)

	_, err := r.Reconcile([]Input{
		{Source: sources.PIX},
		{Source: sources.STR},
	})
	if err == nil {
		t.Fatal("Reconcile() with no records should fail")
	}
	if !errors.IsEmptyCatalog(err) {
		t.Errorf("error %v should match the empty-catalog sentinel", err)
	}
}

func TestReconcileMetadata(t *testing.T) {
	r := newReconciler(t)

	inputs := []Input{
		{
			Source: sources.PIX,
			Records: []sources.NormalizedRecord{
				{ISPB: "00000001", ShortName: "A", Source: sources.PIX},
			},
			Report: sources.Report{Accepted: 1, Rejected: 2, Duplicates: 1},
		},
		{
			Source: sources.STR,
			Report: sources.Report{},
		},
	}

	snapshot, err := r.Reconcile(inputs)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	meta := snapshot.Metadata()
	if !meta.GeneratedAt.Equal(fixedClock()) {
		t.Errorf("GeneratedAt = %v, want the injected clock value", meta.GeneratedAt)
	}
	if meta.Total != 1 {
		t.Errorf("Total = %d, want 1", meta.Total)
	}
	if meta.PerSource["PIX"] != 1 || meta.Rejected["PIX"] != 2 || meta.Duplicates["PIX"] != 1 {
		t.Errorf("PIX counters = %d/%d/%d, want 1/2/1",
			meta.PerSource["PIX"], meta.Rejected["PIX"], meta.Duplicates["PIX"])
	}
	if meta.PerSource["STR"] != 0 {
		t.Errorf("PerSource[STR] = %d, want 0", meta.PerSource["STR"])
	}
}

// The documented end-to-end case: one institution appears as "001" in PIX and
// "1" in STR; both normalize to 00000001 and the PIX name wins.
func TestReconcilePaddedIdentifiersCollide(t *testing.T) {
	pixNorm := sources.NewPIXNormalizer()
	strNorm := sources.NewSTRNormalizer()

	pixRecords, pixReport, err := pixNorm.Normalize([]sources.RawRecord{
		{sources.PIXColISPB: "001", sources.PIXColShortName: "PIX NAME"},
	})
	if err != nil {
		t.Fatalf("pix normalize error = %v", err)
	}
	strRecords, strReport, err := strNorm.Normalize([]sources.RawRecord{
		{sources.STRColISPB: "1", sources.STRColFullName: "STR FULL NAME"},
	})
	if err != nil {
		t.Fatalf("str normalize error = %v", err)
	}

	r := newReconciler(t)
	snapshot, err := r.Reconcile([]Input{
		{Source: sources.PIX, Records: pixRecords, Report: pixReport},
		{Source: sources.STR, Records: strRecords, Report: strReport},
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if snapshot.Len() != 1 {
		t.Fatalf("Len() = %d, want the two spellings to collide into 1", snapshot.Len())
	}
	p, ok := snapshot.ByISPB("00000001")
	if !ok {
		t.Fatal("ByISPB(00000001) not found")
	}
	if p.FullName != "PIX NAME" {
		t.Errorf("FullName = %q, want the PIX value to win", p.FullName)
	}
	if p.Origin != catalogs.OriginBoth {
		t.Errorf("Origin = %q, want %q", p.Origin, catalogs.OriginBoth)
	}
}

func TestReconcileRejectsUndeclaredRegistry(t *testing.T) {
	r := newReconciler(t)

	_, err := r.Reconcile([]Input{
		{
			Source: sources.ID("SPI"),
			Records: []sources.NormalizedRecord{
				{ISPB: "00000001", ShortName: "A"},
			},
		},
	})
	if err == nil {
		t.Fatal("Reconcile() with an undeclared registry should fail")
	}
}

func TestWithAuthoritiesRejectsEmptyTable(t *testing.T) {
	if _, err := New(WithAuthorities(nil)); err == nil {
		t.Fatal("New(WithAuthorities(nil)) should fail")
	}
}
