package sources

import (
	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/logging"
)

// Column names of the STR participant CSV. The BCB has shipped the reduced
// name under two spellings over time; both are accepted.
const (
	STRColISPB         = "ISPB"
	STRColFullName     = "Nome"
	STRColShortName    = "Nome_Reduzido"
	STRColShortNameAlt = "NomeReduzido"
	STRColTaxID        = "CNPJ_Principal"
	STRColType         = "TipoInstituicao"
	STRColStatus       = "Situacao"
	STRColStartDate    = "Inicio_Operacao"
	STRColCompe        = "Participa_da_Compe"
)

// STRRequiredColumns is the documented column contract for the STR registry.
var STRRequiredColumns = []string{
	STRColISPB,
	STRColFullName,
}

// STRNormalizer converts raw STR registry rows to normalized records.
type STRNormalizer struct{}

// NewSTRNormalizer creates a normalizer for the STR participant list.
func NewSTRNormalizer() *STRNormalizer {
	return &STRNormalizer{}
}

// ID returns the registry this normalizer serves.
func (n *STRNormalizer) ID() ID {
	return STR
}

// Normalize maps STR rows onto the common record shape. The STR registry
// asserts STR participation for every row and COMPE participation only when
// the file explicitly marks it; it says nothing about BCB authorization, so
// that field stays unknown.
func (n *STRNormalizer) Normalize(records []RawRecord) ([]NormalizedRecord, Report, error) {
	if missing, ok := requireColumns(records, STRRequiredColumns); !ok {
		return nil, Report{}, &errors.SchemaError{Source: STR.String(), Column: missing}
	}

	out := make([]NormalizedRecord, 0, len(records))
	report := Report{}

	for _, r := range records {
		ispb, ok := CleanISPB(field(r, STRColISPB))
		if !ok {
			report.Rejected++
			logging.Debug().
				Str("source", STR.String()).
				Str("ispb", field(r, STRColISPB)).
				Msg("Rejected record with malformed identifier")
			continue
		}

		shortName := field(r, STRColShortName)
		if shortName == "" {
			shortName = field(r, STRColShortNameAlt)
		}

		out = append(out, NormalizedRecord{
			ISPB:       ispb,
			FullName:   field(r, STRColFullName),
			ShortName:  shortName,
			TaxID:      digitsOnly(field(r, STRColTaxID)),
			Type:       field(r, STRColType),
			Authorized: catalogs.TriStateUnknown,
			Status:     field(r, STRColStatus),
			StartDate:  ParseDate(field(r, STRColStartDate)),
			Flags: catalogs.SystemFlags{
				STR:   true,
				COMPE: ParseTriState(field(r, STRColCompe)) == catalogs.TriStateYes,
			},
			Source: STR,
		})
	}

	out, duplicates := dedupe(out)
	report.Duplicates = duplicates
	report.Accepted = len(out)

	return out, report, nil
}
