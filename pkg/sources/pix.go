package sources

import (
	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/logging"
)

// Column names of the PIX participant CSV as published by the BCB. The
// required set is the fixed contract: when one of those headers disappears,
// the upstream format changed and the cycle must not guess.
const (
	PIXColISPB              = "ISPB"
	PIXColShortName         = "Nome Reduzido"
	PIXColTaxID             = "CNPJ"
	PIXColType              = "Tipo de Instituição"
	PIXColAuthorized        = "Autorizada pelo BCB"
	PIXColModality          = "Modalidade de Participação no Pix"
	PIXColStatus            = "Status em produção"
	PIXColStartDate         = "Início da Operação"
	PIXColPaymentInitiation = "Iniciação de Transação de Pagamento"
	PIXColCashWithdrawal    = "Facilitador de serviço de Saque e Troco (FSS)"
)

// PIXRequiredColumns is the documented column contract for the PIX registry.
// The remaining columns are mapped when present and left empty otherwise.
var PIXRequiredColumns = []string{
	PIXColISPB,
	PIXColShortName,
}

// PIXNormalizer converts raw PIX registry rows to normalized records.
type PIXNormalizer struct{}

// NewPIXNormalizer creates a normalizer for the PIX participant list.
func NewPIXNormalizer() *PIXNormalizer {
	return &PIXNormalizer{}
}

// ID returns the registry this normalizer serves.
func (n *PIXNormalizer) ID() ID {
	return PIX
}

// Normalize maps PIX rows onto the common record shape. The PIX registry
// publishes only the reduced name, which therefore feeds both name fields; it
// is the sole supplier of the PIX-only detail fields and asserts only PIX
// participation.
func (n *PIXNormalizer) Normalize(records []RawRecord) ([]NormalizedRecord, Report, error) {
	if missing, ok := requireColumns(records, PIXRequiredColumns); !ok {
		return nil, Report{}, &errors.SchemaError{Source: PIX.String(), Column: missing}
	}

	out := make([]NormalizedRecord, 0, len(records))
	report := Report{}

	for _, r := range records {
		ispb, ok := CleanISPB(field(r, PIXColISPB))
		if !ok {
			report.Rejected++
			logging.Debug().
				Str("source", PIX.String()).
				Str("ispb", field(r, PIXColISPB)).
				Msg("Rejected record with malformed identifier")
			continue
		}

		name := field(r, PIXColShortName)
		out = append(out, NormalizedRecord{
			ISPB:       ispb,
			FullName:   name,
			ShortName:  name,
			TaxID:      digitsOnly(field(r, PIXColTaxID)),
			Type:       field(r, PIXColType),
			Authorized: ParseTriState(field(r, PIXColAuthorized)),
			Status:     field(r, PIXColStatus),
			StartDate:  ParseDate(field(r, PIXColStartDate)),
			Flags:      catalogs.SystemFlags{PIX: true},
			Pix: &catalogs.PixDetail{
				Modality:          field(r, PIXColModality),
				PaymentInitiation: ParseTriState(field(r, PIXColPaymentInitiation)),
				CashWithdrawal:    ParseTriState(field(r, PIXColCashWithdrawal)),
			},
			Source: PIX,
		})
	}

	out, duplicates := dedupe(out)
	report.Duplicates = duplicates
	report.Accepted = len(out)

	return out, report, nil
}
