package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/errors"
)

func TestPIXNormalize(t *testing.T) {
	n := NewPIXNormalizer()

	records := []RawRecord{
		{
			PIXColISPB:              "00000208",
			PIXColShortName:         "BRB - BCO DE BRASILIA",
			PIXColTaxID:             "00.000.208/0001-00",
			PIXColType:              "Banco Múltiplo",
			PIXColAuthorized:        "Sim",
			PIXColModality:          "Participante direto",
			PIXColStatus:            "Ativo",
			PIXColStartDate:         "2020-11-03",
			PIXColPaymentInitiation: "Não",
			PIXColCashWithdrawal:    "Sim",
		},
	}

	out, report, err := n.Normalize(records)
	require.NoError(t, err)
	require.Len(t, out, 1)

	r := out[0]
	assert.Equal(t, "00000208", r.ISPB)
	assert.Equal(t, "BRB - BCO DE BRASILIA", r.FullName, "reduced name feeds the full name too")
	assert.Equal(t, "BRB - BCO DE BRASILIA", r.ShortName)
	assert.Equal(t, "00000208000100", r.TaxID, "tax id is digits only")
	assert.Equal(t, catalogs.TriStateYes, r.Authorized)
	assert.Equal(t, "2020-11-03", r.StartDate)
	assert.Equal(t, catalogs.SystemFlags{PIX: true}, r.Flags)
	assert.Equal(t, PIX, r.Source)

	require.NotNil(t, r.Pix)
	assert.Equal(t, "Participante direto", r.Pix.Modality)
	assert.Equal(t, catalogs.TriStateNo, r.Pix.PaymentInitiation)
	assert.Equal(t, catalogs.TriStateYes, r.Pix.CashWithdrawal)

	assert.Equal(t, Report{Accepted: 1}, report)
}

func TestPIXNormalizeRejectsMalformedIdentifiers(t *testing.T) {
	n := NewPIXNormalizer()

	records := []RawRecord{
		{PIXColISPB: "123456789", PIXColShortName: "NINE DIGITS"},
		{PIXColISPB: "", PIXColShortName: "EMPTY"},
		{PIXColISPB: "208", PIXColShortName: "SHORT BUT VALID"},
	}

	out, report, err := n.Normalize(records)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "00000208", out[0].ISPB)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 2, report.Rejected)
}

func TestPIXNormalizeCountsInSourceDuplicates(t *testing.T) {
	n := NewPIXNormalizer()

	records := []RawRecord{
		{PIXColISPB: "00000208", PIXColShortName: "OLD NAME"},
		{PIXColISPB: "00000208", PIXColShortName: "NEW NAME"},
	}

	out, report, err := n.Normalize(records)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "NEW NAME", out[0].ShortName, "later record wins within one file")
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.Accepted)
}

func TestPIXNormalizeSchemaMismatch(t *testing.T) {
	n := NewPIXNormalizer()

	records := []RawRecord{
		{"ISPB Renamed": "00000208", PIXColShortName: "BRB"},
	}

	_, _, err := n.Normalize(records)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))

	var schemaErr *errors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, PIXColISPB, schemaErr.Column)
}

func TestPIXNormalizeEmptyInput(t *testing.T) {
	n := NewPIXNormalizer()

	out, report, err := n.Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, Report{}, report)
}
