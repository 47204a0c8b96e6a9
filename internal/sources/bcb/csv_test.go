package bcb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openispb/ispbmap/pkg/sources"
)

// latin1 encodes a UTF-8 test string as ISO-8859-1 the way the BCB serves it.
// The test fixtures only use characters inside latin-1.
func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out
}

func TestParsePIX(t *testing.T) {
	payload := latin1("Lista de participantes do Pix;;;\n" +
		";ISPB;Nome Reduzido;Tipo de Instituição\n" +
		"1;00000208;BRB - BCO DE BRASILIA;Banco Múltiplo\n" +
		"2;00038121;BANCO DA AMAZONIA;Banco Múltiplo\n")

	records, err := ParsePIX(payload)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "00000208", records[0]["ISPB"])
	assert.Equal(t, "BRB - BCO DE BRASILIA", records[0]["Nome Reduzido"])
	assert.Equal(t, "Banco Múltiplo", records[0]["Tipo de Instituição"], "latin-1 accents survive decoding")

	// The unnamed numbering column is dropped.
	_, hasEmpty := records[0][""]
	assert.False(t, hasEmpty)
}

func TestParsePIXWithoutBanner(t *testing.T) {
	payload := []byte("ISPB;Nome Reduzido\n00000208;BRB\n")

	records, err := ParsePIX(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "BRB", records[0]["Nome Reduzido"])
}

func TestParseSTRSeparators(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"semicolon", "ISPB;Nome;Nome_Reduzido\n00000000;Banco do Brasil S.A.;BCO DO BRASIL\n"},
		{"comma", "ISPB,Nome,Nome_Reduzido\n00000000,Banco do Brasil S.A.,BCO DO BRASIL\n"},
		{"tab", "ISPB\tNome\tNome_Reduzido\n00000000\tBanco do Brasil S.A.\tBCO DO BRASIL\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseSTR([]byte(tt.payload))
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "00000000", records[0]["ISPB"])
			assert.Equal(t, "Banco do Brasil S.A.", records[0]["Nome"])
		})
	}
}

func TestParseSkipsEmptyAndShortRows(t *testing.T) {
	payload := []byte("ISPB;Nome\n" +
		"00000000;Banco do Brasil S.A.\n" +
		";\n" +
		"00000208\n")

	records, err := ParseSTR(payload)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// The short row keeps its parsed columns and blanks the rest.
	assert.Equal(t, "00000208", records[1]["ISPB"])
	assert.Equal(t, "", records[1]["Nome"])
}

func TestParsedRecordsFeedNormalizer(t *testing.T) {
	payload := latin1("Lista de participantes;;\n" +
		";ISPB;Nome Reduzido\n" +
		"1;208;BRB\n")

	records, err := ParsePIX(payload)
	require.NoError(t, err)

	out, report, err := sources.NewPIXNormalizer().Normalize(records)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "00000208", out[0].ISPB)
	assert.Equal(t, 1, report.Accepted)
}
