package bcb

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/sources"
)

// pixTitlePrefix is the banner line the BCB prepends to the PIX CSV.
const pixTitlePrefix = "Lista de participantes"

// ParsePIX parses the PIX participant CSV into raw records. The file is
// latin-1 encoded, semicolon separated, and carries a banner line before the
// header row.
func ParsePIX(data []byte) ([]sources.RawRecord, error) {
	text, err := decode(data)
	if err != nil {
		return nil, errors.WrapParse("csv", "pix", err)
	}

	if line, rest, found := strings.Cut(text, "\n"); found && strings.Contains(line, pixTitlePrefix) {
		text = rest
	}

	records, err := parse(text, ';')
	if err != nil {
		return nil, errors.WrapParse("csv", "pix", err)
	}
	return records, nil
}

// ParseSTR parses the STR participant CSV into raw records. The BCB has
// shipped this file with different separators over time, so the separator is
// detected from the header line.
func ParseSTR(data []byte) ([]sources.RawRecord, error) {
	text, err := decode(data)
	if err != nil {
		return nil, errors.WrapParse("csv", "str", err)
	}

	records, err := parse(text, detectSeparator(text))
	if err != nil {
		return nil, errors.WrapParse("csv", "str", err)
	}
	return records, nil
}

// decode transcodes latin-1 payloads to UTF-8. The BCB serves ISO-8859-1;
// payloads that already validate as UTF-8 pass through untouched.
func decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// detectSeparator picks the separator that appears in the header line,
// preferring semicolon, then comma, then tab.
func detectSeparator(text string) rune {
	header, _, _ := strings.Cut(text, "\n")
	for _, sep := range []rune{';', ',', '\t'} {
		if strings.ContainsRune(header, sep) {
			return sep
		}
	}
	return ';'
}

// parse reads a header row plus data rows into raw records. Header names are
// trimmed; unnamed columns (the PIX file leads with an empty numbering
// column) are skipped. Rows shorter than the header are tolerated, as the
// BCB occasionally truncates trailing empty fields.
func parse(text string, separator rune) ([]sources.RawRecord, error) {
	reader := csv.NewReader(bytes.NewBufferString(text))
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	records := make([]sources.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if empty(row) {
			continue
		}
		record := make(sources.RawRecord, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				record[name] = strings.TrimSpace(row[i])
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// empty reports whether a row has no content at all.
func empty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
