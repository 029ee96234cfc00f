package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// ParseCSV parses a delimited billing export into raw rows. The delimiter
// is sniffed from the first line (comma, semicolon, or tab); a leading
// "SEP=x" directive, as written by Excel exports, overrides the sniff.
// Malformed rows are skipped, never fatal for the file.
func ParseCSV(data []byte) ([]model.RawRow, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	text := string(data)
	delimiter := rune(0)

	firstLine, rest, _ := strings.Cut(text, "\n")
	if d, ok := sepDirective(firstLine); ok {
		delimiter = d
		text = rest
		firstLine, _, _ = strings.Cut(text, "\n")
	}
	if delimiter == 0 {
		delimiter = sniffDelimiter(firstLine)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "parser: read csv header")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []model.RawRow
	var skipped int
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		row := model.NewRawRow(headers, record)
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}
	if skipped > 0 {
		zap.L().Warn("parser: skipped malformed csv rows", zap.Int("count", skipped))
	}

	return rows, nil
}

// sepDirective parses the optional "SEP=x" first line.
func sepDirective(line string) (rune, bool) {
	line = strings.TrimSpace(line)
	if len(line) >= 5 && strings.EqualFold(line[:4], "sep=") {
		return rune(line[4]), true
	}
	return 0, false
}

// sniffDelimiter picks the delimiter with the most occurrences on the
// header line. Comma wins ties.
func sniffDelimiter(line string) rune {
	best := ','
	bestCount := strings.Count(line, ",")
	if n := strings.Count(line, ";"); n > bestCount {
		best, bestCount = ';', n
	}
	if n := strings.Count(line, "\t"); n > bestCount {
		best = '\t'
	}
	return best
}
