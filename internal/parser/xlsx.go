package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// ParseXLSX parses every worksheet of an XLSX workbook into raw rows. The
// first row of each sheet provides the column names (blank headers become
// "ColumnN"); date cells are rendered as ISO date strings and numeric
// cells as plain decimal strings regardless of the workbook's display
// format.
func ParseXLSX(data []byte) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "parser: open xlsx")
	}
	defer f.Close() //nolint:errcheck

	var out []model.RawRow
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			zap.L().Warn("parser: skipping unreadable sheet",
				zap.String("sheet", sheet), zap.Error(err))
			continue
		}
		if len(rows) < 1 {
			continue
		}

		headers := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			if h == "" {
				h = fmt.Sprintf("Column%d", i+1)
			}
			headers[i] = h
		}

		for r := 1; r < len(rows); r++ {
			values := make([]string, len(headers))
			for c := range headers {
				var formatted string
				if c < len(rows[r]) {
					formatted = rows[r][c]
				}
				values[c] = renderCell(f, sheet, c, r, formatted)
			}
			row := model.NewRawRow(headers, values)
			if row.Empty() {
				continue
			}
			out = append(out, row)
		}
	}

	return out, nil
}

// renderCell normalizes one cell: date-styled serials become ISO dates,
// other numeric serials become their raw decimal string, everything else
// keeps the formatted value.
func renderCell(f *excelize.File, sheet string, col, row int, formatted string) string {
	if formatted == "" {
		return ""
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return formatted
	}
	raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return formatted
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return formatted
	}

	if isDateStyled(f, sheet, axis) {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// Built-in date number formats per ECMA-376 (14-22 dates/times, 27-36
// locale dates, 45-47 durations).
func isBuiltinDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47)
}

func isDateStyled(f *excelize.File, sheet, axis string) bool {
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if isBuiltinDateFormat(style.NumFmt) {
		return true
	}
	if style.CustomNumFmt != nil {
		fmtStr := strings.ToLower(*style.CustomNumFmt)
		for _, token := range []string{"yy", "dd", "mmm"} {
			if strings.Contains(fmtStr, token) {
				return true
			}
		}
	}
	return false
}
