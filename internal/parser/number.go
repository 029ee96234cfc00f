package parser

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber parses a numeric cell from a tabular source. Provider
// exports mix U.S. ("1,234.56") and Brazilian ("1.234,56") separator
// conventions; the position of the last separator decides which one a
// mixed value uses. Returns nil for anything that does not end up a
// finite number.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// Brazilian: dots are thousands, comma is decimal.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// A single comma followed by 1-2 digits is a decimal separator;
		// everything else is thousands grouping.
		idx := strings.LastIndex(s, ",")
		if strings.Count(s, ",") == 1 && len(s)-idx-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
