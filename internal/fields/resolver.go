// Package fields resolves logical billing fields against the arbitrary,
// locale-varying column names found in real provider exports.
package fields

import "strings"

// Resolve returns the value of the first column whose lower-cased, trimmed
// name either contains a candidate keyword or is contained by one. Real
// headers are both abbreviations and expansions of the canonical term, so
// the substring test runs in both directions. Candidates must already be
// lower-cased and ordered most-specific first. Returns ("", false) when no
// column matches.
func Resolve(columns []string, values map[string]string, candidates []string) (string, bool) {
	return resolve(columns, values, candidates, nil)
}

// ResolveMonetary behaves like Resolve but skips columns that name a
// currency rather than an amount ("...Currency", "...Moeda"). Without the
// exclusion a "CostCurrency" column would shadow "Cost".
func ResolveMonetary(columns []string, values map[string]string, candidates []string) (string, bool) {
	return resolve(columns, values, candidates, isCurrencyColumn)
}

func resolve(columns []string, values map[string]string, candidates []string, skip func(string) bool) (string, bool) {
	for _, cand := range candidates {
		for _, col := range columns {
			name := strings.ToLower(strings.TrimSpace(col))
			if name == "" {
				continue
			}
			if skip != nil && skip(name) {
				continue
			}
			if strings.Contains(name, cand) || strings.Contains(cand, name) {
				return values[col], true
			}
		}
	}
	return "", false
}

func isCurrencyColumn(lowerName string) bool {
	return strings.HasSuffix(lowerName, "currency") || strings.HasSuffix(lowerName, "moeda")
}
