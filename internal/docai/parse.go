package docai

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// currencyPrefixRe matches a leading 3-letter currency code ("USD 1.234,56").
var currencyPrefixRe = regexp.MustCompile(`^[A-Za-z]{3}\s*`)

// ParseNumber parses a monetary value as written in either U.S. or
// Brazilian-Portuguese formatting: a leading 3-letter currency prefix is
// stripped, literal dots are removed, then commas become decimal dots.
// Returns nil when the result is not a finite number.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = currencyPrefixRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Date patterns tried in precedence order. Each regex locates date
// substrings anywhere in the text; ParsePeriod takes the first match as
// the range start and the second (when present, after a dash or en-dash
// separator) as the end.
var (
	isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	// "Dec 1, 2025" / "December 1 2025"
	englishDateRe = regexp.MustCompile(`([A-Za-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{4})`)
	// "1 de dez. de 2025"
	portugueseDateRe = regexp.MustCompile(`(\d{1,2})\s+de\s+([a-zA-Zçé]{3,9})\.?\s+de\s+(\d{4})`)
	dmyDateRe        = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
)

var englishMonths = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var portugueseMonths = map[string]time.Month{
	"jan": time.January, "fev": time.February, "mar": time.March,
	"abr": time.April, "mai": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "set": time.September,
	"out": time.October, "nov": time.November, "dez": time.December,
}

// ParsePeriod extracts a billing period from free text. Formats are tried
// in precedence order: ISO ranges, English month names, Portuguese month
// names with "de" connectors, then DD/MM/YYYY. Either bound may be nil.
func ParsePeriod(s string) (*time.Time, *time.Time) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	if ms := isoDateRe.FindAllString(s, 2); len(ms) > 0 {
		return datePair(parseISO(ms[0]), lastISO(ms))
	}

	if ms := englishDateRe.FindAllStringSubmatch(s, 2); len(ms) > 0 {
		start := parseEnglish(ms[0])
		var end *time.Time
		if len(ms) > 1 {
			end = parseEnglish(ms[1])
		}
		if start != nil || end != nil {
			return start, end
		}
	}

	if ms := portugueseDateRe.FindAllStringSubmatch(s, 2); len(ms) > 0 {
		start := parsePortuguese(ms[0])
		var end *time.Time
		if len(ms) > 1 {
			end = parsePortuguese(ms[1])
		}
		if start != nil || end != nil {
			return start, end
		}
	}

	if ms := dmyDateRe.FindAllStringSubmatch(s, 2); len(ms) > 0 {
		start := parseDMY(ms[0])
		var end *time.Time
		if len(ms) > 1 {
			end = parseDMY(ms[1])
		}
		return start, end
	}

	return nil, nil
}

// ParseDate extracts a single date from free text using the same
// precedence as ParsePeriod.
func ParseDate(s string) *time.Time {
	start, _ := ParsePeriod(s)
	return start
}

func datePair(start, end *time.Time) (*time.Time, *time.Time) {
	return start, end
}

func parseISO(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func lastISO(ms []string) *time.Time {
	if len(ms) < 2 {
		return nil
	}
	return parseISO(ms[1])
}

func parseEnglish(m []string) *time.Time {
	month, ok := englishMonths[strings.ToLower(m[1][:3])]
	if !ok {
		return nil
	}
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return buildDate(year, month, day)
}

func parsePortuguese(m []string) *time.Time {
	name := strings.ToLower(m[2])
	if len(name) < 3 {
		return nil
	}
	month, ok := portugueseMonths[name[:3]]
	if !ok {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	return buildDate(year, month, day)
}

func parseDMY(m []string) *time.Time {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return nil
	}
	return buildDate(year, time.Month(month), day)
}

func buildDate(year int, month time.Month, day int) *time.Time {
	if day < 1 || day > 31 || year < 1900 {
		return nil
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
