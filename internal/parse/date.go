package parse

import (
	"regexp"
	"strings"
	"time"
)

const canonicalLayout = "2006-01-02"

// Accepted input shapes, tried in order. RFC3339 also covers fractional
// seconds and numeric offsets.
var dateLayouts = []string{
	canonicalLayout,
	"02-01-2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

// NormalizeDate converts any accepted date shape to YYYY-MM-DD. Unknown
// shapes and impossible calendar dates yield "". The calendar date is taken
// as written; timestamps are not shifted across zones.
func NormalizeDate(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalLayout)
		}
	}
	return ""
}

// ToDisplayDate renders a date as DD-MM-YYYY, or "-" when it cannot be normalized.
func ToDisplayDate(value string) string {
	d := NormalizeDate(value)
	if d == "" {
		return "-"
	}
	return d[8:10] + "-" + d[5:7] + "-" + d[0:4]
}

// CompareDates orders canonical dates. YYYY-MM-DD sorts lexicographically in
// chronological order, so plain string comparison is enough; "" sorts first.
func CompareDates(a, b string) int {
	return strings.Compare(a, b)
}

// DateInYear reports whether a canonical date falls in the given year.
func DateInYear(date, year string) bool {
	return date != "" && year != "" && strings.HasPrefix(date, year+"-")
}

// DateInYears reports whether date falls in any of years. No years means no filter.
func DateInYears(date string, years []string) bool {
	if len(years) == 0 {
		return true
	}
	for _, y := range years {
		if DateInYear(date, y) {
			return true
		}
	}
	return false
}

// ReorderISODates rewrites every YYYY-MM-DD substring as DD-MM-YYYY.
func ReorderISODates(text string) string {
	return isoDateRe.ReplaceAllString(text, "$3-$2-$1")
}
