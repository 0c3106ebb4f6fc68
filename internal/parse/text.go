package parse

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	nonKeyRe = regexp.MustCompile(`[^a-z0-9]+`)
	yearRe   = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

var (
	previousYearPhrases = []string{"tahun lalu", "tahun sebelumnya"}
	currentYearPhrases  = []string{"tahun ini", "tahun sekarang"}
)

// NormalizeKey lowercases value and drops everything outside [a-z0-9], so
// "L 1234 XX" and "l1234xx" compare equal.
func NormalizeKey(value string) string {
	return nonKeyRe.ReplaceAllString(strings.ToLower(value), "")
}

// Tokenize splits value into lowercase alphanumeric tokens longer than one character.
func Tokenize(value string) []string {
	fields := strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ContainsAny reports whether text contains any of the keywords. text is
// expected to be lowercased already.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ExtractYears returns the years mentioned in text in order of first
// occurrence. Relative phrases are appended after literal years: the
// previous year first, then the current one.
func ExtractYears(text string, now time.Time) []string {
	var years []string
	seen := make(map[string]bool)
	add := func(y string) {
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}

	for _, y := range yearRe.FindAllString(text, -1) {
		add(y)
	}

	lower := strings.ToLower(text)
	if ContainsAny(lower, previousYearPhrases) {
		add(itoa(now.Year() - 1))
	}
	if ContainsAny(lower, currentYearPhrases) {
		add(itoa(now.Year()))
	}
	return years
}

// VehicleStatus maps any backend status to Ready or Full. Unrecognized
// values are reported as Full.
func VehicleStatus(raw string) string {
	if strings.Contains(strings.ToLower(raw), "ready") {
		return "Ready"
	}
	return "Full"
}
