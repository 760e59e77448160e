package registration

// normalize.go provides the pure field transforms applied to every CSV
// row before validation. These handle the messy reality of user-supplied
// PPSR exports: stray punctuation in names, lowercase or padded VINs,
// ACNs with interior spaces, and half a dozen date formats.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// nonNameChars matches everything CleanName strips from grantor names.
var nonNameChars = regexp.MustCompile(`[^a-zA-Z\s]`)

// exactDateLayouts are tried in order; the first exact match wins.
// Day-first layouts precede month-first, so an ambiguous "03/04/2025"
// reads as 3 April.
var exactDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2/1/2006",
	"02-01-2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

// looseDateLayouts are the fallback when no exact layout matches.
var looseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

// CleanName strips commas (replaced with a space) and all characters
// that are not letters or whitespace, then trims. Blank input yields "".
func CleanName(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = strings.ReplaceAll(s, ",", " ")
	return strings.TrimSpace(nonNameChars.ReplaceAllString(s, ""))
}

// NormalizeVIN trims and uppercases a vehicle identification number.
// Blank input yields "".
func NormalizeVIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeACN removes all whitespace from an SPG organization number.
// Blank input yields "".
func NormalizeACN(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " ", ""))
}

// ParseDateSmart parses a registration start date, trying the exact
// layout list first and a looser set second. The result is normalized to
// date-only UTC. Failure returns a *DateFormatError carrying the raw
// input.
func ParseDateSmart(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)

	for _, layout := range exactDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return toUTCDate(t), nil
		}
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return toUTCDate(t), nil
		}
	}

	return time.Time{}, &DateFormatError{Raw: s}
}

// toUTCDate drops the time component and pins the date to UTC.
func toUTCDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDurationYears parses the raw registration duration column as an
// integer year count, tolerating a decimal rendering like "7.0".
// Blank or unparsable input is 0 (which DurationFromYears maps to
// NoEndDate) - there is no error path.
func ParseDurationYears(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
