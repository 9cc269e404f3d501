package timesheet

import (
	"math"
	"strconv"
	"strings"
	"time"

	"hoursync/record"
)

const dateLayout = "2006-01-02"

// dayNames holds the weekday spellings that appear in the first column of
// manual exports, full names and the abbreviations the export tool emits.
var dayNames = map[string]struct{}{
	"mon":       {},
	"monday":    {},
	"tue":       {},
	"tues":      {},
	"tuesday":   {},
	"wed":       {},
	"wednesday": {},
	"thu":       {},
	"thur":      {},
	"thurs":     {},
	"thursday":  {},
	"fri":       {},
	"friday":    {},
	"sat":       {},
	"saturday":  {},
	"sun":       {},
	"sunday":    {},
}

func isDayName(value string) bool {
	_, ok := dayNames[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// parseFloatCell reads a numeric cell. NaN and infinities do not count.
func parseFloatCell(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

// dayNumber reports whether a cell holds a day-of-month number. Fractional
// values truncate toward zero the way the exports round-trip them; anything
// outside 1..31 is not a day marker.
func dayNumber(value string) (int, bool) {
	parsed, ok := parseFloatCell(value)
	if !ok {
		return 0, false
	}
	day := int(parsed)
	if day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

// parseHours reads an hours cell, rounding to two decimals. Unparseable
// cells count as zero hours so the row-level truthiness checks skip them.
func parseHours(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return record.RoundHours(parsed)
}

// parseEntryDate accepts either an ISO-shaped value, taken literally, or a
// US-style m/d/yyyy date. Everything else fails.
func parseEntryDate(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 10 && trimmed[4] == '-' && trimmed[7] == '-' {
		return trimmed, true
	}
	parsed, err := time.Parse("1/2/2006", trimmed)
	if err != nil {
		return "", false
	}
	return parsed.Format(dateLayout), true
}

// buildDate validates a calendar date and renders it in ISO form. Month and
// day are not normalized; February 31st is a failure, not March 3rd.
func buildDate(year, month, day int) (string, bool) {
	built := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if built.Year() != year || built.Month() != time.Month(month) || built.Day() != day {
		return "", false
	}
	return built.Format(dateLayout), true
}
