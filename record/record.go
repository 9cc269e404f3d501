package record

import (
	"fmt"
	"math"
	"strings"
)

// Record is the normalized time record shared by every parser, the diff
// engine, and the report writers.
type Record struct {
	Date     string  // calendar day the labor occurred, yyyy-mm-dd
	Employee string  // display form, preserved for output
	Customer string  // display form; "Unknown" marks unresolved attribution
	Hours    float64 // rounded to 2 decimals at parse time
	Source   string  // provenance tag (export:<file>, voice:<file>, ocr, db, pdf:<file>)
}

// Key is the matching identity of a record. Source and display case never
// participate in comparisons.
type Key struct {
	Date     string
	Employee string
	Customer string
	Hours    float64
}

func (r Record) Key() Key {
	return Key{
		Date:     r.Date,
		Employee: Normalize(r.Employee),
		Customer: Normalize(r.Customer),
		Hours:    RoundHours(r.Hours),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s|%.2f", k.Date, k.Employee, k.Customer, k.Hours)
}

// Normalize lowercases a name and collapses runs of whitespace to single
// spaces. Empty input stays empty.
func Normalize(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(value)), " "))
}

// RoundHours rounds to 2 decimals, the comparison granularity for hours
// everywhere in this module.
func RoundHours(value float64) float64 {
	return math.Round(value*100) / 100
}
