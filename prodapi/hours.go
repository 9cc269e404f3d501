package prodapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WithoutLunch drops lunch entries, which track breaks rather than billable
// labor, before any hour totals are taken.
func WithoutLunch(entries []TimeEntry) []TimeEntry {
	kept := make([]TimeEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.EqualFold(strings.TrimSpace(entry.CustomerName), "lunch") {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// HoursByCustomer sums entry hours per customer display name.
func HoursByCustomer(entries []TimeEntry) map[string]float64 {
	totals := make(map[string]float64, len(entries))
	for _, entry := range entries {
		totals[entry.CustomerName] += entry.Hours
	}
	return totals
}

// TotalHours sums the hours of all entries.
func TotalHours(entries []TimeEntry) float64 {
	total := 0.0
	for _, entry := range entries {
		total += entry.Hours
	}
	return total
}

// CustomerSummary renders per-customer totals like "Boyle:8h, Landy:3.5h",
// sorted by customer name.
func CustomerSummary(entries []TimeEntry) string {
	totals := HoursByCustomer(entries)
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%sh", name, FormatHours(totals[name])))
	}
	return strings.Join(parts, ", ")
}

// FormatHours renders an hour count without trailing zeros (8, 3.5, 40.375).
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
