package reconcile

import (
	"sort"
	"strings"

	"hoursync/record"
)

// GapEntry is one multiset difference between the timesheet and snapshot
// sides of a week. Display fields keep the first-seen spelling; Count says
// how many more times the key appears on this side than the other.
type GapEntry struct {
	Date     string
	Employee string
	Customer string
	Hours    float64
	Count    int
	Source   string
}

// WeekGap holds both directions of the difference for one week.
type WeekGap struct {
	Week       record.WeekWindow
	ManualOnly []GapEntry
	DBOnly     []GapEntry
}

// Counts returns the multiset sizes of each side's surplus.
func (g WeekGap) Counts() (manualOnly, dbOnly int) {
	for _, entry := range g.ManualOnly {
		manualOnly += entry.Count
	}
	for _, entry := range g.DBOnly {
		dbOnly += entry.Count
	}
	return manualOnly, dbOnly
}

// BuildWeekGap diffs the two sides as multisets of record keys. A key that
// occurs three times in the timesheets and once in the snapshot surfaces as
// manual-only with count two; matching occurrences cancel.
func BuildWeekGap(week record.WeekWindow, manual, db []record.Record) WeekGap {
	manualCounts := countKeys(manual)
	dbCounts := countKeys(db)

	return WeekGap{
		Week:       week,
		ManualOnly: expandCounts(subtractCounts(manualCounts, dbCounts), manual),
		DBOnly:     expandCounts(subtractCounts(dbCounts, manualCounts), db),
	}
}

func countKeys(records []record.Record) map[record.Key]int {
	counts := make(map[record.Key]int, len(records))
	for _, rec := range records {
		counts[rec.Key()]++
	}
	return counts
}

// subtractCounts returns left minus right, clamped at zero per key.
func subtractCounts(left, right map[record.Key]int) map[record.Key]int {
	result := make(map[record.Key]int, len(left))
	for key, count := range left {
		if rest := count - right[key]; rest > 0 {
			result[key] = rest
		}
	}
	return result
}

// expandCounts turns surplus keys back into display rows using the side's
// own records: first occurrence supplies the spelling, and every source that
// contributed the key is listed.
func expandCounts(counts map[record.Key]int, records []record.Record) []GapEntry {
	firstSeen := make(map[record.Key]record.Record, len(records))
	sources := make(map[record.Key]map[string]struct{}, len(records))
	for _, rec := range records {
		key := rec.Key()
		if _, ok := firstSeen[key]; !ok {
			firstSeen[key] = rec
		}
		set := sources[key]
		if set == nil {
			set = make(map[string]struct{})
			sources[key] = set
		}
		set[rec.Source] = struct{}{}
	}

	keys := make([]record.Key, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	entries := make([]GapEntry, 0, len(keys))
	for _, key := range keys {
		rec := firstSeen[key]
		entries = append(entries, GapEntry{
			Date:     rec.Date,
			Employee: rec.Employee,
			Customer: rec.Customer,
			Hours:    record.RoundHours(rec.Hours),
			Count:    counts[key],
			Source:   joinSources(sources[key]),
		})
	}
	return entries
}

func lessKey(a, b record.Key) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.Employee != b.Employee {
		return a.Employee < b.Employee
	}
	if a.Customer != b.Customer {
		return a.Customer < b.Customer
	}
	return a.Hours < b.Hours
}

func joinSources(set map[string]struct{}) string {
	sources := make([]string, 0, len(set))
	for source := range set {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return strings.Join(sources, ",")
}
