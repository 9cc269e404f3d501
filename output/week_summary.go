package output

import (
	"fmt"
	"sort"

	"hoursync/record"
)

// WeekSummary is a per-employee rollup of one payroll week, built for quick
// inspection of parsed records before the full reconciliation reports run.
type WeekSummary struct {
	WeekEnd     string
	WeekStart   string
	Employee    string
	Hours       float64
	Days        int
	Customers   int
	RecordCount int
}

type weekSummaryKey struct {
	week     string
	employee string
}

type weekSummaryAgg struct {
	weekStart string
	employee  string
	hours     float64
	days      map[string]struct{}
	customers map[string]struct{}
	records   int
}

// BuildWeekSummaries buckets records into the given week windows and sums
// hours per employee. Records outside every window are dropped, matching the
// week-scoped reports.
func BuildWeekSummaries(records []record.Record, weeks []record.WeekWindow) []WeekSummary {
	if len(records) == 0 {
		return []WeekSummary{}
	}

	byKey := make(map[weekSummaryKey]*weekSummaryAgg)
	for _, rec := range records {
		window, ok := record.WindowFor(weeks, rec.Date)
		if !ok {
			continue
		}
		key := weekSummaryKey{week: window.ID, employee: record.Normalize(rec.Employee)}
		agg, exists := byKey[key]
		if !exists {
			agg = &weekSummaryAgg{
				weekStart: window.Start.Format("2006-01-02"),
				employee:  rec.Employee,
				days:      make(map[string]struct{}),
				customers: make(map[string]struct{}),
			}
			byKey[key] = agg
		}
		agg.hours += rec.Hours
		agg.days[rec.Date] = struct{}{}
		agg.customers[record.Normalize(rec.Customer)] = struct{}{}
		agg.records++
	}

	summaries := make([]WeekSummary, 0, len(byKey))
	for key, agg := range byKey {
		summaries = append(summaries, WeekSummary{
			WeekEnd:     key.week,
			WeekStart:   agg.weekStart,
			Employee:    agg.employee,
			Hours:       record.RoundHours(agg.hours),
			Days:        len(agg.days),
			Customers:   len(agg.customers),
			RecordCount: agg.records,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].WeekEnd != summaries[j].WeekEnd {
			return summaries[i].WeekEnd < summaries[j].WeekEnd
		}
		return record.Normalize(summaries[i].Employee) < record.Normalize(summaries[j].Employee)
	})

	return summaries
}

func WriteWeekSummaries(path, format string, summaries []WeekSummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeWeekSummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeWeekSummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for week summaries: %s", format)
	}
}
