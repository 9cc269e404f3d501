// Package reconcile compares payroll register truth against the production
// database snapshot and parsed manual timesheets.
package reconcile

import (
	"math"
	"sort"

	"hoursync/record"
)

// Tolerances for calling two figures the same. Gross amounts compare to the
// cent; hour and rate comparisons allow a quarter before flagging.
const (
	GrossTolerance = 0.01
	HoursTolerance = 0.25
	RateTolerance  = 0.25
)

// Audit flags, in the order they are evaluated.
const (
	FlagMissingDBHours = "missing_db_hours"
	FlagRateMismatch   = "rate_mismatch"
	FlagManualNotInDB  = "manual_not_in_db"
	FlagHoursMismatch  = "hours_mismatch"
)

// AuditRow is one employee's week: register gross against snapshot hours,
// the implied gross at the default rate, and manual timesheet hours.
type AuditRow struct {
	Employee      string
	PDFGross      float64
	DBHours       float64
	DBRate        float64
	DBGross       float64
	GrossDelta    float64
	ManualHours   float64
	HoursDelta    float64
	EffectiveRate float64
	HasEffective  bool
	Flags         []string
}

// Matches reports whether the row needs no attention at all.
func (r AuditRow) Matches() bool {
	return len(r.Flags) == 0 && math.Abs(r.GrossDelta) < GrossTolerance
}

// AuditTotals accumulates the per-row rounded figures for the week.
type AuditTotals struct {
	PDFGross    float64
	DBGross     float64
	DBHours     float64
	ManualHours float64
}

// WeekAudit is the audit of one pay week.
type WeekAudit struct {
	Week   record.WeekWindow
	Rows   []AuditRow
	Totals AuditTotals
}

// BuildWeekAudit lines up register gross, snapshot hours and manual hours
// for every employee seen by any of the three, in sorted key order. With
// filterToPDF set, snapshot and manual figures for employees absent from the
// register are dropped rather than audited.
func BuildWeekAudit(week record.WeekWindow, pdfGross, dbHours, manualHours map[string]float64, rates record.RateTable, filterToPDF bool) WeekAudit {
	if filterToPDF && len(pdfGross) > 0 {
		dbHours = filterKeys(dbHours, pdfGross)
		manualHours = filterKeys(manualHours, pdfGross)
	}

	employees := make(map[string]struct{}, len(pdfGross)+len(dbHours)+len(manualHours))
	for employee := range pdfGross {
		employees[employee] = struct{}{}
	}
	for employee := range dbHours {
		employees[employee] = struct{}{}
	}
	for employee := range manualHours {
		employees[employee] = struct{}{}
	}
	sorted := make([]string, 0, len(employees))
	for employee := range employees {
		sorted = append(sorted, employee)
	}
	sort.Strings(sorted)

	audit := WeekAudit{Week: week, Rows: make([]AuditRow, 0, len(sorted))}
	for _, employee := range sorted {
		row := buildAuditRow(employee, pdfGross[employee], dbHours[employee], manualHours[employee], rates.Rate(employee))
		audit.Totals.PDFGross += row.PDFGross
		audit.Totals.DBGross += row.DBGross
		audit.Totals.DBHours += row.DBHours
		audit.Totals.ManualHours += row.ManualHours
		audit.Rows = append(audit.Rows, row)
	}
	return audit
}

func buildAuditRow(employee string, pdfGross, dbHours, manualHours, rate float64) AuditRow {
	row := AuditRow{
		Employee:    employee,
		PDFGross:    record.RoundHours(pdfGross),
		DBHours:     record.RoundHours(dbHours),
		DBRate:      record.RoundHours(rate),
		ManualHours: record.RoundHours(manualHours),
	}
	row.DBGross = record.RoundHours(row.DBHours * row.DBRate)
	row.GrossDelta = record.RoundHours(row.PDFGross - row.DBGross)
	row.HoursDelta = record.RoundHours(row.ManualHours - row.DBHours)
	if row.DBHours > 0 {
		row.EffectiveRate = record.RoundHours(row.PDFGross / row.DBHours)
		row.HasEffective = true
	}

	if row.PDFGross > 0 && row.DBHours == 0 {
		row.Flags = append(row.Flags, FlagMissingDBHours)
	}
	if row.DBHours > 0 && row.DBRate > 0 && row.EffectiveRate != 0 &&
		math.Abs(row.EffectiveRate-row.DBRate) > RateTolerance {
		row.Flags = append(row.Flags, FlagRateMismatch)
	}
	if row.ManualHours > 0 && row.DBHours == 0 {
		row.Flags = append(row.Flags, FlagManualNotInDB)
	}
	if math.Abs(row.HoursDelta) >= HoursTolerance && row.ManualHours > 0 && row.DBHours > 0 {
		row.Flags = append(row.Flags, FlagHoursMismatch)
	}
	return row
}

func filterKeys(values, keep map[string]float64) map[string]float64 {
	filtered := make(map[string]float64, len(values))
	for key, value := range values {
		if _, ok := keep[key]; ok {
			filtered[key] = value
		}
	}
	return filtered
}

// ManualHoursByWeek buckets record hours into pay weeks by date, summing per
// normalized employee. Records outside every window are dropped.
func ManualHoursByWeek(records []record.Record, weeks []record.WeekWindow) map[string]map[string]float64 {
	byWeek := make(map[string]map[string]float64, len(weeks))
	for _, rec := range records {
		week, ok := record.WindowFor(weeks, rec.Date)
		if !ok {
			continue
		}
		employees := byWeek[week.ID]
		if employees == nil {
			employees = make(map[string]float64)
			byWeek[week.ID] = employees
		}
		employees[record.Normalize(rec.Employee)] += rec.Hours
	}
	return byWeek
}

// FilterByEmployees keeps records whose normalized employee is in keep.
func FilterByEmployees(records []record.Record, keep map[string]struct{}) []record.Record {
	filtered := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := keep[record.Normalize(rec.Employee)]; ok {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// FilterByWeeks keeps records dated inside any of the given windows.
func FilterByWeeks(records []record.Record, weeks []record.WeekWindow) []record.Record {
	filtered := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := record.WindowFor(weeks, rec.Date); ok {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
