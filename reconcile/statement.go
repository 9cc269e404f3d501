package reconcile

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"hoursync/record"
)

const isoDate = "2006-01-02"

// TruthRow is one employee-week line from the payroll register, treated as
// the source of truth for the statement.
type TruthRow struct {
	Week     string
	Employee string
	Gross    float64
	Rate     float64
	Hours    float64
}

// TruthTable holds register lines keyed by week and employee. Week and
// employee order follow first appearance in the file.
type TruthTable struct {
	weekIDs   []string
	employees []string
	rows      map[string]map[string]TruthRow
}

// LoadTruth reads a register CSV with columns week,employee,gross,rate,hours
// (header row optional). Week is the yyyy-mm-dd week-ending date. A repeated
// week and employee pair replaces the earlier line.
func LoadTruth(path string) (*TruthTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open register table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read register table: %w", err)
	}

	table := &TruthTable{rows: make(map[string]map[string]TruthRow)}
	for i, row := range rows {
		if len(row) < 5 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "week") {
			continue
		}
		week := strings.TrimSpace(row[0])
		if _, err := time.Parse(isoDate, week); err != nil {
			return nil, fmt.Errorf("register row %d: parse week: %w", i+1, err)
		}
		employee := strings.TrimSpace(row[1])
		if employee == "" {
			return nil, fmt.Errorf("register row %d: empty employee", i+1)
		}
		gross, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("register row %d: parse gross: %w", i+1, err)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("register row %d: parse rate: %w", i+1, err)
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			return nil, fmt.Errorf("register row %d: parse hours: %w", i+1, err)
		}
		table.add(TruthRow{Week: week, Employee: employee, Gross: gross, Rate: rate, Hours: hours})
	}
	if len(table.weekIDs) == 0 {
		return nil, fmt.Errorf("register table %s has no rows", path)
	}
	return table, nil
}

func (t *TruthTable) add(row TruthRow) {
	byEmployee, ok := t.rows[row.Week]
	if !ok {
		byEmployee = make(map[string]TruthRow)
		t.rows[row.Week] = byEmployee
		t.weekIDs = append(t.weekIDs, row.Week)
	}
	key := record.Normalize(row.Employee)
	if _, ok := byEmployee[key]; !ok && !t.knownEmployee(key) {
		t.employees = append(t.employees, row.Employee)
	}
	byEmployee[key] = row
}

func (t *TruthTable) knownEmployee(key string) bool {
	for _, name := range t.employees {
		if record.Normalize(name) == key {
			return true
		}
	}
	return false
}

// WeekIDs returns the week-ending dates in file order.
func (t *TruthTable) WeekIDs() []string {
	return t.weekIDs
}

// Weeks derives the full windows, each running from six days before the
// week-ending date through the date itself.
func (t *TruthTable) Weeks() []record.WeekWindow {
	windows := make([]record.WeekWindow, 0, len(t.weekIDs))
	for _, id := range t.weekIDs {
		end, err := time.Parse(isoDate, id)
		if err != nil {
			continue
		}
		windows = append(windows, record.WeekWindow{
			ID:    id,
			Start: end.AddDate(0, 0, -6),
			End:   end,
		})
	}
	return windows
}

// Employees returns display names in file order.
func (t *TruthTable) Employees() []string {
	return t.employees
}

// Row looks up the register line for a week and employee.
func (t *TruthTable) Row(weekID, employee string) (TruthRow, bool) {
	row, ok := t.rows[weekID][record.Normalize(employee)]
	return row, ok
}

// Rate returns the employee's rate from the first week that lists them.
func (t *TruthTable) Rate(employee string) float64 {
	key := record.Normalize(employee)
	for _, weekID := range t.weekIDs {
		if row, ok := t.rows[weekID][key]; ok {
			return row.Rate
		}
	}
	return 0
}

// WeekLine is one side's aggregate for an employee-week: total hours, a
// per-customer breakdown, and for timesheet lines the contributing sources.
type WeekLine struct {
	Hours  float64
	Detail string
	Source string
}

// Statement pairs the register truth with what the production export and the
// manual timesheets actually hold, per week and employee.
type Statement struct {
	Truth  *TruthTable
	prod   map[string]map[string]WeekLine
	manual map[string]map[string]WeekLine
}

// BuildStatement buckets both record sets into the truth table's weeks and
// aggregates each employee-week into a line. Records outside every truth
// week are dropped.
func BuildStatement(truth *TruthTable, prod, manual []record.Record) *Statement {
	windows := truth.Weeks()
	return &Statement{
		Truth:  truth,
		prod:   aggregateLines(windows, prod, false),
		manual: aggregateLines(windows, manual, true),
	}
}

// ProdLine returns the production side of an employee-week; the zero value
// means the export has nothing there.
func (s *Statement) ProdLine(weekID, employee string) WeekLine {
	return s.prod[weekID][record.Normalize(employee)]
}

// ManualLine returns the timesheet side of an employee-week.
func (s *Statement) ManualLine(weekID, employee string) WeekLine {
	return s.manual[weekID][record.Normalize(employee)]
}

// WeekGrossTotal sums the register gross for one week.
func (s *Statement) WeekGrossTotal(weekID string) float64 {
	var total float64
	for _, row := range s.Truth.rows[weekID] {
		total += row.Gross
	}
	return total
}

// WeekProdTotal prices the production hours for one week at register rates.
func (s *Statement) WeekProdTotal(weekID string) float64 {
	var total float64
	for _, employee := range s.Truth.Employees() {
		total += s.ProdLine(weekID, employee).Hours * s.Truth.Rate(employee)
	}
	return total
}

// Fix is one production-export adjustment: the hours an employee-week holds
// now, what the register says it should hold, and where to load the
// difference from.
type Fix struct {
	Employee    string
	Week        string
	Location    string
	ProdHours   float64
	TargetHours float64
	DeltaHours  float64
	Action      string
	ManualRef   string
}

// MissingFromProd reports whether the export has no hours at all for the
// employee-week.
func (f Fix) MissingFromProd() bool {
	return f.ProdHours == 0
}

// Fixes lists every employee-week where production hours drift from the
// register by at least a hundredth of an hour, week by week in register
// order.
func (s *Statement) Fixes() []Fix {
	var fixes []Fix
	for _, weekID := range s.Truth.WeekIDs() {
		for _, employee := range s.Truth.Employees() {
			row, ok := s.Truth.Row(weekID, employee)
			if !ok {
				continue
			}
			prodLine := s.ProdLine(weekID, employee)
			delta := prodLine.Hours - row.Hours
			if math.Abs(delta) < GrossTolerance {
				continue
			}
			fixes = append(fixes, Fix{
				Employee:    employee,
				Week:        weekID,
				Location:    fixLocation(employee, prodLine.Hours),
				ProdHours:   prodLine.Hours,
				TargetHours: row.Hours,
				DeltaHours:  delta,
				Action:      fixAction(prodLine.Hours, row.Hours),
				ManualRef:   manualReference(s.ManualLine(weekID, employee)),
			})
		}
	}
	return fixes
}

func fixLocation(employee string, prodHours float64) string {
	if prodHours == 0 {
		return "NOT IN PROD - need to add week block"
	}
	return fmt.Sprintf("'%s' sheet", employee)
}

func fixAction(prodHours, targetHours float64) string {
	if prodHours == 0 {
		return fmt.Sprintf("ADD entire week: %sh from manual", FormatHours(targetHours))
	}
	return fmt.Sprintf("ADD %.3fh (adjust entries to total %sh)",
		math.Abs(targetHours-prodHours), FormatHours(targetHours))
}

func manualReference(line WeekLine) string {
	if line.Source == "" && line.Detail == "" {
		return ""
	}
	return line.Source + "\n" + line.Detail
}

// TotalGapDollars prices the hours still missing from production, summed
// over every employee-week running short. The result is negative or zero.
func (s *Statement) TotalGapDollars() float64 {
	var total float64
	for _, employee := range s.Truth.Employees() {
		rate := s.Truth.Rate(employee)
		for _, weekID := range s.Truth.WeekIDs() {
			row, ok := s.Truth.Row(weekID, employee)
			if !ok {
				continue
			}
			delta := s.ProdLine(weekID, employee).Hours - row.Hours
			if delta < -GrossTolerance {
				total += delta * rate
			}
		}
	}
	return total
}

// TotalMissingDollars is the positive counterpart used in console output.
func (s *Statement) TotalMissingDollars() float64 {
	var total float64
	for _, employee := range s.Truth.Employees() {
		rate := s.Truth.Rate(employee)
		for _, weekID := range s.Truth.WeekIDs() {
			row, ok := s.Truth.Row(weekID, employee)
			if !ok {
				continue
			}
			prodHours := s.ProdLine(weekID, employee).Hours
			if prodHours < row.Hours {
				total += (row.Hours - prodHours) * rate
			}
		}
	}
	return total
}

// FormatHours renders hours with as few digits as the value needs.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}

func aggregateLines(windows []record.WeekWindow, records []record.Record, withSources bool) map[string]map[string]WeekLine {
	type bucket struct {
		hours     float64
		customers map[string]float64
		display   map[string]string
		sources   map[string]struct{}
	}
	buckets := make(map[string]map[string]*bucket)

	for _, rec := range records {
		window, ok := record.WindowFor(windows, rec.Date)
		if !ok {
			continue
		}
		byEmployee := buckets[window.ID]
		if byEmployee == nil {
			byEmployee = make(map[string]*bucket)
			buckets[window.ID] = byEmployee
		}
		key := record.Normalize(rec.Employee)
		b := byEmployee[key]
		if b == nil {
			b = &bucket{
				customers: make(map[string]float64),
				display:   make(map[string]string),
				sources:   make(map[string]struct{}),
			}
			byEmployee[key] = b
		}
		b.hours += rec.Hours
		customerKey := record.Normalize(rec.Customer)
		if _, seen := b.display[customerKey]; !seen {
			b.display[customerKey] = rec.Customer
		}
		b.customers[customerKey] += rec.Hours
		if withSources {
			b.sources[rec.Source] = struct{}{}
		}
	}

	lines := make(map[string]map[string]WeekLine, len(buckets))
	for weekID, byEmployee := range buckets {
		byEmployeeLines := make(map[string]WeekLine, len(byEmployee))
		for key, b := range byEmployee {
			byEmployeeLines[key] = WeekLine{
				Hours:  record.RoundHours(b.hours),
				Detail: customerBreakdown(b.customers, b.display),
				Source: joinSources(b.sources),
			}
		}
		lines[weekID] = byEmployeeLines
	}
	return lines
}

func customerBreakdown(hours map[string]float64, display map[string]string) string {
	keys := make([]string, 0, len(hours))
	for key := range hours {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return display[keys[i]] < display[keys[j]] })

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s %sh", display[key], FormatHours(record.RoundHours(hours[key]))))
	}
	return strings.Join(parts, ", ")
}
