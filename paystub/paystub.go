// Package paystub extracts per-employee gross pay from weekly payroll
// register PDFs.
package paystub

import (
	"regexp"
	"strconv"
	"strings"

	"hoursync/record"
)

// grossLinePattern matches a register detail line: an id token followed by
// the gross amount. The employee's name arrives on a later "Last, First"
// line, so the amount stays pending until then.
var grossLinePattern = regexp.MustCompile(`^\S+\s+([0-9]+\.?[0-9]*)\s+`)

// Register is one weekly payroll register: the pay week it covers and gross
// pay keyed by normalized employee name.
type Register struct {
	Path  string
	Week  record.WeekWindow
	Gross map[string]float64
}

// ExtractGross walks register text and accumulates gross pay per employee.
//
// The register groups detail lines under department banners ("* LABOR")
// closed by "** Total" lines. A detail line parks its gross amount until the
// next name line ("Last, First") claims it; an employee appearing more than
// once in the document keeps accumulating. With a department filter only
// amounts inside a matching banner count, but the name line still consumes
// the pending amount either way.
func ExtractGross(text, deptFilter string) map[string]float64 {
	gross := make(map[string]float64)
	deptFilter = strings.ToUpper(strings.TrimSpace(deptFilter))

	var (
		pending    float64
		hasPending bool
		dept       string
		hasDept    bool
	)

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "* ") {
			dept = strings.ToUpper(line)
			hasDept = true
			continue
		}
		if strings.HasPrefix(line, "** Total") {
			dept = ""
			hasDept = false
		}
		if match := grossLinePattern.FindStringSubmatch(line); match != nil {
			parsed, err := strconv.ParseFloat(match[1], 64)
			if err != nil {
				hasPending = false
			} else {
				pending = parsed
				hasPending = true
			}
			continue
		}
		if hasPending && strings.Contains(line, ",") {
			employee := employeeName(line)
			if deptFilter == "" || (hasDept && strings.Contains(dept, deptFilter)) {
				gross[record.Normalize(employee)] += pending
			}
			hasPending = false
		}
	}
	return gross
}

// employeeName turns a "Last, First" register line into "First Last".
// Anything without a comma passes through untouched.
func employeeName(raw string) string {
	raw = strings.TrimSpace(raw)
	last, first, found := strings.Cut(raw, ",")
	if !found {
		return raw
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// ReadRegister loads one register: the pay week comes from the six digits in
// the filename, the gross amounts from the document text.
func ReadRegister(path, deptFilter string) (Register, error) {
	week, err := record.WeekFromFilename(path)
	if err != nil {
		return Register{}, err
	}
	text, err := DocumentText(path)
	if err != nil {
		return Register{}, err
	}
	return Register{
		Path:  path,
		Week:  week,
		Gross: ExtractGross(text, deptFilter),
	}, nil
}

// ReadRegisters loads several registers, failing on the first bad one.
func ReadRegisters(paths []string, deptFilter string) ([]Register, error) {
	registers := make([]Register, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		register, err := ReadRegister(path, deptFilter)
		if err != nil {
			return nil, err
		}
		registers = append(registers, register)
	}
	return registers, nil
}

// MergeGross folds several registers into one employee -> total gross map.
func MergeGross(registers []Register) map[string]float64 {
	merged := make(map[string]float64)
	for _, register := range registers {
		for employee, amount := range register.Gross {
			merged[employee] += amount
		}
	}
	return merged
}

// Employees returns the normalized employee keys present across registers.
func Employees(registers []Register) map[string]struct{} {
	employees := make(map[string]struct{})
	for _, register := range registers {
		for employee := range register.Gross {
			employees[employee] = struct{}{}
		}
	}
	return employees
}
