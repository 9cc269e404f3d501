package timesheet

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"hoursync/record"
)

// copySuffixPattern matches the "(2)" style suffix download tools append to
// duplicate filenames.
var copySuffixPattern = regexp.MustCompile(`\s*\(\d+\)\s*$`)

// EmployeeFromFilename derives the employee name from a manual export
// filename: the base name without extension, minus any copy suffix.
func EmployeeFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSpace(copySuffixPattern.ReplaceAllString(name, ""))
}

// parseMonthHint splits a "YYYY-MM" hint into year and month numbers.
func parseMonthHint(hint string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(hint), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}

// ParseManualFile parses one manual timesheet export into dated records.
//
// The export's first sheet carries a header row naming the Date, Client Name
// and Hours Per Job columns somewhere in its first rows; a missing header
// means the file is not a manual export and yields no records. Below the
// header, a row is one of three shapes: a weekday-name row whose entry is
// buffered until the day resolves, a day-number row that fixes the current
// date (flushing the buffer under it), or a continuation row booked to the
// current date.
//
// Day numbers carry no month or year, so those come from the file's
// modification time unless monthHint pins them as "YYYY-MM". Without a hint,
// a day later in the month than the modification day is taken to be from the
// previous month. A day number that does not form a valid calendar date
// drops the buffer and unsets the current date.
func ParseManualFile(path, monthHint string) ([]record.Record, error) {
	sheets, err := ReadSheets(path)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, nil
	}
	sheet := sheets[0]

	headerRow, columns, ok := findHeaderRow(sheet, "date", "client name", "hours per job")
	if !ok {
		return nil, nil
	}
	dateCol := columns["date"]
	clientCol := columns["client name"]
	hoursCol := columns["hours per job"]

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat manual file %s: %w", path, err)
	}
	modified := info.ModTime().UTC()
	year, month := modified.Year(), int(modified.Month())
	if monthHint != "" {
		if hintYear, hintMonth, ok := parseMonthHint(monthHint); ok {
			year, month = hintYear, hintMonth
		}
	}

	employee := EmployeeFromFilename(path)
	source := "export:" + filepath.Base(path)

	type buffered struct {
		client string
		hours  float64
	}

	var (
		records     []record.Record
		pending     []buffered
		currentDate string
	)

	for r := headerRow + 1; r < len(sheet.Rows); r++ {
		if len(sheet.Rows[r]) == 0 {
			continue
		}
		dateCell := sheet.Cell(r, dateCol)
		client := sheet.Cell(r, clientCol)
		hours := parseHours(sheet.Cell(r, hoursCol))

		if isDayName(dateCell) {
			if client != "" && hours != 0 {
				pending = append(pending, buffered{client: client, hours: hours})
			}
			continue
		}

		if day, ok := dayNumber(dateCell); ok {
			useYear, useMonth := year, month
			if monthHint == "" && day > modified.Day() {
				if useMonth == 1 {
					useYear--
					useMonth = 12
				} else {
					useMonth--
				}
			}
			built, ok := buildDate(useYear, useMonth, day)
			if !ok {
				currentDate = ""
				pending = nil
				continue
			}
			currentDate = built
			for _, entry := range pending {
				records = append(records, record.Record{
					Date:     currentDate,
					Employee: employee,
					Customer: entry.client,
					Hours:    entry.hours,
					Source:   source,
				})
			}
			pending = nil
			if client != "" && hours != 0 {
				records = append(records, record.Record{
					Date:     currentDate,
					Employee: employee,
					Customer: client,
					Hours:    hours,
					Source:   source,
				})
			}
			continue
		}

		if currentDate != "" && client != "" && hours != 0 {
			records = append(records, record.Record{
				Date:     currentDate,
				Employee: employee,
				Customer: client,
				Hours:    hours,
				Source:   source,
			})
		}
	}

	return records, nil
}

// ParseManualDir parses every .xls/.xlsx export under the named week
// directories of root. With no explicit weeks it takes every subdirectory
// whose name starts with "week", in sorted order.
func ParseManualDir(root string, weeks []string, monthHint string) ([]record.Record, error) {
	weekDirs, err := resolveWeekDirs(root, weeks)
	if err != nil {
		return nil, err
	}

	var records []record.Record
	for _, dir := range weekDirs {
		paths, err := listWorkbooks(dir)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			parsed, err := ParseManualFile(path, monthHint)
			if err != nil {
				return nil, err
			}
			records = append(records, parsed...)
		}
	}
	return records, nil
}

func resolveWeekDirs(root string, weeks []string) ([]string, error) {
	if len(weeks) > 0 {
		dirs := make([]string, 0, len(weeks))
		for _, week := range weeks {
			week = strings.TrimSpace(week)
			if week == "" {
				continue
			}
			dirs = append(dirs, filepath.Join(root, week))
		}
		return dirs, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read exports root %s: %w", root, err)
	}
	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(strings.ToLower(entry.Name()), "week") {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func listWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read week directory %s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".xls" || ext == ".xlsx" || ext == ".xlsm" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
