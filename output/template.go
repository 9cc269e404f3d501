package output

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hoursync/record"
)

// fillDrift marks populated rows missing from the approved snapshot.
const fillDrift = "#FFC7CE"

// Employee sheets hold their entry grid in rows 3 through 38.
const (
	templateFirstRow = 3
	templateLastRow  = 38
)

var sheetRangePattern = regexp.MustCompile(`([0-9]{1,2}/[0-9]{1,2}/[0-9]{2})\s*-\s*([0-9]{1,2}/[0-9]{1,2}/[0-9]{2})`)

// parseSheetRange reads the week range from a report sheet's title cell,
// e.g. "Boban Petrov  2/4/26 - 2/10/26".
func parseSheetRange(value string) (start, end string, ok bool) {
	match := sheetRangePattern.FindStringSubmatch(value)
	if match == nil {
		return "", "", false
	}
	startDay, err := time.Parse("1/2/06", match[1])
	if err != nil {
		return "", "", false
	}
	endDay, err := time.Parse("1/2/06", match[2])
	if err != nil {
		return "", "", false
	}
	return startDay.Format("2006-01-02"), endDay.Format("2006-01-02"), true
}

// dateLabel renders the day column like "Mon-9".
func dateLabel(date string) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return day.Format("Mon") + "-" + strconv.Itoa(day.Day())
}

// reviewSource reports whether an entry came in through voice transcription
// or OCR rather than a workbook timesheet.
func reviewSource(source string) bool {
	return strings.HasPrefix(source, "voice:") || strings.HasPrefix(source, "ocr:")
}

func skipTemplateSheet(name string) bool {
	return name == "Monthly Breakdown" || name == "Manual Entries" || strings.HasPrefix(name, "Week of")
}

// PopulateTemplate fills a payroll report template from parsed records. Each
// employee sheet names its week range in the title cell; matching entries
// replace the entry grid. With a snapshot key set, rows absent from the
// snapshot highlight red; voice, OCR and unknown-customer rows highlight
// yellow for review. A Manual Entries sheet lists everything parsed.
func PopulateTemplate(templatePath, outPath string, records []record.Record, approved map[record.Key]struct{}) error {
	file, err := excelize.OpenFile(templatePath)
	if err != nil {
		return fmt.Errorf("open report template: %w", err)
	}
	defer file.Close()

	bold, err := boldStyle(file)
	if err != nil {
		return fmt.Errorf("build bold style: %w", err)
	}
	verify, err := fillStyle(file, fillReview)
	if err != nil {
		return fmt.Errorf("build review style: %w", err)
	}
	drift, err := fillStyle(file, fillDrift)
	if err != nil {
		return fmt.Errorf("build drift style: %w", err)
	}

	if err := writeManualEntriesSheet(file, records, bold); err != nil {
		return err
	}

	byEmployee := make(map[string][]record.Record)
	for _, rec := range records {
		key := record.Normalize(rec.Employee)
		byEmployee[key] = append(byEmployee[key], rec)
	}

	for _, name := range file.GetSheetList() {
		if skipTemplateSheet(name) {
			continue
		}
		title, err := file.GetCellValue(name, "A1")
		if err != nil {
			return fmt.Errorf("read title of %s: %w", name, err)
		}
		start, end, ok := parseSheetRange(title)
		if !ok {
			continue
		}

		var entries []record.Record
		for _, rec := range byEmployee[record.Normalize(name)] {
			if rec.Date >= start && rec.Date <= end {
				entries = append(entries, rec)
			}
		}
		if len(entries) == 0 {
			continue
		}

		if err := clearReportRows(file, name); err != nil {
			return err
		}
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Date != entries[j].Date {
				return entries[i].Date < entries[j].Date
			}
			return entries[i].Customer < entries[j].Customer
		})

		if err := fillReportRows(file, name, entries, approved, verify, drift); err != nil {
			return err
		}
	}

	if err := file.SaveAs(outPath); err != nil {
		return fmt.Errorf("save report %s: %w", outPath, err)
	}
	return nil
}

func fillReportRows(file *excelize.File, sheet string, entries []record.Record, approved map[record.Key]struct{}, verify, drift int) error {
	row := templateFirstRow
	lastDate := ""
	for _, rec := range entries {
		if row > templateLastRow {
			break
		}
		label := ""
		if rec.Date != lastDate {
			label = dateLabel(rec.Date)
		}
		setCell(file, sheet, row, 1, label, 0)
		setCell(file, sheet, row, 2, rec.Customer, 0)
		setCell(file, sheet, row, 6, rec.Hours, 0)
		if reviewSource(rec.Source) {
			setCell(file, sheet, row, 7, rec.Source, 0)
		}
		lastDate = rec.Date

		fill := 0
		if len(approved) > 0 && !inSnapshot(approved, sheet, rec) {
			fill = drift
		} else if reviewSource(rec.Source) || strings.ToLower(rec.Customer) == "unknown" {
			fill = verify
		}
		if fill != 0 {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(6, row)
			if err := file.SetCellStyle(sheet, first, last, fill); err != nil {
				return fmt.Errorf("highlight row %d of %s: %w", row, sheet, err)
			}
		}
		row++
	}
	return nil
}

// inSnapshot keys on the sheet's employee name, since timesheet spellings
// can differ from the report tab.
func inSnapshot(approved map[record.Key]struct{}, sheetName string, rec record.Record) bool {
	key := record.Record{Date: rec.Date, Employee: sheetName, Customer: rec.Customer, Hours: rec.Hours}.Key()
	_, ok := approved[key]
	return ok
}

func clearReportRows(file *excelize.File, sheet string) error {
	for row := templateFirstRow; row <= templateLastRow; row++ {
		for col := 1; col <= 7; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			if err := file.SetCellValue(sheet, cell, nil); err != nil {
				return fmt.Errorf("clear %s!%s: %w", sheet, cell, err)
			}
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, templateFirstRow)
	last, _ := excelize.CoordinatesToCellName(7, templateLastRow)
	if err := file.SetCellStyle(sheet, first, last, 0); err != nil {
		return fmt.Errorf("clear styles of %s: %w", sheet, err)
	}
	return nil
}

func writeManualEntriesSheet(file *excelize.File, records []record.Record, bold int) error {
	sheet, err := addSheet(file, "Manual Entries")
	if err != nil {
		return err
	}
	row, err := sheet.appendRow("date", "employee", "customer", "hours", "source")
	if err != nil {
		return err
	}
	if err := sheet.styleRow(row, 5, bold); err != nil {
		return err
	}

	sorted := make([]record.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		if sorted[i].Employee != sorted[j].Employee {
			return sorted[i].Employee < sorted[j].Employee
		}
		return sorted[i].Customer < sorted[j].Customer
	})
	for _, rec := range sorted {
		if _, err := sheet.appendRow(rec.Date, rec.Employee, rec.Customer, rec.Hours, rec.Source); err != nil {
			return err
		}
	}
	return sheet.autosize(10)
}
