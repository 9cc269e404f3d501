package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hoursync/reconcile"
)

// WriteGaps renders one sheet per week listing entries the timesheets and
// the snapshot disagree on, plus a Summary sheet with the per-week counts.
// Timesheet-only rows fill red, snapshot-only rows fill yellow.
func WriteGaps(path string, gaps []reconcile.WeekGap) error {
	file := excelize.NewFile()
	defer file.Close()

	bold, err := boldStyle(file)
	if err != nil {
		return fmt.Errorf("build bold style: %w", err)
	}
	red, err := fillStyle(file, fillProblem)
	if err != nil {
		return fmt.Errorf("build problem style: %w", err)
	}
	yellow, err := fillStyle(file, fillReview)
	if err != nil {
		return fmt.Errorf("build review style: %w", err)
	}

	if err := useDefaultSheet(file, "Summary"); err != nil {
		return err
	}
	summary, err := addSheet(file, "Summary")
	if err != nil {
		return err
	}
	row, err := summary.appendRow("week_end", "manual_only_count", "db_only_count")
	if err != nil {
		return err
	}
	if err := summary.styleRow(row, 3, bold); err != nil {
		return err
	}

	for _, gap := range gaps {
		sheet, err := addSheet(file, "Week_"+gap.Week.ID)
		if err != nil {
			return err
		}
		row, err := sheet.appendRow("type", "date", "employee", "customer", "hours", "count", "source")
		if err != nil {
			return err
		}
		if err := sheet.styleRow(row, 7, bold); err != nil {
			return err
		}

		if err := appendGapEntries(sheet, "manual_only", gap.ManualOnly, red); err != nil {
			return err
		}
		if err := appendGapEntries(sheet, "db_only", gap.DBOnly, yellow); err != nil {
			return err
		}
		if err := sheet.autosize(12); err != nil {
			return err
		}

		manualOnly, dbOnly := gap.Counts()
		if _, err := summary.appendRow(gap.Week.ID, manualOnly, dbOnly); err != nil {
			return err
		}
	}

	if err := summary.autosize(12); err != nil {
		return err
	}
	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save gap workbook %s: %w", path, err)
	}
	return nil
}

func appendGapEntries(sheet *sheetBuilder, label string, entries []reconcile.GapEntry, fill int) error {
	for _, entry := range entries {
		row, err := sheet.appendRow(label, entry.Date, entry.Employee, entry.Customer, entry.Hours, entry.Count, entry.Source)
		if err != nil {
			return err
		}
		if err := sheet.styleRow(row, 7, fill); err != nil {
			return err
		}
	}
	return nil
}
