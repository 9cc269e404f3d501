package output

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"hoursync/reconcile"
	"hoursync/record"
)

var auditHeaders = []any{
	"employee",
	"pdf_gross",
	"db_hours",
	"db_rate",
	"db_gross",
	"pdf_vs_db_gross",
	"manual_hours",
	"manual_vs_db_hours",
	"effective_rate",
	"flags",
}

// WriteAudit renders one sheet per audited week, a leading Summary sheet
// with per-week totals, and a Manual_Sources appendix listing every parsed
// timesheet entry for review. Row fills mark state: red rows carry flags,
// green rows reconcile to the cent, yellow rows differ without a flag.
func WriteAudit(path string, audits []reconcile.WeekAudit, manual []record.Record) error {
	file := excelize.NewFile()
	defer file.Close()

	bold, err := boldStyle(file)
	if err != nil {
		return fmt.Errorf("build bold style: %w", err)
	}
	green, err := fillStyle(file, fillMatch)
	if err != nil {
		return fmt.Errorf("build match style: %w", err)
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
	row, err := summary.appendRow(
		"week_end", "week_start",
		"pdf_gross_total", "db_gross_total", "diff_gross",
		"manual_hours_total", "db_hours_total", "diff_hours")
	if err != nil {
		return err
	}
	if err := summary.styleRow(row, 8, bold); err != nil {
		return err
	}

	for _, audit := range audits {
		sheet, err := addSheet(file, "Week_"+audit.Week.ID)
		if err != nil {
			return err
		}
		row, err := sheet.appendRow(auditHeaders...)
		if err != nil {
			return err
		}
		if err := sheet.styleRow(row, len(auditHeaders), bold); err != nil {
			return err
		}

		for _, r := range audit.Rows {
			var effective any = ""
			if r.HasEffective {
				effective = r.EffectiveRate
			}
			row, err := sheet.appendRow(
				r.Employee, r.PDFGross, r.DBHours, r.DBRate, r.DBGross,
				r.GrossDelta, r.ManualHours, r.HoursDelta, effective,
				strings.Join(r.Flags, ","))
			if err != nil {
				return err
			}
			fill := yellow
			if len(r.Flags) > 0 {
				fill = red
			} else if math.Abs(r.GrossDelta) < reconcile.GrossTolerance {
				fill = green
			}
			if err := sheet.styleRow(row, len(auditHeaders), fill); err != nil {
				return err
			}
		}

		totals := audit.Totals
		if _, err := sheet.appendRow(
			"TOTAL",
			record.RoundHours(totals.PDFGross),
			record.RoundHours(totals.DBHours),
			"",
			record.RoundHours(totals.DBGross),
			record.RoundHours(totals.PDFGross-totals.DBGross),
			record.RoundHours(totals.ManualHours),
			record.RoundHours(totals.ManualHours-totals.DBHours),
			"", ""); err != nil {
			return err
		}
		if err := sheet.autosize(12); err != nil {
			return err
		}

		if _, err := summary.appendRow(
			audit.Week.ID,
			audit.Week.Start.Format("2006-01-02"),
			record.RoundHours(totals.PDFGross),
			record.RoundHours(totals.DBGross),
			record.RoundHours(totals.PDFGross-totals.DBGross),
			record.RoundHours(totals.ManualHours),
			record.RoundHours(totals.DBHours),
			record.RoundHours(totals.ManualHours-totals.DBHours)); err != nil {
			return err
		}
	}

	if err := writeManualSources(file, manual, bold); err != nil {
		return err
	}
	if err := summary.autosize(12); err != nil {
		return err
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save audit workbook %s: %w", path, err)
	}
	return nil
}

func writeManualSources(file *excelize.File, manual []record.Record, bold int) error {
	sheet, err := addSheet(file, "Manual_Sources")
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

	sorted := make([]record.Record, len(manual))
	copy(sorted, manual)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Employee < sorted[j].Employee
	})
	for _, rec := range sorted {
		if _, err := sheet.appendRow(rec.Date, rec.Employee, rec.Customer, rec.Hours, rec.Source); err != nil {
			return err
		}
	}
	return sheet.autosize(12)
}
