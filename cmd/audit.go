package cmd

import (
	"fmt"
	"hoursync/output"
	"hoursync/paystub"
	"hoursync/reconcile"
	"hoursync/record"
	"hoursync/storage"
	"hoursync/timesheet"
	"strings"

	"github.com/spf13/cobra"
)

var (
	auditPDFs        []string
	auditDBPath      string
	auditExportsRoot string
	auditWeeks       []string
	auditVoiceFiles  []string
	auditOCRReview   string
	auditMonthHint   string
	auditRatesPath   string
	auditDept        string
	auditOut         string
	auditFilterToPDF bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit payroll register PDFs against snapshot hours and rates",
	Long: `Line up gross wages from weekly payroll register PDFs with the hours and
pay rates recorded in the production snapshot, plus manual timesheet hours
for the same weeks.

Each register's pay week comes from the mmddyy date embedded in its file
name. Every employee seen by any source gets one row per week, flagged when
the figures disagree:
- missing_db_hours: the register paid wages but the snapshot has no hours
- rate_mismatch: gross divided by snapshot hours strays from the pay rate
- manual_not_in_db: manual timesheets carry hours the snapshot lacks
- hours_mismatch: manual and snapshot hours differ by a quarter hour or more`,
	Example: `
  # Audit one register against the snapshot and manual exports
  hoursync audit --pdfs "./Check Register 021026.pdf" --db ./app.db --exports-root ./exports --out ./audit.xlsx

  # Two registers, manual exports restricted to two week directories
  hoursync audit --pdfs ./reg1.pdf --pdfs ./reg2.pdf --db ./app.db --exports-root ./exports -w "Week Feb 2-8" -w "Week Feb 9-15" --out ./audit.xlsx

  # Drop snapshot employees the register never paid
  hoursync audit --pdfs ./reg.pdf --db ./app.db --exports-root ./exports --filter-db-to-pdf --out ./audit.xlsx

  # Override snapshot pay rates from a rates CSV
  hoursync audit --pdfs ./reg.pdf --db ./app.db --exports-root ./exports --rates ./rates.csv --out ./audit.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registers, err := paystub.ReadRegisters(auditPDFs, resolveDepartment(auditDept))
		if err != nil {
			return err
		}
		if len(registers) == 0 {
			return fmt.Errorf("no registers read: pass at least one --pdfs file")
		}
		windows := registerWindows(registers)
		grossByWeek := registerGrossByWeek(registers)

		collected, err := timesheet.Collect(timesheet.Sources{
			ExportsRoot: auditExportsRoot,
			Weeks:       auditWeeks,
			MonthHint:   auditMonthHint,
			VoiceFiles:  auditVoiceFiles,
			OCRReview:   auditOCRReview,
		})
		if err != nil {
			return err
		}
		manualByWeek := reconcile.ManualHoursByWeek(collected.Records, windows)

		store, err := storage.OpenSnapshot(resolveSnapshotPath(auditDBPath))
		if err != nil {
			return err
		}
		defer store.Close()

		rates, err := store.LoadRates()
		if err != nil {
			return err
		}
		if strings.TrimSpace(auditRatesPath) != "" {
			overrides, err := record.LoadRates(auditRatesPath)
			if err != nil {
				return err
			}
			for employee, rate := range overrides {
				rates.Set(employee, rate)
			}
		}

		audits := make([]reconcile.WeekAudit, 0, len(windows))
		rowCount := 0
		flagged := 0
		for _, window := range windows {
			dbHours, err := store.HoursByEmployee(window.Start.Format(dayLayout), window.End.Format(dayLayout))
			if err != nil {
				return err
			}
			audit := reconcile.BuildWeekAudit(window, grossByWeek[window.ID], dbHours, manualByWeek[window.ID], rates, auditFilterToPDF)
			for _, row := range audit.Rows {
				rowCount++
				if !row.Matches() {
					flagged++
				}
			}
			audits = append(audits, audit)
		}

		if err := output.WriteAudit(auditOut, audits, collected.Records); err != nil {
			return err
		}

		fmt.Printf("Audit completed. Weeks: %d, Rows: %d, Flagged: %d, Manual files: %d, File: %s\n",
			len(audits),
			rowCount,
			flagged,
			collected.ManualFiles+collected.VoiceFiles+collected.OCRFiles,
			auditOut,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringArrayVarP(&auditPDFs, "pdfs", "p", nil, "Payroll register PDF path (repeatable)")
	auditCmd.Flags().StringVar(&auditDBPath, "db", "", "Path to the snapshot SQLite database (default: snapshot.db from config)")
	auditCmd.Flags().StringVar(&auditExportsRoot, "exports-root", "", "Directory holding Week* manual export directories")
	auditCmd.Flags().StringArrayVarP(&auditWeeks, "week", "w", nil, "Week directory under the exports root (repeatable; default: every Week* directory)")
	auditCmd.Flags().StringArrayVar(&auditVoiceFiles, "voice", nil, "Voice transcript workbook path (repeatable)")
	auditCmd.Flags().StringVar(&auditOCRReview, "ocr-review", "", "OCR review workbook path")
	auditCmd.Flags().StringVar(&auditMonthHint, "month-hint", "", "Month for manual day numbers, format YYYY-MM (default: file modification time)")
	auditCmd.Flags().StringVar(&auditRatesPath, "rates", "", "Rates CSV (employee,rate) overriding snapshot pay rates")
	auditCmd.Flags().StringVar(&auditDept, "dept", "", "Register department filter; \"all\" keeps every department (default: report.department from config)")
	auditCmd.Flags().StringVarP(&auditOut, "out", "o", "./audit.xlsx", "Output workbook path")
	auditCmd.Flags().BoolVar(&auditFilterToPDF, "filter-db-to-pdf", false, "Drop snapshot and manual employees the register never paid")

	_ = auditCmd.MarkFlagRequired("pdfs")
}
