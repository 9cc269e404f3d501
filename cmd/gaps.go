package cmd

import (
	"fmt"
	"hoursync/output"
	"hoursync/paystub"
	"hoursync/reconcile"
	"hoursync/record"
	"hoursync/storage"
	"hoursync/timesheet"

	"github.com/spf13/cobra"
)

var (
	gapsPDFs         []string
	gapsWeekMap      string
	gapsDBPath       string
	gapsExportsRoot  string
	gapsWeeks        []string
	gapsVoiceFiles   []string
	gapsOCRReview    string
	gapsMonthHint    string
	gapsDept         string
	gapsOut          string
	gapsAllEmployees bool
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Diff manual timesheets against the snapshot, week by week",
	Long: `Compare manual timesheet records against snapshot entries as exact
multisets of (date, employee, customer, hours) keys, one diff per pay week.

Pay weeks come from register PDF file names or from an explicit week-map
CSV (id,start,end). When registers are given, both sides are scoped to the
employees the registers paid; --all-employees lifts that scope. Records
dated outside every pay week are dropped.

A timesheet entry with no snapshot counterpart surfaces as manual_only; a
snapshot entry with no timesheet counterpart as db_only. Matching
occurrences cancel, so a double entry against a single snapshot row leaves
a manual_only surplus of one.`,
	Example: `
  # Gaps for the weeks covered by two registers
  hoursync gaps --pdfs ./reg1.pdf --pdfs ./reg2.pdf --db ./app.db --exports-root ./exports --out ./gaps.xlsx

  # Weeks from an explicit week map, every employee included
  hoursync gaps --week-map ./weeks.csv --db ./app.db --exports-root ./exports --all-employees --out ./gaps.xlsx

  # Include voice transcripts and the OCR review sheet
  hoursync gaps --pdfs ./reg.pdf --db ./app.db --exports-root ./exports --voice ./voice.xlsx --ocr-review ./review.xlsx --out ./gaps.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registers, err := paystub.ReadRegisters(gapsPDFs, resolveDepartment(gapsDept))
		if err != nil {
			return err
		}
		windows, err := resolveWeekWindows(registers, gapsWeekMap)
		if err != nil {
			return err
		}

		collected, err := timesheet.Collect(timesheet.Sources{
			ExportsRoot: gapsExportsRoot,
			Weeks:       gapsWeeks,
			MonthHint:   gapsMonthHint,
			VoiceFiles:  gapsVoiceFiles,
			OCRReview:   gapsOCRReview,
		})
		if err != nil {
			return err
		}
		manual := reconcile.FilterByWeeks(collected.Records, windows)

		store, err := storage.OpenSnapshot(resolveSnapshotPath(gapsDBPath))
		if err != nil {
			return err
		}
		defer store.Close()

		from, to := weekSpan(windows)
		db, err := store.LoadEntries(from, to)
		if err != nil {
			return err
		}
		db = reconcile.FilterByWeeks(db, windows)

		if len(registers) > 0 && !gapsAllEmployees {
			employees := paystub.Employees(registers)
			manual = reconcile.FilterByEmployees(manual, employees)
			db = reconcile.FilterByEmployees(db, employees)
		}

		gaps := make([]reconcile.WeekGap, 0, len(windows))
		totalManualOnly := 0
		totalDBOnly := 0
		for _, window := range windows {
			scope := []record.WeekWindow{window}
			gap := reconcile.BuildWeekGap(window, reconcile.FilterByWeeks(manual, scope), reconcile.FilterByWeeks(db, scope))
			manualOnly, dbOnly := gap.Counts()
			totalManualOnly += manualOnly
			totalDBOnly += dbOnly
			gaps = append(gaps, gap)
		}

		if err := output.WriteGaps(gapsOut, gaps); err != nil {
			return err
		}

		fmt.Printf("Gap report completed. Weeks: %d, Manual records: %d, DB records: %d, Manual-only: %d, DB-only: %d, File: %s\n",
			len(gaps),
			len(manual),
			len(db),
			totalManualOnly,
			totalDBOnly,
			gapsOut,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gapsCmd)

	gapsCmd.Flags().StringArrayVarP(&gapsPDFs, "pdfs", "p", nil, "Payroll register PDF path (repeatable; supplies pay weeks and employee scope)")
	gapsCmd.Flags().StringVar(&gapsWeekMap, "week-map", "", "Week map CSV (id,start,end) overriding register-derived pay weeks")
	gapsCmd.Flags().StringVar(&gapsDBPath, "db", "", "Path to the snapshot SQLite database (default: snapshot.db from config)")
	gapsCmd.Flags().StringVar(&gapsExportsRoot, "exports-root", "", "Directory holding Week* manual export directories")
	gapsCmd.Flags().StringArrayVarP(&gapsWeeks, "week", "w", nil, "Week directory under the exports root (repeatable; default: every Week* directory)")
	gapsCmd.Flags().StringArrayVar(&gapsVoiceFiles, "voice", nil, "Voice transcript workbook path (repeatable)")
	gapsCmd.Flags().StringVar(&gapsOCRReview, "ocr-review", "", "OCR review workbook path")
	gapsCmd.Flags().StringVar(&gapsMonthHint, "month-hint", "", "Month for manual day numbers, format YYYY-MM (default: file modification time)")
	gapsCmd.Flags().StringVar(&gapsDept, "dept", "", "Register department filter; \"all\" keeps every department (default: report.department from config)")
	gapsCmd.Flags().StringVarP(&gapsOut, "out", "o", "./gaps.xlsx", "Output workbook path")
	gapsCmd.Flags().BoolVar(&gapsAllEmployees, "all-employees", false, "Keep employees the registers never paid")
}
