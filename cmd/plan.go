package cmd

import (
	"fmt"
	"hoursync/paystub"
	"hoursync/reconcile"
	"hoursync/record"
	"hoursync/storage"
	"hoursync/submitter"
	"hoursync/timesheet"

	"github.com/spf13/cobra"
)

var (
	planPDFs         []string
	planWeekMap      string
	planDBPath       string
	planExportsRoot  string
	planWeeks        []string
	planVoiceFiles   []string
	planOCRReview    string
	planMonthHint    string
	planDept         string
	planStatus       string
	planOut          string
	planAllEmployees bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Turn week gaps into a fixes plan for the production API",
	Long: `Diff manual timesheets against the snapshot exactly like "gaps", then
translate the result into a fixes plan: every manual-only surplus becomes a
queued import, and every db-only surplus resolves to concrete snapshot
entry IDs queued for deletion. A db-only key with no resolvable entry ID
contributes no delete.

The plan is written as JSON for review and applied later with "apply".
Nothing here talks to the production API.`,
	Example: `
  # Plan fixes for the weeks covered by a register
  hoursync plan --pdfs ./reg.pdf --db ./app.db --exports-root ./exports --out ./plan.json

  # Weeks from an explicit week map, imports queued as PENDING
  hoursync plan --week-map ./weeks.csv --db ./app.db --exports-root ./exports --status PENDING --out ./plan.json

  # Review, then push
  hoursync apply --plan ./plan.json --dry-run
  hoursync apply --plan ./plan.json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registers, err := paystub.ReadRegisters(planPDFs, resolveDepartment(planDept))
		if err != nil {
			return err
		}
		windows, err := resolveWeekWindows(registers, planWeekMap)
		if err != nil {
			return err
		}

		collected, err := timesheet.Collect(timesheet.Sources{
			ExportsRoot: planExportsRoot,
			Weeks:       planWeeks,
			MonthHint:   planMonthHint,
			VoiceFiles:  planVoiceFiles,
			OCRReview:   planOCRReview,
		})
		if err != nil {
			return err
		}
		manual := reconcile.FilterByWeeks(collected.Records, windows)

		store, err := storage.OpenSnapshot(resolveSnapshotPath(planDBPath))
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

		if len(registers) > 0 && !planAllEmployees {
			employees := paystub.Employees(registers)
			manual = reconcile.FilterByEmployees(manual, employees)
			db = reconcile.FilterByEmployees(db, employees)
		}

		gaps := make([]reconcile.WeekGap, 0, len(windows))
		for _, window := range windows {
			scope := []record.WeekWindow{window}
			gap := reconcile.BuildWeekGap(window, reconcile.FilterByWeeks(manual, scope), reconcile.FilterByWeeks(db, scope))
			manualOnly, dbOnly := gap.Counts()
			fmt.Printf("Week %s: manual-only=%d db-only=%d\n", window.ID, manualOnly, dbOnly)
			gaps = append(gaps, gap)
		}

		entryIDs, err := store.EntryIDsByKey(from, to)
		if err != nil {
			return err
		}

		plan := submitter.BuildPlan(gaps, entryIDs, planStatus)
		if err := submitter.SavePlan(planOut, plan); err != nil {
			return err
		}

		imports, deletes := plan.Counts()
		fmt.Printf("Plan saved. Imports: %d, Deletes: %d, Default status: %s, File: %s\n",
			imports, deletes, plan.DefaultStatus, planOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringArrayVarP(&planPDFs, "pdfs", "p", nil, "Payroll register PDF path (repeatable; supplies pay weeks and employee scope)")
	planCmd.Flags().StringVar(&planWeekMap, "week-map", "", "Week map CSV (id,start,end) overriding register-derived pay weeks")
	planCmd.Flags().StringVar(&planDBPath, "db", "", "Path to the snapshot SQLite database (default: snapshot.db from config)")
	planCmd.Flags().StringVar(&planExportsRoot, "exports-root", "", "Directory holding Week* manual export directories")
	planCmd.Flags().StringArrayVarP(&planWeeks, "week", "w", nil, "Week directory under the exports root (repeatable; default: every Week* directory)")
	planCmd.Flags().StringArrayVar(&planVoiceFiles, "voice", nil, "Voice transcript workbook path (repeatable)")
	planCmd.Flags().StringVar(&planOCRReview, "ocr-review", "", "OCR review workbook path")
	planCmd.Flags().StringVar(&planMonthHint, "month-hint", "", "Month for manual day numbers, format YYYY-MM (default: file modification time)")
	planCmd.Flags().StringVar(&planDept, "dept", "", "Register department filter; \"all\" keeps every department (default: report.department from config)")
	planCmd.Flags().StringVar(&planStatus, "status", submitter.DefaultImportStatus, "Default status stamped on imported entries")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "./plan.json", "Output plan JSON path")
	planCmd.Flags().BoolVar(&planAllEmployees, "all-employees", false, "Keep employees the registers never paid")
}
