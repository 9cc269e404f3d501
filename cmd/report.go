package cmd

import (
	"fmt"
	"hoursync/output"
	"hoursync/reconcile"
	"hoursync/storage"
	"hoursync/timesheet"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	reportTruthPath   string
	reportTemplate    string
	reportDBPath      string
	reportExportsRoot string
	reportWeeks       []string
	reportVoiceFiles  []string
	reportOCRReview   string
	reportMonthHint   string
	reportOut         string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the weekly reconciliation statement, or populate a report template",
	Long: `Reconcile the payroll register truth table against snapshot entries and
manual timesheets, one column group per pay week, and render the styled
statement workbook: the summary matrix, the fixes-needed list, and the
per-client breakdown. A console recap prints the same totals.

The truth table is a CSV with columns week,employee,gross,rate,hours; its
week column carries the week-ending date and fixes the pay weeks of the
statement.

With --template the command populates an existing weekly report workbook
instead: each sheet named like "MM/DD/YY - MM/DD/YY" receives the manual
hours for its week under the matching day columns, cells that drift from
the snapshot are highlighted, and a Manual Entries sheet is appended.`,
	Example: `
  # Statement against the register truth table
  hoursync report --truth ./register.csv --db ./app.db --exports-root ./exports --out ./statement.xlsx

  # Include voice transcripts and the OCR review sheet
  hoursync report --truth ./register.csv --db ./app.db --exports-root ./exports --voice ./voice.xlsx --ocr-review ./review.xlsx

  # Populate the client's weekly report workbook from manual sources
  hoursync report --template "./Febrero 2026.xlsx" --db ./app.db --exports-root ./exports
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		truthGiven := strings.TrimSpace(reportTruthPath) != ""
		templateGiven := strings.TrimSpace(reportTemplate) != ""
		if truthGiven == templateGiven {
			return fmt.Errorf("pass exactly one of --truth (statement) or --template (template population)")
		}

		collected, err := timesheet.Collect(timesheet.Sources{
			ExportsRoot: reportExportsRoot,
			Weeks:       reportWeeks,
			MonthHint:   reportMonthHint,
			VoiceFiles:  reportVoiceFiles,
			OCRReview:   reportOCRReview,
		})
		if err != nil {
			return err
		}

		store, err := storage.OpenSnapshot(resolveSnapshotPath(reportDBPath))
		if err != nil {
			return err
		}
		defer store.Close()

		if templateGiven {
			approved, err := store.LoadApprovedKeys()
			if err != nil {
				return err
			}
			out := resolveReportOut(reportOut, reportTemplate)
			if err := output.PopulateTemplate(reportTemplate, out, collected.Records, approved); err != nil {
				return err
			}
			fmt.Printf("Template populated. Manual records: %d, Source files: %d, File: %s\n",
				len(collected.Records),
				collected.ManualFiles+collected.VoiceFiles+collected.OCRFiles,
				out,
			)
			return nil
		}

		truth, err := reconcile.LoadTruth(reportTruthPath)
		if err != nil {
			return err
		}
		from, to := weekSpan(truth.Weeks())
		prod, err := store.LoadEntries(from, to)
		if err != nil {
			return err
		}

		statement := reconcile.BuildStatement(truth, prod, collected.Records)
		out := resolveReportOut(reportOut, "")
		if err := output.WriteStatement(out, statement); err != nil {
			return err
		}
		output.PrintStatementSummary(os.Stdout, statement, out)
		return nil
	},
}

// resolveReportOut picks the output path: the flag when set, a name derived
// from the template in template mode, ./statement.xlsx otherwise.
func resolveReportOut(flagValue, templatePath string) string {
	if value := strings.TrimSpace(flagValue); value != "" {
		return value
	}
	if templatePath != "" {
		ext := filepath.Ext(templatePath)
		return strings.TrimSuffix(templatePath, ext) + "_populated" + ext
	}
	return "./statement.xlsx"
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportTruthPath, "truth", "", "Register truth table CSV (week,employee,gross,rate,hours)")
	reportCmd.Flags().StringVar(&reportTemplate, "template", "", "Weekly report workbook to populate instead of building a statement")
	reportCmd.Flags().StringVar(&reportDBPath, "db", "", "Path to the snapshot SQLite database (default: snapshot.db from config)")
	reportCmd.Flags().StringVar(&reportExportsRoot, "exports-root", "", "Directory holding Week* manual export directories")
	reportCmd.Flags().StringArrayVarP(&reportWeeks, "week", "w", nil, "Week directory under the exports root (repeatable; default: every Week* directory)")
	reportCmd.Flags().StringArrayVar(&reportVoiceFiles, "voice", nil, "Voice transcript workbook path (repeatable)")
	reportCmd.Flags().StringVar(&reportOCRReview, "ocr-review", "", "OCR review workbook path")
	reportCmd.Flags().StringVar(&reportMonthHint, "month-hint", "", "Month for manual day numbers, format YYYY-MM (default: file modification time)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output workbook path (default: ./statement.xlsx, or <template>_populated.xlsx)")
}
