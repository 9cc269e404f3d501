package cmd

import (
	"fmt"
	"hoursync/output"
	"hoursync/paystub"
	"hoursync/timesheet"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	extractExportsRoot string
	extractWeeks       []string
	extractVoiceFiles  []string
	extractOCRReview   string
	extractMonthHint   string
	extractPDFs        []string
	extractWeekMap     string
	extractDept        string
	extractMode        string
	extractFormat      string
	extractOutput      string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Dump parsed timesheet records to CSV/Excel",
	Long: `Parse manual exports, voice transcripts, and the OCR review sheet into
canonical records and write them out for inspection.

Modes:
- raw: one row per parsed record (date, employee, customer, hours, source)
- weekly: per-week per-employee hour totals; pay weeks come from a week-map
  CSV or from register PDF file names

Output format can be selected explicitly via --format or inferred from the
output extension.`,
	Example: `
  # Dump every parsed record to CSV
  hoursync extract --exports-root ./exports --output ./records.csv

  # One week directory plus a voice transcript, to Excel
  hoursync extract --exports-root ./exports -w "Week Feb 9-15" --voice ./voice.xlsx --output ./records.xlsx

  # Weekly totals for the weeks a register covers
  hoursync extract --exports-root ./exports --mode weekly --pdfs ./reg.pdf --output ./weekly.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := extractFormat
		if strings.TrimSpace(format) == "" {
			format = detectOutputFormat(extractOutput)
		}

		collected, err := timesheet.Collect(timesheet.Sources{
			ExportsRoot: extractExportsRoot,
			Weeks:       extractWeeks,
			MonthHint:   extractMonthHint,
			VoiceFiles:  extractVoiceFiles,
			OCRReview:   extractOCRReview,
		})
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(extractMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(extractOutput, collected.Records); err != nil {
				return err
			}
			fmt.Printf("Extract completed. Records: %d, Files: %d, Mode: raw, Format: %s, File: %s\n",
				len(collected.Records),
				collected.ManualFiles+collected.VoiceFiles+collected.OCRFiles,
				format,
				extractOutput,
			)
		case "weekly":
			registers, err := paystub.ReadRegisters(extractPDFs, resolveDepartment(extractDept))
			if err != nil {
				return err
			}
			windows, err := resolveWeekWindows(registers, extractWeekMap)
			if err != nil {
				return err
			}
			summaries := output.BuildWeekSummaries(collected.Records, windows)
			if err := output.WriteWeekSummaries(extractOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Extract completed. Summary rows: %d, Weeks: %d, Mode: weekly, Format: %s, File: %s\n",
				len(summaries),
				len(windows),
				format,
				extractOutput,
			)
		default:
			return fmt.Errorf("unsupported extract mode: %s (supported: raw, weekly)", extractMode)
		}
		return nil
	},
}

func detectOutputFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractExportsRoot, "exports-root", "", "Directory holding Week* manual export directories")
	extractCmd.Flags().StringArrayVarP(&extractWeeks, "week", "w", nil, "Week directory under the exports root (repeatable; default: every Week* directory)")
	extractCmd.Flags().StringArrayVar(&extractVoiceFiles, "voice", nil, "Voice transcript workbook path (repeatable)")
	extractCmd.Flags().StringVar(&extractOCRReview, "ocr-review", "", "OCR review workbook path")
	extractCmd.Flags().StringVar(&extractMonthHint, "month-hint", "", "Month for manual day numbers, format YYYY-MM (default: file modification time)")
	extractCmd.Flags().StringArrayVarP(&extractPDFs, "pdfs", "p", nil, "Payroll register PDF supplying pay weeks for weekly mode (repeatable)")
	extractCmd.Flags().StringVar(&extractWeekMap, "week-map", "", "Week map CSV (id,start,end) supplying pay weeks for weekly mode")
	extractCmd.Flags().StringVar(&extractDept, "dept", "", "Register department filter; \"all\" keeps every department (default: report.department from config)")
	extractCmd.Flags().StringVar(&extractMode, "mode", "raw", "Extract mode: raw|weekly")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output file path")

	_ = extractCmd.MarkFlagRequired("output")
}
