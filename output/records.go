package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"hoursync/record"

	"github.com/xuri/excelize/v2"
)

type Writer interface {
	Write(path string, records []record.Record) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

var recordHeaders = []string{"date", "employee", "customer", "hours", "source"}

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, records []record.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(recordHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Date,
			rec.Employee,
			rec.Customer,
			strconv.FormatFloat(rec.Hours, 'f', 2, 64),
			rec.Source,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, records []record.Record) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)

	for col, header := range recordHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []any{rec.Date, rec.Employee, rec.Customer, rec.Hours, rec.Source}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
