package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func writeWeekSummariesExcel(path string, summaries []WeekSummary) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"WeekEnd", "WeekStart", "Employee", "Hours", "Days", "Customers", "RecordCount"}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, summary := range summaries {
		row := i + 2
		values := []any{
			summary.WeekEnd,
			summary.WeekStart,
			summary.Employee,
			summary.Hours,
			summary.Days,
			summary.Customers,
			summary.RecordCount,
		}

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
