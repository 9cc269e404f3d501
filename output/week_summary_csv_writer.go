package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

func writeWeekSummariesCSV(path string, summaries []WeekSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"WeekEnd", "WeekStart", "Employee", "Hours", "Days", "Customers", "RecordCount"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, summary := range summaries {
		row := []string{
			summary.WeekEnd,
			summary.WeekStart,
			summary.Employee,
			fmt.Sprintf("%.2f", summary.Hours),
			strconv.Itoa(summary.Days),
			strconv.Itoa(summary.Customers),
			strconv.Itoa(summary.RecordCount),
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
