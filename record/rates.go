package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// RateTable maps normalized employee names to hourly dollar rates. Hours
// stay the primary reconciled quantity; dollars are derived for display.
type RateTable map[string]float64

// Rate returns the hourly rate for an employee, zero when unknown.
func (t RateTable) Rate(employee string) float64 {
	return t[Normalize(employee)]
}

func (t RateTable) Set(employee string, rate float64) {
	t[Normalize(employee)] = rate
}

// LoadRates reads a rates CSV with columns employee,rate (header row
// optional). Used when no database snapshot is available.
func LoadRates(path string) (RateTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rates file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}

	table := make(RateTable, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if i == 0 && strings.EqualFold(name, "employee") {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("rates row %d: parse rate: %w", i+1, err)
		}
		table.Set(name, rate)
	}
	return table, nil
}
