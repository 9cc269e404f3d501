package timesheet

import (
	"path/filepath"
	"strings"

	"hoursync/record"
)

// ParseVoiceFile parses a voice-transcription workbook. Each worksheet holds
// one employee's entries; the tab name is the employee, with underscores
// standing in for spaces. The first row must name the date, job and total
// columns or the sheet is skipped.
func ParseVoiceFile(path string) ([]record.Record, error) {
	sheets, err := ReadSheets(path)
	if err != nil {
		return nil, err
	}

	source := "voice:" + filepath.Base(path)
	var records []record.Record
	for _, sheet := range sheets {
		employee := strings.TrimSpace(strings.ReplaceAll(sheet.Name, "_", " "))
		if len(sheet.Rows) == 0 {
			continue
		}
		columns := headerColumns(sheet.Rows[0])
		dateCol, dateOK := columns["date"]
		jobCol, jobOK := columns["job"]
		totalCol, totalOK := columns["total"]
		if !dateOK || !jobOK || !totalOK {
			continue
		}

		for r := 1; r < len(sheet.Rows); r++ {
			if len(sheet.Rows[r]) == 0 {
				continue
			}
			dateCell := sheet.Cell(r, dateCol)
			totalCell := sheet.Cell(r, totalCol)
			if dateCell == "" || isZeroCell(totalCell) {
				continue
			}
			date, ok := parseEntryDate(dateCell)
			if !ok {
				continue
			}
			customer := sheet.Cell(r, jobCol)
			if customer == "" {
				customer = "Unknown"
			}
			hours := parseHours(totalCell)
			if hours <= 0 {
				continue
			}
			records = append(records, record.Record{
				Date:     date,
				Employee: employee,
				Customer: customer,
				Hours:    hours,
				Source:   source,
			})
		}
	}
	return records, nil
}

// isZeroCell reports cells that mean "no hours": empty or a plain zero.
func isZeroCell(value string) bool {
	if value == "" {
		return true
	}
	if parsed, ok := parseFloatCell(value); ok {
		return parsed == 0
	}
	return false
}
