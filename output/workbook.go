// Package output renders reconciliation results as styled workbooks, fills
// payroll report templates and exports parsed records.
package output

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Fill colors for the audit and gap workbooks.
const (
	fillMatch   = "#D6F5D6"
	fillProblem = "#FFD6D6"
	fillReview  = "#FFF2CC"
)

// sheetBuilder appends rows to one sheet top to bottom and remembers the
// widest text per column so the sheet can be autosized afterwards.
type sheetBuilder struct {
	file    *excelize.File
	name    string
	nextRow int
	lengths []int
}

// addSheet creates the sheet if needed and returns an appender for it.
func addSheet(file *excelize.File, name string) (*sheetBuilder, error) {
	if _, err := file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", name, err)
	}
	return &sheetBuilder{file: file, name: name, nextRow: 1}, nil
}

// appendRow writes values into the next free row and returns its number.
func (s *sheetBuilder) appendRow(values ...any) (int, error) {
	row := s.nextRow
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := s.file.SetCellValue(s.name, cell, value); err != nil {
			return 0, fmt.Errorf("set cell %s!%s: %w", s.name, cell, err)
		}
		s.noteWidth(col, value)
	}
	s.nextRow++
	return row, nil
}

// styleRow applies one style across the first columns of a row.
func (s *sheetBuilder) styleRow(row, columns, styleID int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(columns, row)
	if err := s.file.SetCellStyle(s.name, first, last, styleID); err != nil {
		return fmt.Errorf("style row %d of %s: %w", row, s.name, err)
	}
	return nil
}

func (s *sheetBuilder) noteWidth(col int, value any) {
	for len(s.lengths) <= col {
		s.lengths = append(s.lengths, 0)
	}
	if n := len(cellText(value)); n > s.lengths[col] {
		s.lengths[col] = n
	}
}

// autosize fits every column to its content plus padding, clamped between
// minWidth and 40.
func (s *sheetBuilder) autosize(minWidth float64) error {
	for col, length := range s.lengths {
		width := float64(length + 2)
		if width < minWidth {
			width = minWidth
		}
		if width > 40 {
			width = 40
		}
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := s.file.SetColWidth(s.name, name, name, width); err != nil {
			return fmt.Errorf("size column %s of %s: %w", name, s.name, err)
		}
	}
	return nil
}

func cellText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// useDefaultSheet renames the workbook's default sheet so the first report
// sheet does not leave an empty Sheet1 behind.
func useDefaultSheet(file *excelize.File, name string) error {
	if err := file.SetSheetName(file.GetSheetName(0), name); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	return nil
}

func boldStyle(file *excelize.File) (int, error) {
	return file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
}

func fillStyle(file *excelize.File, hex string) (int, error) {
	return file.NewStyle(&excelize.Style{Fill: solidFill(hex)})
}

func solidFill(hex string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1}
}
