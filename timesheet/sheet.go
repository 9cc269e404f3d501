package timesheet

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet as a plain cell grid. Positional access is what the
// manual-timesheet state machine needs; the voice and OCR table shapes locate
// their columns by header cell instead.
type Sheet struct {
	Name string
	Rows [][]string
}

// Cell returns the trimmed value at (row, col), or "" when the grid is
// ragged short of that position.
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	cells := s.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

// ReadSheets loads every worksheet of an .xls or .xlsx/.xlsm workbook.
// Legacy .xls files go through the BIFF reader; everything else through
// excelize.
func ReadSheets(path string) ([]Sheet, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xls" {
		return readLegacySheets(path)
	}
	return readExcelSheets(path)
}

func readLegacySheets(path string) ([]Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xls file %s: %w", path, err)
	}
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls file %s: %w", path, err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("xls file has no sheets: %s", path)
	}

	sheets := make([]Sheet, 0, workbook.NumSheets())
	for i := 0; i < workbook.NumSheets(); i++ {
		worksheet := workbook.GetSheet(i)
		if worksheet == nil {
			continue
		}
		rows := make([][]string, 0, int(worksheet.MaxRow)+1)
		for r := 0; r <= int(worksheet.MaxRow); r++ {
			row := worksheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, Sheet{Name: worksheet.Name, Rows: rows})
	}
	return sheets, nil
}

func readExcelSheets(path string) ([]Sheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read rows from sheet %s: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// headerColumns maps each distinct lowered, trimmed cell of a row to its
// first column index. Lookups against it are exact-cell matches; "date"
// never matches a "due date" header.
func headerColumns(cells []string) map[string]int {
	columns := make(map[string]int, len(cells))
	for i, cell := range cells {
		key := strings.ToLower(strings.TrimSpace(cell))
		if key == "" {
			continue
		}
		if _, ok := columns[key]; !ok {
			columns[key] = i
		}
	}
	return columns
}

// headerScanLimit bounds the header search; header rows live near the top of
// every export this toolkit has seen.
const headerScanLimit = 10

// findHeaderRow scans the first rows of a sheet for one containing every
// wanted header cell. It returns the row index and a header -> column map,
// or ok=false when no row qualifies.
func findHeaderRow(sheet Sheet, headers ...string) (int, map[string]int, bool) {
	limit := len(sheet.Rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for r := 0; r < limit; r++ {
		columns := headerColumns(sheet.Rows[r])
		found := make(map[string]int, len(headers))
		for _, header := range headers {
			column, ok := columns[header]
			if !ok {
				break
			}
			found[header] = column
		}
		if len(found) == len(headers) {
			return r, found, true
		}
	}
	return 0, nil, false
}
