package timesheet

import (
	"hoursync/record"
)

// ocrReviewSheet is the worksheet name the OCR pipeline writes its reviewed
// rows to.
const ocrReviewSheet = "Review"

// ParseOCRReview parses an OCR review workbook. Only the Review sheet is
// read; its first row must name the date, employee, customer and hours
// columns, with an optional source_image column feeding the record source.
func ParseOCRReview(path string) ([]record.Record, error) {
	sheets, err := ReadSheets(path)
	if err != nil {
		return nil, err
	}

	var review *Sheet
	for i := range sheets {
		if sheets[i].Name == ocrReviewSheet {
			review = &sheets[i]
			break
		}
	}
	if review == nil || len(review.Rows) == 0 {
		return nil, nil
	}

	columns := headerColumns(review.Rows[0])
	dateCol, dateOK := columns["date"]
	employeeCol, employeeOK := columns["employee"]
	customerCol, customerOK := columns["customer"]
	hoursCol, hoursOK := columns["hours"]
	if !dateOK || !employeeOK || !customerOK || !hoursOK {
		return nil, nil
	}
	imageCol, hasImageCol := columns["source_image"]

	var records []record.Record
	for r := 1; r < len(review.Rows); r++ {
		if len(review.Rows[r]) == 0 {
			continue
		}
		dateCell := review.Cell(r, dateCol)
		employee := review.Cell(r, employeeCol)
		hoursCell := review.Cell(r, hoursCol)
		if dateCell == "" || employee == "" || isZeroCell(hoursCell) {
			continue
		}
		date, ok := parseEntryDate(dateCell)
		if !ok {
			continue
		}
		customer := review.Cell(r, customerCol)
		if customer == "" {
			customer = "Unknown"
		}

		source := "ocr"
		if hasImageCol {
			if image := review.Cell(r, imageCol); image != "" {
				source = "ocr:" + image
			}
		}

		records = append(records, record.Record{
			Date:     date,
			Employee: employee,
			Customer: customer,
			Hours:    parseHours(hoursCell),
			Source:   source,
		})
	}
	return records, nil
}
