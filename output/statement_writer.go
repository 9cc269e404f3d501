package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"hoursync/reconcile"
)

// Fill colors for the reconciliation statement.
const (
	stmtRed    = "#FFCCCC"
	stmtGreen  = "#CCFFCC"
	stmtYellow = "#FFFFCC"
	stmtOrange = "#FFD699"
	stmtBlue   = "#4472C4"
	stmtGray   = "#D9D9D9"
)

// Number formats for the statement cells.
const (
	fmtMoney      = "#,##0.00"
	fmtHours      = "0.000"
	fmtHoursDelta = "+0.000;-0.000;0"
	fmtMoneyDelta = "+#,##0.00;-#,##0.00;$0"
)

type statementStyles struct {
	title   int
	legend  int
	section int
	header  int

	cell       int
	cellBold   int
	cellWrap   int
	cellGray   int
	cellOrange int
	cellRed    int
	cellYellow int

	money         int
	moneyBold     int
	moneyGapTotal int

	hours       int
	hoursBold   int
	hoursGreen  int
	hoursRed    int
	hoursYellow int

	deltaGreen int
	deltaRed   int

	moneyDeltaGreen     int
	moneyDeltaRed       int
	moneyDeltaGreenBold int
	moneyDeltaRedBold   int
}

// styleTable collects NewStyle results and keeps the first error so style
// construction reads as a flat list.
type styleTable struct {
	file *excelize.File
	err  error
}

func (t *styleTable) add(style *excelize.Style) int {
	if t.err != nil {
		return 0
	}
	id, err := t.file.NewStyle(style)
	if err != nil {
		t.err = err
	}
	return id
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func numFmt(format string) *string {
	return &format
}

func newStatementStyles(file *excelize.File) (statementStyles, error) {
	t := &styleTable{file: file}
	border := thinBorder()
	bold := &excelize.Font{Bold: true, Size: 11}
	boldRed := &excelize.Font{Bold: true, Size: 11, Color: "CC0000"}

	styles := statementStyles{
		title:   t.add(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}),
		legend:  t.add(&excelize.Style{Font: &excelize.Font{Italic: true, Size: 10}}),
		section: t.add(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}}),
		header: t.add(&excelize.Style{
			Fill:      solidFill(stmtBlue),
			Font:      &excelize.Font{Color: "FFFFFF", Bold: true, Size: 11},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
		}),

		cell:     t.add(&excelize.Style{Border: border}),
		cellBold: t.add(&excelize.Style{Border: border, Font: bold}),
		cellWrap: t.add(&excelize.Style{
			Border:    border,
			Alignment: &excelize.Alignment{WrapText: true},
		}),
		cellGray:   t.add(&excelize.Style{Border: border, Fill: solidFill(stmtGray)}),
		cellOrange: t.add(&excelize.Style{Border: border, Fill: solidFill(stmtOrange)}),
		cellRed:    t.add(&excelize.Style{Border: border, Fill: solidFill(stmtRed)}),
		cellYellow: t.add(&excelize.Style{Border: border, Fill: solidFill(stmtYellow)}),

		money:     t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtMoney)}),
		moneyBold: t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtMoney), Font: bold}),
		moneyGapTotal: t.add(&excelize.Style{
			Border:       border,
			CustomNumFmt: numFmt(fmtMoney),
			Fill:         solidFill(stmtRed),
			Font:         boldRed,
		}),

		hours:       t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtHours)}),
		hoursBold:   t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtHours), Font: bold}),
		hoursGreen:  t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtHours), Fill: solidFill(stmtGreen)}),
		hoursRed:    t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtHours), Fill: solidFill(stmtRed)}),
		hoursYellow: t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtHours), Fill: solidFill(stmtYellow)}),

		deltaGreen: t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtHoursDelta), Fill: solidFill(stmtGreen)}),
		deltaRed: t.add(&excelize.Style{
			Border:       border,
			CustomNumFmt: numFmt(fmtHoursDelta),
			Fill:         solidFill(stmtRed),
			Font:         boldRed,
		}),

		moneyDeltaGreen: t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtMoneyDelta), Fill: solidFill(stmtGreen)}),
		moneyDeltaRed: t.add(&excelize.Style{
			Border:       border,
			CustomNumFmt: numFmt(fmtMoneyDelta),
			Fill:         solidFill(stmtRed),
			Font:         boldRed,
		}),
		moneyDeltaGreenBold: t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtMoneyDelta), Fill: solidFill(stmtGreen), Font: bold}),
		moneyDeltaRedBold:   t.add(&excelize.Style{Border: border, CustomNumFmt: numFmt(fmtMoneyDelta), Fill: solidFill(stmtRed), Font: bold}),
	}
	if t.err != nil {
		return statementStyles{}, fmt.Errorf("build statement styles: %w", t.err)
	}
	return styles, nil
}

// setCell writes a value and style at a position. The coordinates are always
// program generated, so the excelize errors have nothing to report.
func setCell(file *excelize.File, sheet string, row, col int, value any, styleID int) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	file.SetCellValue(sheet, cell, value)
	if styleID != 0 {
		file.SetCellStyle(sheet, cell, cell, styleID)
	}
}

func mergeAcross(file *excelize.File, sheet string, row, columns int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(columns, row)
	if err := file.MergeCell(sheet, first, last); err != nil {
		return fmt.Errorf("merge %s row %d: %w", sheet, row, err)
	}
	return nil
}

// WriteStatement renders the register-versus-production statement: a Summary
// matrix per employee and week, a Fixes Needed sheet listing the exact
// adjustments, and a Client Breakdown sheet pairing each manual timesheet
// against the production export.
func WriteStatement(path string, statement *reconcile.Statement) error {
	file := excelize.NewFile()
	defer file.Close()

	styles, err := newStatementStyles(file)
	if err != nil {
		return err
	}

	if err := writeStatementSummary(file, styles, statement); err != nil {
		return err
	}
	if err := writeStatementFixes(file, styles, statement); err != nil {
		return err
	}
	if err := writeStatementBreakdown(file, styles, statement); err != nil {
		return err
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save statement workbook %s: %w", path, err)
	}
	return nil
}

func statementTitle(weeks []string) string {
	if len(weeks) == 1 {
		return "LABOR RECONCILIATION - week ending " + weeks[0]
	}
	return fmt.Sprintf("LABOR RECONCILIATION - weeks ending %s to %s", weeks[0], weeks[len(weeks)-1])
}

func writeStatementSummary(file *excelize.File, st statementStyles, statement *reconcile.Statement) error {
	const sheet = "Summary"
	if err := useDefaultSheet(file, sheet); err != nil {
		return err
	}

	weeks := statement.Truth.WeekIDs()
	lastCol := 2 + 6*len(weeks)

	if err := mergeAcross(file, sheet, 1, lastCol); err != nil {
		return err
	}
	setCell(file, sheet, 1, 1, statementTitle(weeks), st.title)
	if err := mergeAcross(file, sheet, 2, lastCol); err != nil {
		return err
	}
	setCell(file, sheet, 2, 1,
		"PDF Labor Report = Source of Truth  |  Yellow = needs adjustment  |  Red = missing from prod  |  Green = matches",
		st.legend)

	setCell(file, sheet, 4, 1, "Employee", st.header)
	setCell(file, sheet, 4, 2, "$/hr", st.header)
	for wi, weekID := range weeks {
		base := 3 + wi*6
		for i, label := range []string{"PDF Hrs", "Prod Hrs", "Manual Hrs", "Δ Hrs", "PDF $", "Δ $"} {
			setCell(file, sheet, 4, base+i, weekID+"\n"+label, st.header)
		}
	}

	row := 5
	for _, employee := range statement.Truth.Employees() {
		rate := statement.Truth.Rate(employee)
		setCell(file, sheet, row, 1, employee, st.cellBold)
		setCell(file, sheet, row, 2, rate, st.money)

		for wi, weekID := range weeks {
			base := 3 + wi*6
			truthRow, _ := statement.Truth.Row(weekID, employee)
			prod := statement.ProdLine(weekID, employee)
			manual := statement.ManualLine(weekID, employee)
			deltaHours := prod.Hours - truthRow.Hours
			deltaGross := deltaHours * rate
			match := math.Abs(deltaHours) < reconcile.GrossTolerance

			setCell(file, sheet, row, base, truthRow.Hours, st.hours)
			prodStyle := st.hoursYellow
			if match {
				prodStyle = st.hoursGreen
			} else if prod.Hours == 0 {
				prodStyle = st.hoursRed
			}
			setCell(file, sheet, row, base+1, prod.Hours, prodStyle)
			setCell(file, sheet, row, base+2, manual.Hours, st.hours)

			deltaStyle := st.deltaRed
			if match {
				deltaStyle = st.deltaGreen
			}
			setCell(file, sheet, row, base+3, deltaHours, deltaStyle)
			setCell(file, sheet, row, base+4, truthRow.Gross, st.money)

			moneyDeltaStyle := st.moneyDeltaRed
			if match {
				moneyDeltaStyle = st.moneyDeltaGreen
			}
			setCell(file, sheet, row, base+5, deltaGross, moneyDeltaStyle)
		}
		row++
	}

	row++
	setCell(file, sheet, row, 1, "TOTALS", st.cellBold)
	for wi, weekID := range weeks {
		base := 3 + wi*6
		pdfTotal := statement.WeekGrossTotal(weekID)
		delta := statement.WeekProdTotal(weekID) - pdfTotal
		setCell(file, sheet, row, base+4, pdfTotal, st.moneyBold)
		deltaStyle := st.moneyDeltaRedBold
		if math.Abs(delta) < reconcile.GrossTolerance {
			deltaStyle = st.moneyDeltaGreenBold
		}
		setCell(file, sheet, row, base+5, delta, deltaStyle)
	}

	if err := file.SetColWidth(sheet, "A", "A", 18); err != nil {
		return fmt.Errorf("size summary columns: %w", err)
	}
	if err := file.SetColWidth(sheet, "B", "B", 7); err != nil {
		return fmt.Errorf("size summary columns: %w", err)
	}
	firstData, _ := excelize.ColumnNumberToName(3)
	lastData, _ := excelize.ColumnNumberToName(lastCol)
	if err := file.SetColWidth(sheet, firstData, lastData, 11); err != nil {
		return fmt.Errorf("size summary columns: %w", err)
	}
	return nil
}

func writeStatementFixes(file *excelize.File, st statementStyles, statement *reconcile.Statement) error {
	const sheet = "Fixes Needed"
	if _, err := file.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	if err := mergeAcross(file, sheet, 1, 8); err != nil {
		return err
	}
	setCell(file, sheet, 1, 1, "PROD EXPORT - CELLS/FORMULAS TO ADJUST", st.section)

	headers := []string{
		"Employee", "Week", "Prod Sheet / Location",
		"Current Prod Hrs", "Should Be (PDF)", "Δ Hours",
		"Action", "Manual Source Reference",
	}
	for i, header := range headers {
		setCell(file, sheet, 3, i+1, header, st.header)
	}

	row := 4
	for _, fix := range statement.Fixes() {
		setCell(file, sheet, row, 1, fix.Employee, st.cellBold)
		setCell(file, sheet, row, 2, fix.Week, st.cell)
		locationStyle := st.cellYellow
		if fix.MissingFromProd() {
			locationStyle = st.cellRed
		}
		setCell(file, sheet, row, 3, fix.Location, locationStyle)
		setCell(file, sheet, row, 4, fix.ProdHours, st.hours)
		setCell(file, sheet, row, 5, fix.TargetHours, st.hoursBold)
		setCell(file, sheet, row, 6, fix.DeltaHours, st.deltaRed)
		setCell(file, sheet, row, 7, fix.Action, st.cellOrange)
		setCell(file, sheet, row, 8, fix.ManualRef, st.cellWrap)
		row++
	}

	row++
	setCell(file, sheet, row, 1, "TOTAL GAP:", st.cellBold)
	setCell(file, sheet, row, 6, statement.TotalGapDollars(), st.moneyGapTotal)
	setCell(file, sheet, row, 7, "Total $ missing from prod vs PDF truth", st.cellBold)

	widths := []float64{18, 10, 40, 14, 14, 10, 40, 60}
	for i, width := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := file.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("size fixes columns: %w", err)
		}
	}
	return nil
}

func writeStatementBreakdown(file *excelize.File, st statementStyles, statement *reconcile.Statement) error {
	const sheet = "Client Breakdown"
	if _, err := file.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	if err := mergeAcross(file, sheet, 1, 6); err != nil {
		return err
	}
	setCell(file, sheet, 1, 1, "PER-EMPLOYEE CLIENT HOURS - Manual Timesheet vs Prod Export", st.section)

	headers := []string{"Employee", "Week", "Source", "Client Breakdown", "Total Hours", "PDF Hours"}
	for i, header := range headers {
		setCell(file, sheet, 3, i+1, header, st.header)
	}

	row := 4
	for _, employee := range statement.Truth.Employees() {
		for _, weekID := range statement.Truth.WeekIDs() {
			truthRow, _ := statement.Truth.Row(weekID, employee)
			prod := statement.ProdLine(weekID, employee)
			manual := statement.ManualLine(weekID, employee)
			matchProd := math.Abs(prod.Hours-truthRow.Hours) < reconcile.GrossTolerance
			matchManual := math.Abs(manual.Hours-truthRow.Hours) < reconcile.GrossTolerance

			setCell(file, sheet, row, 1, employee, st.cellBold)
			setCell(file, sheet, row, 2, weekID, st.cell)
			setCell(file, sheet, row, 3, "MANUAL", st.cellGray)
			setCell(file, sheet, row, 4, manual.Detail, st.cellWrap)
			manualStyle := st.hoursYellow
			if matchManual {
				manualStyle = st.hoursGreen
			}
			setCell(file, sheet, row, 5, manual.Hours, manualStyle)
			setCell(file, sheet, row, 6, truthRow.Hours, st.hours)
			row++

			setCell(file, sheet, row, 1, "", st.cell)
			setCell(file, sheet, row, 2, "", st.cell)
			setCell(file, sheet, row, 3, "PROD", st.cellGray)
			setCell(file, sheet, row, 4, prod.Detail, st.cellWrap)
			prodStyle := st.hoursYellow
			if matchProd {
				prodStyle = st.hoursGreen
			} else if prod.Hours == 0 {
				prodStyle = st.hoursRed
			}
			setCell(file, sheet, row, 5, prod.Hours, prodStyle)
			setCell(file, sheet, row, 6, "", st.cell)
			row += 2
		}
	}

	widths := []float64{18, 10, 10, 80, 12, 10}
	for i, width := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := file.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("size breakdown columns: %w", err)
		}
	}
	return nil
}

// PrintStatementSummary writes the console recap of a saved statement: one
// block per week with the dollar totals, a line per employee, and the total
// still missing from production.
func PrintStatementSummary(w io.Writer, statement *reconcile.Statement, savedPath string) {
	fmt.Fprintf(w, "✅ Saved: %s\n", savedPath)
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "LABOR RECONCILIATION - PROD vs PDF (Source of Truth)")
	fmt.Fprintln(w, rule)

	for _, weekID := range statement.Truth.WeekIDs() {
		pdfTotal := statement.WeekGrossTotal(weekID)
		prodTotal := statement.WeekProdTotal(weekID)
		delta := prodTotal - pdfTotal
		status := "✅"
		if math.Abs(delta) >= reconcile.GrossTolerance {
			status = "❌"
		}
		fmt.Fprintf(w, "\n%s %s (PDF=$%s, Prod=$%s, Δ=$%s)\n",
			status, weekID, moneyString(pdfTotal), moneyString(prodTotal), signedMoneyString(delta))

		for _, employee := range statement.Truth.Employees() {
			truthRow, ok := statement.Truth.Row(weekID, employee)
			if !ok {
				continue
			}
			prod := statement.ProdLine(weekID, employee)
			deltaHours := prod.Hours - truthRow.Hours
			if math.Abs(deltaHours) < reconcile.GrossTolerance {
				fmt.Fprintf(w, "   ✅ %s: %sh = PDF %sh\n",
					employee, reconcile.FormatHours(prod.Hours), reconcile.FormatHours(truthRow.Hours))
				continue
			}
			fmt.Fprintf(w, "   ❌ %s: Prod=%sh, PDF=%sh, Δ=%+.3fh ($%+.2f)\n",
				employee, reconcile.FormatHours(prod.Hours), reconcile.FormatHours(truthRow.Hours),
				deltaHours, deltaHours*truthRow.Rate)
			if prod.Hours == 0 {
				fmt.Fprintf(w, "      -> LOAD FROM: %s\n", statement.ManualLine(weekID, employee).Source)
			} else {
				fmt.Fprintf(w, "      -> Adjust +%.3fh in prod\n", math.Abs(deltaHours))
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "TOTAL MISSING FROM PROD: $%s\n", moneyString(statement.TotalMissingDollars()))
	fmt.Fprintln(w, rule)
}
