package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hoursync/reconcile"
	"hoursync/record"

	"github.com/xuri/excelize/v2"
)

func statementForTest(t *testing.T) *reconcile.Statement {
	t.Helper()

	path := filepath.Join(t.TempDir(), "truth.csv")
	data := "week,employee,gross,rate,hours\n" +
		"2026-02-14,Boban Petrov,1700.00,42.50,40\n" +
		"2026-02-14,Jane Roe,1600.00,40.00,40\n" +
		"2026-02-21,Boban Petrov,850.00,42.50,20\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write register table: %v", err)
	}
	truth, err := reconcile.LoadTruth(path)
	if err != nil {
		t.Fatalf("load register table: %v", err)
	}

	prod := []record.Record{
		{Date: "2026-02-09", Employee: "Boban Petrov", Customer: "Acme Warehouse", Hours: 8, Source: "db"},
		{Date: "2026-02-10", Employee: "Boban Petrov", Customer: "Acme Warehouse", Hours: 8, Source: "db"},
		{Date: "2026-02-11", Employee: "Boban Petrov", Customer: "Walsh Site", Hours: 24, Source: "db"},
		{Date: "2026-02-12", Employee: "Jane Roe", Customer: "Acme Warehouse", Hours: 30, Source: "db"},
	}
	manual := []record.Record{
		{Date: "2026-02-09", Employee: "Jane Roe", Customer: "Acme Warehouse", Hours: 36, Source: "manual:week1/Jane.xlsx"},
		{Date: "2026-02-10", Employee: "Jane Roe", Customer: "Roof Repair", Hours: 4, Source: "voice:calls.xlsx"},
		{Date: "2026-02-17", Employee: "Boban Petrov", Customer: "Acme Warehouse", Hours: 20, Source: "manual:week2/Boban.xlsx"},
	}
	return reconcile.BuildStatement(truth, prod, manual)
}

func TestWriteStatement_SummarySheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "statement.xlsx")
	if err := WriteStatement(path, statementForTest(t)); err != nil {
		t.Fatalf("write statement workbook: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open statement workbook: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	want := []string{"Summary", "Fixes Needed", "Client Breakdown"}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("expected sheets %v, got %v", want, sheets)
		}
	}

	assertCell(t, file, "Summary", "A1", "LABOR RECONCILIATION - weeks ending 2026-02-14 to 2026-02-21")
	assertCell(t, file, "Summary", "A4", "Employee")
	assertCell(t, file, "Summary", "B4", "$/hr")
	assertCell(t, file, "Summary", "C4", "2026-02-14\nPDF Hrs")
	assertCell(t, file, "Summary", "H4", "2026-02-14\nΔ $")
	assertCell(t, file, "Summary", "I4", "2026-02-21\nPDF Hrs")

	assertCell(t, file, "Summary", "A5", "Boban Petrov")
	assertRawCell(t, file, "Summary", "B5", "42.5")
	assertRawCell(t, file, "Summary", "C5", "40")
	assertRawCell(t, file, "Summary", "D5", "40")
	assertRawCell(t, file, "Summary", "F5", "0")
	assertRawCell(t, file, "Summary", "G5", "1700")
	assertRawCell(t, file, "Summary", "J5", "0")
	assertRawCell(t, file, "Summary", "L5", "-20")

	assertCell(t, file, "Summary", "A6", "Jane Roe")
	assertRawCell(t, file, "Summary", "D6", "30")
	assertRawCell(t, file, "Summary", "E6", "40")
	assertRawCell(t, file, "Summary", "F6", "-10")
	assertRawCell(t, file, "Summary", "H6", "-400")

	assertCell(t, file, "Summary", "A8", "TOTALS")
	assertRawCell(t, file, "Summary", "G8", "3300")
	assertRawCell(t, file, "Summary", "H8", "-400")
	assertRawCell(t, file, "Summary", "M8", "850")
	assertRawCell(t, file, "Summary", "N8", "-850")
}

func TestWriteStatement_FixesSheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "statement.xlsx")
	if err := WriteStatement(path, statementForTest(t)); err != nil {
		t.Fatalf("write statement workbook: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open statement workbook: %v", err)
	}
	defer file.Close()

	assertCell(t, file, "Fixes Needed", "A1", "PROD EXPORT - CELLS/FORMULAS TO ADJUST")
	assertCell(t, file, "Fixes Needed", "A3", "Employee")
	assertCell(t, file, "Fixes Needed", "H3", "Manual Source Reference")

	assertCell(t, file, "Fixes Needed", "A4", "Jane Roe")
	assertCell(t, file, "Fixes Needed", "B4", "2026-02-14")
	assertCell(t, file, "Fixes Needed", "C4", "'Jane Roe' sheet")
	assertRawCell(t, file, "Fixes Needed", "D4", "30")
	assertRawCell(t, file, "Fixes Needed", "E4", "40")
	assertRawCell(t, file, "Fixes Needed", "F4", "-10")
	assertCell(t, file, "Fixes Needed", "G4", "ADD 10.000h (adjust entries to total 40h)")
	assertCell(t, file, "Fixes Needed", "H4", "manual:week1/Jane.xlsx,voice:calls.xlsx\nAcme Warehouse 36h, Roof Repair 4h")

	assertCell(t, file, "Fixes Needed", "A5", "Boban Petrov")
	assertCell(t, file, "Fixes Needed", "B5", "2026-02-21")
	assertCell(t, file, "Fixes Needed", "C5", "NOT IN PROD - need to add week block")
	assertCell(t, file, "Fixes Needed", "G5", "ADD entire week: 20h from manual")
	assertCell(t, file, "Fixes Needed", "H5", "manual:week2/Boban.xlsx\nAcme Warehouse 20h")

	assertCell(t, file, "Fixes Needed", "A7", "TOTAL GAP:")
	assertRawCell(t, file, "Fixes Needed", "F7", "-1250")
	assertCell(t, file, "Fixes Needed", "G7", "Total $ missing from prod vs PDF truth")
}

func TestWriteStatement_BreakdownSheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "statement.xlsx")
	if err := WriteStatement(path, statementForTest(t)); err != nil {
		t.Fatalf("write statement workbook: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open statement workbook: %v", err)
	}
	defer file.Close()

	assertCell(t, file, "Client Breakdown", "A1", "PER-EMPLOYEE CLIENT HOURS - Manual Timesheet vs Prod Export")
	assertCell(t, file, "Client Breakdown", "A3", "Employee")

	assertCell(t, file, "Client Breakdown", "A4", "Boban Petrov")
	assertCell(t, file, "Client Breakdown", "C4", "MANUAL")
	assertCell(t, file, "Client Breakdown", "D4", "")
	assertCell(t, file, "Client Breakdown", "C5", "PROD")
	assertCell(t, file, "Client Breakdown", "D5", "Acme Warehouse 16h, Walsh Site 24h")
	assertRawCell(t, file, "Client Breakdown", "E5", "40")

	assertCell(t, file, "Client Breakdown", "A7", "Boban Petrov")
	assertCell(t, file, "Client Breakdown", "B7", "2026-02-21")
	assertCell(t, file, "Client Breakdown", "D7", "Acme Warehouse 20h")
	assertRawCell(t, file, "Client Breakdown", "E8", "0")

	assertCell(t, file, "Client Breakdown", "A10", "Jane Roe")
	assertCell(t, file, "Client Breakdown", "D10", "Acme Warehouse 36h, Roof Repair 4h")
	assertCell(t, file, "Client Breakdown", "D11", "Acme Warehouse 30h")
}

func TestPrintStatementSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintStatementSummary(&buf, statementForTest(t), "out/statement.xlsx")
	out := buf.String()

	wantLines := []string{
		"✅ Saved: out/statement.xlsx",
		"LABOR RECONCILIATION - PROD vs PDF (Source of Truth)",
		"❌ 2026-02-14 (PDF=$3,300.00, Prod=$2,900.00, Δ=$-400.00)",
		"   ✅ Boban Petrov: 40h = PDF 40h",
		"   ❌ Jane Roe: Prod=30h, PDF=40h, Δ=-10.000h ($-400.00)",
		"      -> Adjust +10.000h in prod",
		"❌ 2026-02-21 (PDF=$850.00, Prod=$0.00, Δ=$-850.00)",
		"   ❌ Boban Petrov: Prod=0h, PDF=20h, Δ=-20.000h ($-850.00)",
		"      -> LOAD FROM: manual:week2/Boban.xlsx",
		"TOTAL MISSING FROM PROD: $1,250.00",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Fatalf("console summary missing %q:\n%s", want, out)
		}
	}
}

func assertRawCell(t *testing.T, file *excelize.File, sheet, cell, want string) {
	t.Helper()
	got, err := file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("read %s!%s: %v", sheet, cell, err)
	}
	if got != want {
		t.Fatalf("unexpected %s!%s: expected %q, got %q", sheet, cell, want, got)
	}
}
