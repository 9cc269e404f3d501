package output

import (
	"path/filepath"
	"testing"
	"time"

	"hoursync/reconcile"
	"hoursync/record"

	"github.com/xuri/excelize/v2"
)

func TestWriteAudit_LaysOutSummaryWeekAndManualSheets(t *testing.T) {
	t.Parallel()

	end, err := time.Parse("2006-01-02", "2026-02-14")
	if err != nil {
		t.Fatalf("parse week end: %v", err)
	}
	audit := reconcile.WeekAudit{
		Week: record.WeekWindow{ID: "2026-02-14", Start: end.AddDate(0, 0, -6), End: end},
		Rows: []reconcile.AuditRow{
			{
				Employee: "boban petrov", PDFGross: 1700, DBHours: 40, DBRate: 42.5,
				DBGross: 1700, ManualHours: 40, EffectiveRate: 42.5, HasEffective: true,
			},
			{
				Employee: "jane roe", PDFGross: 800, GrossDelta: 800,
				Flags: []string{reconcile.FlagMissingDBHours},
			},
		},
		Totals: reconcile.AuditTotals{PDFGross: 2500, DBGross: 1700, DBHours: 40, ManualHours: 40},
	}
	manual := []record.Record{
		{Date: "2026-02-10", Employee: "Jane Roe", Customer: "Acme Warehouse", Hours: 6, Source: "manual:week1/Jane.xlsx"},
		{Date: "2026-02-09", Employee: "Boban Petrov", Customer: "Walsh Site", Hours: 8, Source: "manual:week1/Boban.xlsx"},
	}

	path := filepath.Join(t.TempDir(), "audit.xlsx")
	if err := WriteAudit(path, []reconcile.WeekAudit{audit}, manual); err != nil {
		t.Fatalf("write audit workbook: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open audit workbook: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	want := []string{"Summary", "Week_2026-02-14", "Manual_Sources"}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("expected sheets %v, got %v", want, sheets)
		}
	}

	assertCell(t, file, "Summary", "A1", "week_end")
	assertCell(t, file, "Summary", "A2", "2026-02-14")
	assertCell(t, file, "Summary", "B2", "2026-02-08")
	assertCell(t, file, "Summary", "C2", "2500")
	assertCell(t, file, "Summary", "E2", "800")
	assertCell(t, file, "Summary", "H2", "0")

	assertCell(t, file, "Week_2026-02-14", "A1", "employee")
	assertCell(t, file, "Week_2026-02-14", "J1", "flags")
	assertCell(t, file, "Week_2026-02-14", "A2", "boban petrov")
	assertCell(t, file, "Week_2026-02-14", "I2", "42.5")
	assertCell(t, file, "Week_2026-02-14", "J2", "")
	assertCell(t, file, "Week_2026-02-14", "A3", "jane roe")
	assertCell(t, file, "Week_2026-02-14", "I3", "")
	assertCell(t, file, "Week_2026-02-14", "J3", "missing_db_hours")
	assertCell(t, file, "Week_2026-02-14", "A4", "TOTAL")
	assertCell(t, file, "Week_2026-02-14", "F4", "800")
	assertCell(t, file, "Week_2026-02-14", "H4", "0")

	clean, err := file.GetCellStyle("Week_2026-02-14", "A2")
	if err != nil {
		t.Fatalf("style of A2: %v", err)
	}
	flagged, err := file.GetCellStyle("Week_2026-02-14", "A3")
	if err != nil {
		t.Fatalf("style of A3: %v", err)
	}
	if clean == 0 || flagged == 0 || clean == flagged {
		t.Fatalf("expected distinct fills for clean and flagged rows: clean=%d flagged=%d", clean, flagged)
	}

	assertCell(t, file, "Manual_Sources", "A1", "date")
	assertCell(t, file, "Manual_Sources", "A2", "2026-02-09")
	assertCell(t, file, "Manual_Sources", "B2", "Boban Petrov")
	assertCell(t, file, "Manual_Sources", "B3", "Jane Roe")
}
