package output

import (
	"path/filepath"
	"testing"

	"hoursync/record"

	"github.com/xuri/excelize/v2"
)

func TestParseSheetRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		wantStart string
		wantEnd   string
		wantOK    bool
	}{
		{"spaced range", "2/9/26 - 2/14/26", "2026-02-09", "2026-02-14", true},
		{"tight range", "02/09/26-02/14/26", "2026-02-09", "2026-02-14", true},
		{"range inside title", "Payroll 2/9/26 - 2/14/26 (draft)", "2026-02-09", "2026-02-14", true},
		{"no range", "Week of 2/9", "", "", false},
		{"impossible date", "13/45/26 - 2/14/26", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			start, end, ok := parseSheetRange(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("parseSheetRange(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Fatalf("parseSheetRange(%q) = %q..%q, want %q..%q", tt.value, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestDateLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date string
		want string
	}{
		{"2026-02-09", "Mon-9"},
		{"2026-02-10", "Tue-10"},
		{"2026-03-01", "Sun-1"},
		{"not-a-date", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.date, func(t *testing.T) {
			t.Parallel()
			if got := dateLabel(tt.date); got != tt.want {
				t.Fatalf("dateLabel(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestReviewSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   bool
	}{
		{"voice:calls.xlsx", true},
		{"ocr:IMG_0107.jpg", true},
		{"ocr", false},
		{"manual:week1/Boban.xlsx", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := reviewSource(tt.source); got != tt.want {
			t.Fatalf("reviewSource(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestSkipTemplateSheet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"Monthly Breakdown", true},
		{"Manual Entries", true},
		{"Week of 2/9", true},
		{"Boban Petrov", false},
	}

	for _, tt := range tests {
		if got := skipTemplateSheet(tt.name); got != tt.want {
			t.Fatalf("skipTemplateSheet(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func writeTemplateFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "template.xlsx")
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), "Boban Petrov"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	setFixtureCell(t, file, "Boban Petrov", "A1", "2/9/26 - 2/14/26")
	setFixtureCell(t, file, "Boban Petrov", "A3", "Mon-2")
	setFixtureCell(t, file, "Boban Petrov", "B3", "Old Customer")
	setFixtureCell(t, file, "Boban Petrov", "F3", 99.0)

	if _, err := file.NewSheet("Jane Roe"); err != nil {
		t.Fatalf("add sheet: %v", err)
	}
	setFixtureCell(t, file, "Jane Roe", "A1", "2/16/26 - 2/21/26")
	setFixtureCell(t, file, "Jane Roe", "B3", "Stale")

	if _, err := file.NewSheet("Monthly Breakdown"); err != nil {
		t.Fatalf("add sheet: %v", err)
	}
	setFixtureCell(t, file, "Monthly Breakdown", "A1", "untouched")

	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save template fixture: %v", err)
	}
	return path
}

func setFixtureCell(t *testing.T, file *excelize.File, sheet, cell string, value any) {
	t.Helper()
	if err := file.SetCellValue(sheet, cell, value); err != nil {
		t.Fatalf("set %s!%s: %v", sheet, cell, err)
	}
}

func templateRecords() []record.Record {
	return []record.Record{
		{Date: "2026-02-09", Employee: "boban petrov", Customer: "Acme Warehouse", Hours: 8, Source: "manual:week1/Boban.xlsx"},
		{Date: "2026-02-09", Employee: "Boban Petrov", Customer: "Walsh Site", Hours: 2, Source: "manual:week1/Boban.xlsx"},
		{Date: "2026-02-10", Employee: "Boban Petrov", Customer: "Unknown", Hours: 4.25, Source: "voice:calls.xlsx"},
		{Date: "2026-02-09", Employee: "Jane Roe", Customer: "Acme Warehouse", Hours: 8, Source: "manual:week1/Jane.xlsx"},
	}
}

func TestPopulateTemplate_FillsMatchingWeek(t *testing.T) {
	t.Parallel()

	templatePath := writeTemplateFixture(t)
	outPath := filepath.Join(t.TempDir(), "report.xlsx")

	if err := PopulateTemplate(templatePath, outPath, templateRecords(), nil); err != nil {
		t.Fatalf("populate template: %v", err)
	}

	file, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer file.Close()

	assertCell(t, file, "Boban Petrov", "A3", "Mon-9")
	assertCell(t, file, "Boban Petrov", "B3", "Acme Warehouse")
	assertCell(t, file, "Boban Petrov", "F3", "8")
	assertCell(t, file, "Boban Petrov", "G3", "")

	assertCell(t, file, "Boban Petrov", "A4", "")
	assertCell(t, file, "Boban Petrov", "B4", "Walsh Site")
	assertCell(t, file, "Boban Petrov", "F4", "2")

	assertCell(t, file, "Boban Petrov", "A5", "Tue-10")
	assertCell(t, file, "Boban Petrov", "B5", "Unknown")
	assertCell(t, file, "Boban Petrov", "F5", "4.25")
	assertCell(t, file, "Boban Petrov", "G5", "voice:calls.xlsx")

	// Jane's sheet covers a week none of her entries fall into.
	assertCell(t, file, "Jane Roe", "B3", "Stale")
	assertCell(t, file, "Monthly Breakdown", "A1", "untouched")

	assertCell(t, file, "Manual Entries", "A1", "date")
	assertCell(t, file, "Manual Entries", "B2", "Boban Petrov")
	assertCell(t, file, "Manual Entries", "C2", "Walsh Site")
	assertCell(t, file, "Manual Entries", "B3", "Jane Roe")
	assertCell(t, file, "Manual Entries", "B4", "boban petrov")
	assertCell(t, file, "Manual Entries", "C4", "Acme Warehouse")
	assertCell(t, file, "Manual Entries", "A5", "2026-02-10")
}

func TestPopulateTemplate_MarksDriftAgainstSnapshot(t *testing.T) {
	t.Parallel()

	templatePath := writeTemplateFixture(t)
	outPath := filepath.Join(t.TempDir(), "report.xlsx")

	approved := map[record.Key]struct{}{
		{Date: "2026-02-09", Employee: "boban petrov", Customer: "acme warehouse", Hours: 8}: {},
	}
	if err := PopulateTemplate(templatePath, outPath, templateRecords(), approved); err != nil {
		t.Fatalf("populate template: %v", err)
	}

	file, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer file.Close()

	matched, err := file.GetCellStyle("Boban Petrov", "A3")
	if err != nil {
		t.Fatalf("style of A3: %v", err)
	}
	drifted, err := file.GetCellStyle("Boban Petrov", "A4")
	if err != nil {
		t.Fatalf("style of A4: %v", err)
	}
	if drifted == 0 || drifted == matched {
		t.Fatalf("expected drift highlight on A4: matched=%d drifted=%d", matched, drifted)
	}
}

func assertCell(t *testing.T, file *excelize.File, sheet, cell, want string) {
	t.Helper()
	got, err := file.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("read %s!%s: %v", sheet, cell, err)
	}
	if got != want {
		t.Fatalf("unexpected %s!%s: expected %q, got %q", sheet, cell, want, got)
	}
}
