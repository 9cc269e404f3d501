package record

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWeekFromFilename(t *testing.T) {
	t.Parallel()

	window, err := WeekFromFilename("/payroll/pdfs/Payroll Register 021426.pdf")
	if err != nil {
		t.Fatalf("derive week: %v", err)
	}
	if got := window.End.Format("2006-01-02"); got != "2026-02-14" {
		t.Fatalf("unexpected week end: %s", got)
	}
	if got := window.Start.Format("2006-01-02"); got != "2026-02-08" {
		t.Fatalf("unexpected week start: %s", got)
	}
	if window.ID != "2026-02-14" {
		t.Fatalf("unexpected week id: %s", window.ID)
	}
}

func TestWeekFromFilename_NoDigits(t *testing.T) {
	t.Parallel()

	if _, err := WeekFromFilename("register.pdf"); err == nil {
		t.Fatalf("expected error for name without mmddyy run")
	}
}

func TestWeekWindowContains_InclusiveBothEnds(t *testing.T) {
	t.Parallel()

	window, err := WeekFromFilename("021426.pdf")
	if err != nil {
		t.Fatalf("derive week: %v", err)
	}

	tests := []struct {
		date string
		want bool
	}{
		{date: "2026-02-08", want: true},
		{date: "2026-02-14", want: true},
		{date: "2026-02-07", want: false},
		{date: "2026-02-15", want: false},
		{date: "not-a-date", want: false},
	}
	for _, tt := range tests {
		if got := window.Contains(tt.date); got != tt.want {
			t.Fatalf("Contains(%s): expected %v, got %v", tt.date, tt.want, got)
		}
	}
}

func TestLoadWeekMap(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "weeks.csv")
	content := "id,start,end\n2026-02-14,2026-02-08,2026-02-14\n2026-02-21,2026-02-15,2026-02-21\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write week map: %v", err)
	}

	windows, err := LoadWeekMap(path)
	if err != nil {
		t.Fatalf("load week map: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].ID != "2026-02-14" {
		t.Fatalf("unexpected first window id: %s", windows[0].ID)
	}

	if _, ok := WindowFor(windows, "2026-02-16"); !ok {
		t.Fatalf("expected 2026-02-16 inside second window")
	}
	if _, ok := WindowFor(windows, "2026-03-01"); ok {
		t.Fatalf("expected 2026-03-01 outside every window")
	}
}

func TestLoadWeekMap_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "weeks.csv")
	if err := os.WriteFile(path, []byte("w1,2026-02-14,2026-02-08\n"), 0o644); err != nil {
		t.Fatalf("write week map: %v", err)
	}
	if _, err := LoadWeekMap(path); err == nil {
		t.Fatalf("expected error for end before start")
	}
}

func TestLoadRates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rates.csv")
	content := "employee,rate\nJane Doe,42.50\nChris  Zavesky,40\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rates: %v", err)
	}

	table, err := LoadRates(path)
	if err != nil {
		t.Fatalf("load rates: %v", err)
	}

	if rate := table.Rate("JANE DOE"); rate != 42.50 {
		t.Fatalf("case-folded lookup = %v, want 42.50", rate)
	}
	if rate := table.Rate("chris zavesky"); rate != 40 {
		t.Fatalf("expected collapsed-whitespace key to resolve, got %v", rate)
	}
	if rate := table.Rate("nobody"); rate != 0 {
		t.Fatalf("unknown employee rate = %v, want 0", rate)
	}
}
