package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openActionsStore(t *testing.T) *ActionsStore {
	t.Helper()

	store, err := OpenActions(filepath.Join(t.TempDir(), "actions.db"))
	if err != nil {
		t.Fatalf("OpenActions: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func TestIngestCSV(t *testing.T) {
	t.Parallel()

	store := openActionsStore(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "Actions-Payroll.csv")
	writeCSV(t, path, `Title,Due Date,Status,Comments
Reconcile week 7,2026-02-20,Completed,done friday
Chase missing exports,2026-02-21,In Progress,
Verify OCR batch,,Not Started,low priority
,2026-02-22,Completed,title missing
Audit rates,,Someday,
`)

	inserted, err := store.IngestCSV(path)
	if err != nil {
		t.Fatalf("IngestCSV: %v", err)
	}
	if inserted != 4 {
		t.Fatalf("inserted = %d, want 4 (row without title is raw only)", inserted)
	}

	var rawCount int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM raw_rows;`).Scan(&rawCount); err != nil {
		t.Fatalf("count raw rows: %v", err)
	}
	if rawCount != 5 {
		t.Errorf("raw rows = %d, want 5 (every data row is kept)", rawCount)
	}

	var sheet string
	if err := store.db.QueryRow(`SELECT DISTINCT source_sheet FROM tasks;`).Scan(&sheet); err != nil {
		t.Fatalf("read source sheet: %v", err)
	}
	if sheet != "Payroll" {
		t.Errorf("source sheet = %q, want Payroll", sheet)
	}

	counts, err := store.StatusCounts()
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	// Unknown statuses bucket as yellow alongside in-progress work.
	if counts["green"] != 1 || counts["yellow"] != 2 || counts["red"] != 1 {
		t.Errorf("status counts = %v, want green=1 yellow=2 red=1", counts)
	}
}

func TestIngestDirPrefersMaster(t *testing.T) {
	t.Parallel()

	store := openActionsStore(t)
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "Actions-All_Tasks.csv"), "Title,Status\nmaster row,Completed\n")
	writeCSV(t, filepath.Join(dir, "Actions-Other.csv"), "Title,Status\nother row,Completed\n")

	result, err := store.IngestDir(dir, nil)
	if err != nil {
		t.Fatalf("IngestDir: %v", err)
	}
	if result.Files != 1 || result.Tasks != 1 {
		t.Fatalf("result = %+v, want the master export only", result)
	}
}

func TestIngestDirSheetSelection(t *testing.T) {
	t.Parallel()

	store := openActionsStore(t)
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "Actions-All_Tasks.csv"), "Title,Status\nmaster row,Completed\n")
	writeCSV(t, filepath.Join(dir, "Actions-Payroll.csv"), "Title,Status\npayroll row,Completed\n")
	writeCSV(t, filepath.Join(dir, "Actions-Other.csv"), "Title,Status\nother row,Completed\n")

	result, err := store.IngestDir(dir, []string{"Payroll", " "})
	if err != nil {
		t.Fatalf("IngestDir: %v", err)
	}
	if result.Files != 1 || result.Tasks != 1 {
		t.Fatalf("result = %+v, want only the Payroll sheet", result)
	}

	var title string
	if err := store.db.QueryRow(`SELECT title FROM tasks;`).Scan(&title); err != nil {
		t.Fatalf("read task: %v", err)
	}
	if title != "payroll row" {
		t.Errorf("task title = %q, want payroll row", title)
	}
}

func TestNormalizeActionHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
	}{
		{header: "Due Date", want: "due_date"},
		{header: "Title", want: "title"},
		{header: "  Next Due?? ", want: "next_due"},
		{header: "status", want: "status"},
	}
	for _, tt := range tests {
		if got := normalizeActionHeader(tt.header); got != tt.want {
			t.Errorf("normalizeActionHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
