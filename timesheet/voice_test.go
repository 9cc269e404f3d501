package timesheet

import (
	"path/filepath"
	"reflect"
	"testing"

	"hoursync/record"
)

func TestParseVoiceFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "voice_week7.xlsx")
	writeWorkbook(t, path, []sheetFixture{
		{name: "Boban_Abbate", rows: [][]any{
			{"Date", "Job", "Task", "Start", "Lunch", "End", "Total"},
			{"2026-02-10", "Acme Paving", "grading", "7:00", "0:30", "15:30", 8.0},
			{"02/11/2026", "", "", "", "", "", 6.5},
			{"2026-02-12", "Harbor Mill", "", "", "", "", 0},
			{"", "Acme Paving", "", "", "", "", 4.0},
			{"not a date", "Acme Paving", "", "", "", "", 4.0},
			{"2026-02-13", "Acme Paving", "", "", "", "", -1.0},
		}},
		{name: "Notes", rows: [][]any{
			{"freeform", "text"},
		}},
	})

	records, err := ParseVoiceFile(path)
	if err != nil {
		t.Fatalf("ParseVoiceFile: %v", err)
	}

	want := []record.Record{
		{Date: "2026-02-10", Employee: "Boban Abbate", Customer: "Acme Paving", Hours: 8, Source: "voice:voice_week7.xlsx"},
		{Date: "2026-02-11", Employee: "Boban Abbate", Customer: "Unknown", Hours: 6.5, Source: "voice:voice_week7.xlsx"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("records = %+v, want %+v", records, want)
	}
}

func TestParseVoiceFileSkipsSheetsWithoutHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "voice.xlsx")
	writeWorkbook(t, path, []sheetFixture{
		{name: "Jane_Roe", rows: [][]any{
			{"Day", "Client", "Hours"},
			{"2026-02-10", "Acme Paving", 8.0},
		}},
	})

	records, err := ParseVoiceFile(path)
	if err != nil {
		t.Fatalf("ParseVoiceFile: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records from a sheet without date/job/total headers, want 0", len(records))
	}
}
