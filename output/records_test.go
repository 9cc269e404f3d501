package output

import (
	"os"
	"path/filepath"
	"testing"

	"hoursync/record"

	"github.com/xuri/excelize/v2"
)

func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "csv", want: "*output.CSVWriter"},
		{format: " CSV ", want: "*output.CSVWriter"},
		{format: "excel", want: "*output.ExcelWriter"},
		{format: "xlsx", want: "*output.ExcelWriter"},
		{format: "json", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			writer, err := WriterForFormat(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for format %q", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("WriterForFormat(%q): %v", tt.format, err)
			}
			switch writer.(type) {
			case *CSVWriter:
				if tt.want != "*output.CSVWriter" {
					t.Fatalf("expected %s, got *output.CSVWriter", tt.want)
				}
			case *ExcelWriter:
				if tt.want != "*output.ExcelWriter" {
					t.Fatalf("expected %s, got *output.ExcelWriter", tt.want)
				}
			default:
				t.Fatalf("unexpected writer type %T", writer)
			}
		})
	}
}

func TestCSVWriter_WritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.csv")
	records := []record.Record{
		{Date: "2026-02-09", Employee: "Boban Petrov", Customer: "Acme Warehouse", Hours: 8, Source: "db"},
		{Date: "2026-02-10", Employee: "Jane Roe", Customer: "Unknown", Hours: 4.25, Source: "voice:calls.xlsx"},
	}

	writer := &CSVWriter{}
	if err := writer.Write(path, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	want := "date,employee,customer,hours,source\n" +
		"2026-02-09,Boban Petrov,Acme Warehouse,8.00,db\n" +
		"2026-02-10,Jane Roe,Unknown,4.25,voice:calls.xlsx\n"
	if string(data) != want {
		t.Fatalf("unexpected csv output:\n%s\nwant:\n%s", data, want)
	}
}

func TestExcelWriter_WritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.xlsx")
	records := []record.Record{
		{Date: "2026-02-09", Employee: "Boban Petrov", Customer: "Acme Warehouse", Hours: 8, Source: "db"},
	}

	writer := &ExcelWriter{}
	if err := writer.Write(path, records); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "date" || rows[0][4] != "source" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	want := []string{"2026-02-09", "Boban Petrov", "Acme Warehouse", "8", "db"}
	for i, value := range want {
		if rows[1][i] != value {
			t.Fatalf("unexpected cell %d: expected %q, got %q", i, value, rows[1][i])
		}
	}
}
