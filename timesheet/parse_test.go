package timesheet

import (
	"testing"
)

func TestDayNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantDay int
		wantOK  bool
	}{
		{name: "plain day", value: "16", wantDay: 16, wantOK: true},
		{name: "float truncates", value: "31.9", wantDay: 31, wantOK: true},
		{name: "below range", value: "0.9", wantDay: 0, wantOK: false},
		{name: "above range", value: "32", wantDay: 0, wantOK: false},
		{name: "text", value: "Monday", wantDay: 0, wantOK: false},
		{name: "empty", value: "", wantDay: 0, wantOK: false},
		{name: "nan", value: "NaN", wantDay: 0, wantOK: false},
		{name: "infinity", value: "+Inf", wantDay: 0, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			day, ok := dayNumber(tt.value)
			if day != tt.wantDay || ok != tt.wantOK {
				t.Fatalf("dayNumber(%q) = (%d, %v), want (%d, %v)", tt.value, day, ok, tt.wantDay, tt.wantOK)
			}
		})
	}
}

func TestParseHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "plain", value: "8", want: 8},
		{name: "rounded to cents", value: "8.005", want: 8.01},
		{name: "rounds down to zero", value: "0.004", want: 0},
		{name: "trims spaces", value: " 4.25 ", want: 4.25},
		{name: "unparseable is zero", value: "half a day", want: 0},
		{name: "empty is zero", value: "", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseHours(tt.value); got != tt.want {
				t.Fatalf("parseHours(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseEntryDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  string
		want   string
		wantOK bool
	}{
		{name: "iso passthrough", value: "2026-02-10", want: "2026-02-10", wantOK: true},
		{name: "iso shape is not validated", value: "2026-99-99", want: "2026-99-99", wantOK: true},
		{name: "us date", value: "02/10/2026", want: "2026-02-10", wantOK: true},
		{name: "us date single digits", value: "2/4/2026", want: "2026-02-04", wantOK: true},
		{name: "two digit year rejected", value: "2/4/26", wantOK: false},
		{name: "free text rejected", value: "February 4th", wantOK: false},
		{name: "empty rejected", value: "", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseEntryDate(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("parseEntryDate(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("parseEntryDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestBuildDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		year   int
		month  int
		day    int
		want   string
		wantOK bool
	}{
		{name: "valid", year: 2026, month: 2, day: 28, want: "2026-02-28", wantOK: true},
		{name: "day overflows month", year: 2026, month: 2, day: 31, wantOK: false},
		{name: "month out of range", year: 2025, month: 13, day: 1, wantOK: false},
		{name: "leap day", year: 2024, month: 2, day: 29, want: "2024-02-29", wantOK: true},
		{name: "non leap day", year: 2026, month: 2, day: 29, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := buildDate(tt.year, tt.month, tt.day)
			if ok != tt.wantOK {
				t.Fatalf("buildDate(%d, %d, %d) ok = %v, want %v", tt.year, tt.month, tt.day, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("buildDate(%d, %d, %d) = %q, want %q", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestIsDayName(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"Mon", "monday", " TUES ", "Thur", "sun"} {
		if !isDayName(value) {
			t.Errorf("isDayName(%q) = false, want true", value)
		}
	}
	for _, value := range []string{"", "16", "Mondays", "weekday"} {
		if isDayName(value) {
			t.Errorf("isDayName(%q) = true, want false", value)
		}
	}
}
