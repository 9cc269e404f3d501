package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// WeekWindow is one payroll week, inclusive on both ends.
type WeekWindow struct {
	ID    string
	Start time.Time
	End   time.Time
}

var weekDigits = regexp.MustCompile(`(\d{6})`)

// WeekFromFilename derives the window from the first six-digit run in the
// file name, read as mmddyy and taken as the week-ending date. The start is
// six days earlier.
func WeekFromFilename(path string) (WeekWindow, error) {
	base := filepath.Base(path)
	match := weekDigits.FindStringSubmatch(base)
	if match == nil {
		return WeekWindow{}, fmt.Errorf("no mmddyy date in file name %q", base)
	}
	end, err := time.Parse("010206", match[1])
	if err != nil {
		return WeekWindow{}, fmt.Errorf("parse week-ending date %q: %w", match[1], err)
	}
	return WeekWindow{
		ID:    end.Format(isoDate),
		Start: end.AddDate(0, 0, -6),
		End:   end,
	}, nil
}

// Contains reports whether an ISO date falls inside the window. Unparseable
// dates are outside every window.
func (w WeekWindow) Contains(date string) bool {
	day, err := time.Parse(isoDate, date)
	if err != nil {
		return false
	}
	return !day.Before(w.Start) && !day.After(w.End)
}

func (w WeekWindow) Label() string {
	return fmt.Sprintf("%s..%s", w.Start.Format(isoDate), w.End.Format(isoDate))
}

// LoadWeekMap reads a week-map CSV with columns id,start,end (header row
// optional). Dates are yyyy-mm-dd.
func LoadWeekMap(path string) ([]WeekWindow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open week map: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read week map: %w", err)
	}

	windows := make([]WeekWindow, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "id") {
			continue
		}
		start, err := time.Parse(isoDate, strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("week map row %d: parse start: %w", i+1, err)
		}
		end, err := time.Parse(isoDate, strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("week map row %d: parse end: %w", i+1, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("week map row %d: end precedes start", i+1)
		}
		windows = append(windows, WeekWindow{
			ID:    strings.TrimSpace(row[0]),
			Start: start,
			End:   end,
		})
	}
	return windows, nil
}

// WindowFor returns the first window containing the date, if any. Records
// outside every window drop from week-scoped reports.
func WindowFor(windows []WeekWindow, date string) (WeekWindow, bool) {
	for _, w := range windows {
		if w.Contains(date) {
			return w, true
		}
	}
	return WeekWindow{}, false
}
