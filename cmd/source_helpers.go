package cmd

import (
	"fmt"
	"sort"
	"strings"

	"hoursync/config"
	"hoursync/paystub"
	"hoursync/record"

	"github.com/spf13/viper"
)

const dayLayout = "2006-01-02"

// resolveSnapshotPath prefers an explicit flag value over the configured
// snapshot path.
func resolveSnapshotPath(flagValue string) string {
	if value := strings.TrimSpace(flagValue); value != "" {
		return value
	}
	return viper.GetString(config.KeySnapshotDB)
}

// resolveDepartment prefers the flag, then the configured department.
// The value "all" disables register department filtering entirely.
func resolveDepartment(flagValue string) string {
	value := strings.TrimSpace(flagValue)
	if value == "" {
		value = viper.GetString(config.KeyReportDepartment)
	}
	if strings.EqualFold(value, "all") {
		return ""
	}
	return value
}

// registerWindows returns the distinct pay weeks covered by the registers,
// sorted by start date.
func registerWindows(registers []paystub.Register) []record.WeekWindow {
	seen := make(map[string]struct{}, len(registers))
	windows := make([]record.WeekWindow, 0, len(registers))
	for _, register := range registers {
		if _, ok := seen[register.Week.ID]; ok {
			continue
		}
		seen[register.Week.ID] = struct{}{}
		windows = append(windows, register.Week)
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}

// resolveWeekWindows prefers an explicit week-map file; without one the
// weeks embedded in the register file names decide.
func resolveWeekWindows(registers []paystub.Register, weekMapPath string) ([]record.WeekWindow, error) {
	if strings.TrimSpace(weekMapPath) != "" {
		return record.LoadWeekMap(weekMapPath)
	}
	windows := registerWindows(registers)
	if len(windows) == 0 {
		return nil, fmt.Errorf("no pay weeks resolved: pass --pdfs or --week-map")
	}
	return windows, nil
}

// weekSpan returns the inclusive ISO date span covering every window.
func weekSpan(windows []record.WeekWindow) (from, to string) {
	if len(windows) == 0 {
		return "", ""
	}
	start := windows[0].Start
	end := windows[0].End
	for _, window := range windows[1:] {
		if window.Start.Before(start) {
			start = window.Start
		}
		if window.End.After(end) {
			end = window.End
		}
	}
	return start.Format(dayLayout), end.Format(dayLayout)
}

// registerGrossByWeek folds register gross maps per week ID; two registers
// covering the same week merge by summing.
func registerGrossByWeek(registers []paystub.Register) map[string]map[string]float64 {
	byWeek := make(map[string]map[string]float64, len(registers))
	for _, register := range registers {
		gross := byWeek[register.Week.ID]
		if gross == nil {
			gross = make(map[string]float64, len(register.Gross))
			byWeek[register.Week.ID] = gross
		}
		for employee, amount := range register.Gross {
			gross[employee] += amount
		}
	}
	return byWeek
}
