package cmd

import (
	"context"
	"fmt"
	"hoursync/config"
	"hoursync/prodapi"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	hoursEmployeeID string
	hoursWeekStarts []string
	hoursTimeout    time.Duration
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Check one employee's production hours per pay week",
	Long: `List an employee's time entries from the production API for each given
week start and print per-customer hour totals. Lunch entries track breaks,
not billable labor, and are excluded from every total.`,
	Example: `
  # Two pay weeks for employee emp_031
  hoursync hours --employee-id emp_031 --week-start 2026-02-02 --week-start 2026-02-09
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		weekStarts, err := parseWeekStarts(hoursWeekStarts)
		if err != nil {
			return err
		}

		client, err := prodapi.NewClient(prodapi.ClientConfig{
			BaseURL:     cfg.ProdAPI.URL,
			AdminSecret: cfg.ProdAPI.AdminSecret(),
		})
		if err != nil {
			return err
		}

		grandTotal := 0.0
		lunchRows := 0
		for _, weekStart := range weekStarts {
			ctx, cancel := context.WithTimeout(context.Background(), hoursTimeout)
			entries, err := client.ListEntries(ctx, hoursEmployeeID, weekStart)
			cancel()
			if err != nil {
				return fmt.Errorf("list entries for week %s: %w", weekStart, err)
			}

			kept := prodapi.WithoutLunch(entries)
			lunchRows += len(entries) - len(kept)
			if len(kept) == 0 {
				fmt.Printf("Week %s: no entries\n", weekStart)
				continue
			}
			total := prodapi.TotalHours(kept)
			grandTotal += total
			fmt.Printf("Week %s: %s (total %sh)\n", weekStart, prodapi.CustomerSummary(kept), prodapi.FormatHours(total))
		}

		fmt.Printf("Hours check completed. Employee: %s, Weeks: %d, Total hours: %s, Lunch rows excluded: %d\n",
			hoursEmployeeID, len(weekStarts), prodapi.FormatHours(grandTotal), lunchRows)
		return nil
	},
}

// parseWeekStarts validates that every week start is an ISO date.
func parseWeekStarts(values []string) ([]string, error) {
	weekStarts := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, err := time.Parse(dayLayout, value); err != nil {
			return nil, fmt.Errorf("invalid --week-start value %q (expected YYYY-MM-DD)", value)
		}
		weekStarts = append(weekStarts, value)
	}
	if len(weekStarts) == 0 {
		return nil, fmt.Errorf("pass at least one --week-start")
	}
	return weekStarts, nil
}

func init() {
	rootCmd.AddCommand(hoursCmd)

	hoursCmd.Flags().StringVar(&hoursEmployeeID, "employee-id", "", "Production employee ID")
	hoursCmd.Flags().StringArrayVarP(&hoursWeekStarts, "week-start", "w", nil, "Week start date YYYY-MM-DD (repeatable)")
	hoursCmd.Flags().DurationVar(&hoursTimeout, "timeout", 30*time.Second, "Timeout per API call")

	_ = hoursCmd.MarkFlagRequired("employee-id")
	_ = hoursCmd.MarkFlagRequired("week-start")
}
