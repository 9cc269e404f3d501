package cmd

import (
	"context"
	"fmt"
	"hoursync/config"
	"hoursync/prodapi"
	"hoursync/storage"
	"hoursync/submitter"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	applyPlanPath string
	applyDBPath   string
	applyDryRun   bool
	applyTimeout  time.Duration
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Push a fixes plan to the production API",
	Long: `Load a fixes plan produced by "plan" and execute it against the production
timekeeping service: one admin import batch for the queued entries, then a
force delete per queued entry ID. The first failed call stops the run, so
a partial result may already be live.

With --db the plan is rechecked against a fresh snapshot first and imports
that have appeared there since planning are dropped as duplicates.

The admin secret is read from the environment variable named by
prodapi.admin_secret_env in configuration.`,
	Example: `
  # Preview what the plan would do
  hoursync apply --plan ./plan.json --dry-run

  # Push the plan
  hoursync apply --plan ./plan.json

  # Recheck against a newer snapshot before pushing
  hoursync apply --plan ./plan.json --db ./app.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		plan, err := submitter.LoadPlan(applyPlanPath)
		if err != nil {
			return err
		}

		duplicates := 0
		if strings.TrimSpace(applyDBPath) != "" && len(plan.Imports) > 0 {
			store, err := storage.OpenSnapshot(applyDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			from, to := planDateSpan(plan.Imports)
			existing, err := store.LoadEntries(from, to)
			if err != nil {
				return err
			}
			plan.Imports, duplicates = submitter.ClassifyImports(plan.Imports, existing)
		}

		secret := cfg.ProdAPI.AdminSecret()
		if secret == "" && !applyDryRun {
			return fmt.Errorf("admin secret not set: export %s", cfg.ProdAPI.AdminSecretEnv)
		}

		client, err := prodapi.NewClient(prodapi.ClientConfig{
			BaseURL:     cfg.ProdAPI.URL,
			AdminSecret: secret,
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
		defer cancel()
		result, err := submitter.Apply(ctx, client, plan, submitter.ApplyOptions{DryRun: applyDryRun})
		if err != nil {
			return err
		}

		if result.DryRun {
			fmt.Printf("Apply dry-run. Imports queued: %d, Deletes queued: %d, Duplicates skipped: %d\n",
				result.Imported, result.Deleted, duplicates)
			return nil
		}
		fmt.Printf("Apply completed. Imported: %d, Deleted: %d, Duplicates skipped: %d\n",
			result.Imported, result.Deleted, duplicates)
		return nil
	},
}

// planDateSpan returns the inclusive work-date span covered by the queued
// imports. Dates compare lexicographically since they are ISO formatted.
func planDateSpan(imports []prodapi.ImportEntry) (from, to string) {
	for _, entry := range imports {
		if from == "" || entry.WorkDate < from {
			from = entry.WorkDate
		}
		if to == "" || entry.WorkDate > to {
			to = entry.WorkDate
		}
	}
	return from, to
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&applyPlanPath, "plan", "./plan.json", "Fixes plan JSON produced by the plan command")
	applyCmd.Flags().StringVar(&applyDBPath, "db", "", "Recheck the plan against this snapshot before pushing")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Report what the plan would do without calling the API")
	applyCmd.Flags().DurationVar(&applyTimeout, "timeout", 60*time.Second, "Timeout for the whole apply run")
}
