/*
Copyright © 2026 hoursync authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"os"

	"github.com/spf13/cobra"
	"hoursync/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hoursync",
	Short: "Reconcile payroll hours across timesheets, paystub registers, and the production timekeeping database.",
	Long: `
**********************************************
*               HOUR SYNC                    *
**********************************************

This CLI parses manual timesheet exports, voice and OCR transcript workbooks,
and payroll register PDFs, compares them against a local snapshot of the
production timekeeping database, and renders the differences as Excel
workbooks or as a fixes plan that can be pushed back to production.

Supported timesheet formats:
- Excel: .xlsx, .xlsm, .xls
- PDF payroll registers (text layer, or a .txt sidecar)
`,
	Example: `
  # Create configuration file
  hoursync config create

  # Build the reconciliation statement against the payroll register table
  hoursync report --truth ./register.csv --db ./app.db --exports-root ./exports --out ./statement.xlsx

  # Audit register PDFs against snapshot hours and rates
  hoursync audit --pdfs "./Check Register 021026.pdf" --db ./app.db --exports-root ./exports --out ./audit.xlsx

  # Diff manual timesheets against the snapshot, week by week
  hoursync gaps --pdfs "./Check Register 021026.pdf" --db ./app.db --exports-root ./exports --out ./gaps.xlsx

  # Turn the gaps into a fixes plan, preview it, then push it
  hoursync plan --pdfs "./Check Register 021026.pdf" --db ./app.db --exports-root ./exports --out ./plan.json
  hoursync apply --plan ./plan.json --dry-run
  hoursync apply --plan ./plan.json

  # Dump parsed timesheet records for inspection
  hoursync extract --exports-root ./exports --output ./records.csv

  # Watch the OpenAI rate limit before an OCR batch
  hoursync probe --watch
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.hoursync.yaml, then ./.hoursync.yaml)")

	// Validate configuration before commands that talk to external services.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "apply", "hours", "probe", "post", "tasks", "claim", "complete", "request-approval":
		return true
	}
	return false
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".hoursync" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hoursync")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: hoursync config create")
	}
}
