package cmd

import (
	"fmt"
	"hoursync/storage"
	"sort"

	"github.com/spf13/cobra"
)

var (
	ingestDir    string
	ingestDBPath string
	ingestSheets []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load exported Actions-*.csv files into the local actions cache",
	Long: `Ingest task-tracker CSV exports named "Actions-<sheet>.csv" into a local
SQLite cache: the raw rows land as JSON in raw_rows, and recognized columns
(task name, status, owner, due) land normalized in tasks with a
green/yellow/red status color.

Re-ingesting a file replaces its previous rows. Without --sheet the
"Actions-All_Tasks.csv" master export wins when present; otherwise every
Actions-*.csv in the directory loads.`,
	Example: `
  # Ingest the exports directory into the default cache
  hoursync ingest --dir ./downloads

  # Only two sheets, into an explicit cache file
  hoursync ingest --dir ./downloads --sheet All_Tasks --sheet Follow_Ups --db ./actions_cache.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenActions(ingestDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := store.IngestDir(ingestDir, ingestSheets)
		if err != nil {
			return err
		}

		counts, err := store.StatusCounts()
		if err != nil {
			return err
		}

		fmt.Printf("Ingest completed. Files: %d, Tasks: %d, Cache: %s\n", result.Files, result.Tasks, ingestDBPath)
		colors := make([]string, 0, len(counts))
		for color := range counts {
			colors = append(colors, color)
		}
		sort.Strings(colors)
		for _, color := range colors {
			fmt.Printf("  %-8s %d\n", color, counts[color])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "Directory holding Actions-*.csv exports")
	ingestCmd.Flags().StringVar(&ingestDBPath, "db", "./actions_cache.db", "Path to the actions cache SQLite database")
	ingestCmd.Flags().StringArrayVar(&ingestSheets, "sheet", nil, "Sheet name to ingest (repeatable; default: the All_Tasks master, else every export)")

	_ = ingestCmd.MarkFlagRequired("dir")
}
