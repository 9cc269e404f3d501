package cmd

import (
	"fmt"
	"hoursync/config"

	"github.com/spf13/cobra"
)

var bridgeClaimQueue string

var bridgeClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the oldest approved task",
	Long: `Mark the oldest approved task in_progress and print it. Exits cleanly
when nothing is approved.`,
	Example: `
  hoursync bridge claim
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		store := newQueueStore(bridgeClaimQueue, cfg)

		task, ok, err := store.ClaimNext()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No approved tasks to claim.")
			return nil
		}

		fmt.Printf("Task claimed. ID: %s, Claimed at: %s\n%s\n", task.ID, task.ClaimedAt, task.Text)
		return nil
	},
}

func init() {
	bridgeCmd.AddCommand(bridgeClaimCmd)

	bridgeClaimCmd.Flags().StringVar(&bridgeClaimQueue, "queue", "", "Queue file path (default: bridge.queue from config)")
}
