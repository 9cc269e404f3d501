package cmd

import (
	"context"
	"fmt"
	"hoursync/config"
	"time"

	"github.com/spf13/cobra"
)

var (
	bridgeCompleteQueue  string
	bridgeCompleteID     string
	bridgeCompleteResult string
	bridgeCompleteNotify bool
)

var bridgeCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark a claimed task completed",
	Long: `Mark the task completed and store its result text. With --notify the
result is also posted back to the task's channel, or the configured one.`,
	Example: `
  # Complete a claimed task
  hoursync bridge complete --id 3f1b0c9e-... --result "statement rebuilt and posted"

  # Complete and tell the channel
  hoursync bridge complete --id 3f1b0c9e-... --result "applied, 12 imports" --notify
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		store := newQueueStore(bridgeCompleteQueue, cfg)

		task, err := store.Complete(bridgeCompleteID, bridgeCompleteResult)
		if err != nil {
			return err
		}
		fmt.Printf("Task completed. ID: %s, Completed at: %s\n", task.ID, task.CompletedAt)

		if !bridgeCompleteNotify {
			return nil
		}
		client, err := newSlackClient(cfg)
		if err != nil {
			return err
		}
		channel, err := resolveChannel(task.Channel, cfg)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.PostMessage(ctx, channel, fmt.Sprintf("✅ Task completed: %s\n%s", task.Text, task.Result)); err != nil {
			return err
		}
		fmt.Printf("Result posted. Channel: %s\n", channel)
		return nil
	},
}

func init() {
	bridgeCmd.AddCommand(bridgeCompleteCmd)

	bridgeCompleteCmd.Flags().StringVar(&bridgeCompleteQueue, "queue", "", "Queue file path (default: bridge.queue from config)")
	bridgeCompleteCmd.Flags().StringVar(&bridgeCompleteID, "id", "", "Task ID to complete")
	bridgeCompleteCmd.Flags().StringVar(&bridgeCompleteResult, "result", "", "Result text stored on the task")
	bridgeCompleteCmd.Flags().BoolVar(&bridgeCompleteNotify, "notify", false, "Post the result back to Slack")

	_ = bridgeCompleteCmd.MarkFlagRequired("id")
}
