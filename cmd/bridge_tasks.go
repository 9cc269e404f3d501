package cmd

import (
	"fmt"
	"hoursync/config"
	"strings"

	"github.com/spf13/cobra"
)

var (
	bridgeTasksQueue   string
	bridgeTasksStatus  string
	bridgeTasksAdd     string
	bridgeTasksChannel string
)

var bridgeTasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List queued tasks, or record an approved one",
	Long: `List queue tasks with the given status. With --add the text is appended
as a new approved task instead, the same way the bot records an approval
click.`,
	Example: `
  # Approved tasks waiting to be claimed
  hoursync bridge tasks

  # Everything already completed
  hoursync bridge tasks --status completed

  # Record an approved task without the Slack round-trip
  hoursync bridge tasks --add "rebuild the February statement"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		store := newQueueStore(bridgeTasksQueue, cfg)

		if text := strings.TrimSpace(bridgeTasksAdd); text != "" {
			task, err := store.Add(text, bridgeTasksChannel)
			if err != nil {
				return err
			}
			fmt.Printf("Task added. ID: %s, Status: %s\n", task.ID, task.Status)
			return nil
		}

		tasks, err := store.List(bridgeTasksStatus)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Printf("No %s tasks.\n", bridgeTasksStatus)
			return nil
		}
		for _, task := range tasks {
			fmt.Printf("%s  %-11s  %s\n", task.ID, task.Status, task.Text)
		}
		fmt.Printf("Tasks: %d\n", len(tasks))
		return nil
	},
}

func init() {
	bridgeCmd.AddCommand(bridgeTasksCmd)

	bridgeTasksCmd.Flags().StringVar(&bridgeTasksQueue, "queue", "", "Queue file path (default: bridge.queue from config)")
	bridgeTasksCmd.Flags().StringVar(&bridgeTasksStatus, "status", "approved", "Status to list: approved|in_progress|completed|rejected")
	bridgeTasksCmd.Flags().StringVar(&bridgeTasksAdd, "add", "", "Append this text as a new approved task")
	bridgeTasksCmd.Flags().StringVar(&bridgeTasksChannel, "channel", "", "Channel recorded on an added task")
}
