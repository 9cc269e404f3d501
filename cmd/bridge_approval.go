package cmd

import (
	"context"
	"fmt"
	"hoursync/config"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var bridgeApprovalChannel string

var bridgeApprovalCmd = &cobra.Command{
	Use:   "request-approval [task...]",
	Short: "Post an approval request with approve/reject buttons",
	Long: `Post the task text to Slack with Approve and Reject buttons. The button
click is handled by the bot, which appends approved tasks to the queue
file; this command only sends the request.`,
	Example: `
  # Ask before pushing a fixes plan
  hoursync bridge request-approval "apply plan.json to production (12 imports, 2 deletes)"
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		client, err := newSlackClient(cfg)
		if err != nil {
			return err
		}
		channel, err := resolveChannel(bridgeApprovalChannel, cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.RequestApproval(ctx, channel, strings.Join(args, " ")); err != nil {
			return err
		}

		fmt.Printf("Approval requested. Channel: %s\n", channel)
		return nil
	},
}

func init() {
	bridgeCmd.AddCommand(bridgeApprovalCmd)

	bridgeApprovalCmd.Flags().StringVar(&bridgeApprovalChannel, "channel", "", "Channel ID (default: slack.channel from config)")
}
