package cmd

import (
	"context"
	"fmt"
	"hoursync/config"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var bridgePostChannel string

var bridgePostCmd = &cobra.Command{
	Use:   "post [text...]",
	Short: "Post a message to Slack",
	Example: `
  # Post to the configured channel
  hoursync bridge post "audit workbook is ready for review"

  # Post somewhere else
  hoursync bridge post --channel C0123456789 "gap report attached below"
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
		channel, err := resolveChannel(bridgePostChannel, cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.PostMessage(ctx, channel, strings.Join(args, " ")); err != nil {
			return err
		}

		fmt.Printf("Message posted. Channel: %s\n", channel)
		return nil
	},
}

func init() {
	bridgeCmd.AddCommand(bridgePostCmd)

	bridgePostCmd.Flags().StringVar(&bridgePostChannel, "channel", "", "Channel ID (default: slack.channel from config)")
}
