package cmd

import (
	"fmt"
	"hoursync/config"
	"hoursync/queue"
	"hoursync/slack"
	"strings"

	"github.com/spf13/cobra"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Slack messaging and the approved-task queue",
	Long: `Verbs for the Slack side channel: post messages, request approvals with
approve/reject buttons, and work the file-backed queue that approved tasks
land in.

The queue is one JSON file, rewritten whole on every change. Tasks move
approved -> in_progress -> completed; the approval click itself is handled
by the bot outside this tool, so "tasks --add" exists to record an approved
task directly.

The bot token is read from the environment variable named by
slack.token_env in configuration.`,
	Example: `
  # Post to the configured channel
  hoursync bridge post "payroll statement for week 02/10 is ready"

  # Ask for approval with buttons, then work the queue
  hoursync bridge request-approval "apply plan.json to production"
  hoursync bridge claim
  hoursync bridge complete --id 3f1b... --result "applied, 12 imports"
`,
}

// newSlackClient builds the client from configuration.
func newSlackClient(cfg *config.Config) (*slack.HTTPClient, error) {
	token := cfg.Slack.Token()
	if token == "" {
		return nil, fmt.Errorf("slack bot token not set: export %s", cfg.Slack.TokenEnv)
	}
	return slack.NewClient(slack.ClientConfig{Token: token})
}

// resolveChannel prefers the flag, then the configured channel.
func resolveChannel(flagValue string, cfg *config.Config) (string, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		return value, nil
	}
	if cfg.Slack.Channel == "" {
		return "", fmt.Errorf("no channel: pass --channel or set slack.channel in config")
	}
	return cfg.Slack.Channel, nil
}

// newQueueStore opens the queue at the flag path, or the configured one.
func newQueueStore(flagValue string, cfg *config.Config) *queue.Store {
	path := strings.TrimSpace(flagValue)
	if path == "" {
		path = cfg.Bridge.Queue
	}
	return queue.NewStore(path)
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
}
