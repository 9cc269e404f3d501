package cmd

import (
	"context"
	"fmt"
	"hoursync/config"
	"hoursync/internal/logger"
	"hoursync/probe"
	"hoursync/slack"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	probeWatch    bool
	probeInterval time.Duration
	probeLogFile  string
	probeDebug    bool
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check the OpenAI API rate-limit state",
	Long: `Probe the OpenAI API with a models-listing call, which consumes no
billable tokens, and report the rate-limit state from the response
headers. A 429 reports rate_limited with the retry-after value.

With --watch the probe polls until the API reports ok, logging every
result, and posts a Slack alert to the configured channel when it exits:
a reset notice if the run saw rate limiting, an accessible notice
otherwise. Slack is skipped when no token or channel is configured.

The API key is read from the environment variable named by
openai.api_key_env in configuration.`,
	Example: `
  # One-shot check
  hoursync probe

  # Poll every two minutes until the rate limit clears, logging to a file
  hoursync probe --watch --interval 2m --log-file ./probe.log
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		apiKey := cfg.OpenAI.APIKey()
		if apiKey == "" {
			return fmt.Errorf("OpenAI API key not set: export %s", cfg.OpenAI.APIKeyEnv)
		}

		checker, err := probe.NewChecker(probe.CheckerConfig{
			BaseURL: cfg.OpenAI.URL,
			APIKey:  apiKey,
		})
		if err != nil {
			return err
		}

		if !probeWatch {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			result, err := checker.Check(ctx)
			if err != nil {
				return err
			}
			fmt.Println(result.Summary())
			return nil
		}

		logFile := probeLogFile
		if strings.TrimSpace(logFile) == "" {
			logFile = cfg.Probe.LogFile
		}
		watchLogger, err := logger.New(logFile, probeDebug)
		if err != nil {
			return err
		}

		interval := probeInterval
		if interval <= 0 {
			interval = cfg.Probe.Interval()
		}

		watcher := &probe.Watcher{
			Checker:  checker,
			Interval: interval,
			Logger:   watchLogger,
		}
		if token := cfg.Slack.Token(); token != "" && cfg.Slack.Channel != "" {
			notifier, err := slack.NewClient(slack.ClientConfig{Token: token})
			if err != nil {
				return err
			}
			watcher.Notifier = notifier
			watcher.Channel = cfg.Slack.Channel
		} else {
			watchLogger.Warn("slack not configured, exit alert disabled")
		}

		result, err := watcher.Watch(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolVar(&probeWatch, "watch", false, "Poll until the API reports ok instead of checking once")
	probeCmd.Flags().DurationVar(&probeInterval, "interval", 0, "Watch poll interval (default: probe.interval_seconds from config)")
	probeCmd.Flags().StringVar(&probeLogFile, "log-file", "", "Watch log file, size-rotated (default: probe.log_file from config)")
	probeCmd.Flags().BoolVar(&probeDebug, "debug", false, "Log at debug level in watch mode")
}
