package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hoursync configuration file values.",
	Long: `Create, edit, display, and delete the hoursync configuration file.

The configuration stores application-wide values:
- snapshot.db path and the prod API base URL
- environment variable names for the admin secret, Slack token, and OpenAI key
- Slack default channel, task queue path, probe interval, report department`,
	Example: `
  # Create default config in $HOME/.hoursync.yaml
  hoursync config create

  # Show active config and source file
  hoursync config show

  # Open active config in editor (creates example if missing)
  hoursync config edit

  # Delete active config file
  hoursync config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
