package cmd

import (
	"fmt"
	"github.com/spf13/viper"

	"github.com/spf13/cobra"
	"hoursync/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Secrets
themselves never appear; only the environment variable names that hold them.`,
	Example: `
  # Show active configuration
  hoursync config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", viper.ConfigFileUsed())
			fmt.Println("Configuration:")
			fmt.Printf("snapshot.db: %s\n", cfg.Snapshot.DB)
			fmt.Printf("prodapi.url: %s\n", cfg.ProdAPI.URL)
			fmt.Printf("prodapi.admin_secret_env: %s\n", cfg.ProdAPI.AdminSecretEnv)
			fmt.Printf("slack.token_env: %s\n", cfg.Slack.TokenEnv)
			fmt.Printf("slack.channel: %s\n", cfg.Slack.Channel)
			fmt.Printf("openai.url: %s\n", cfg.OpenAI.URL)
			fmt.Printf("openai.api_key_env: %s\n", cfg.OpenAI.APIKeyEnv)
			fmt.Printf("bridge.queue: %s\n", cfg.Bridge.Queue)
			fmt.Printf("probe.interval_seconds: %d\n", cfg.Probe.IntervalSeconds)
			fmt.Printf("probe.log_file: %s\n", cfg.Probe.LogFile)
			fmt.Printf("report.department: %s\n", cfg.Report.Department)
		}

	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
