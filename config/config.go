package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeySnapshotDB            = "snapshot.db"
	KeyProdAPIURL            = "prodapi.url"
	KeyProdAPIAdminSecretEnv = "prodapi.admin_secret_env"
	KeySlackTokenEnv         = "slack.token_env"
	KeySlackChannel          = "slack.channel"
	KeyOpenAIURL             = "openai.url"
	KeyOpenAIAPIKeyEnv       = "openai.api_key_env"
	KeyBridgeQueue           = "bridge.queue"
	KeyProbeIntervalSeconds  = "probe.interval_seconds"
	KeyProbeLogFile          = "probe.log_file"
	KeyReportDepartment      = "report.department"
)

type Config struct {
	Snapshot SnapshotConfig `mapstructure:"snapshot" validate:"required"`
	ProdAPI  ProdAPIConfig  `mapstructure:"prodapi" validate:"required"`
	Slack    SlackConfig    `mapstructure:"slack"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Bridge   BridgeConfig   `mapstructure:"bridge"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Report   ReportConfig   `mapstructure:"report"`
}

type SnapshotConfig struct {
	DB string `mapstructure:"db" validate:"required"`
}

// ProdAPIConfig points at the production timekeeping service. The admin
// secret itself stays out of the file; only the environment variable name is
// configured.
type ProdAPIConfig struct {
	URL            string `mapstructure:"url" validate:"required,url"`
	AdminSecretEnv string `mapstructure:"admin_secret_env" validate:"required"`
}

// AdminSecret reads the secret from the configured environment variable.
func (c ProdAPIConfig) AdminSecret() string {
	return strings.TrimSpace(os.Getenv(c.AdminSecretEnv))
}

type SlackConfig struct {
	TokenEnv string `mapstructure:"token_env"`
	Channel  string `mapstructure:"channel"`
}

// Token reads the bot token from the configured environment variable.
func (c SlackConfig) Token() string {
	return strings.TrimSpace(os.Getenv(c.TokenEnv))
}

type OpenAIConfig struct {
	URL       string `mapstructure:"url" validate:"omitempty,url"`
	APIKeyEnv string `mapstructure:"api_key_env"`
}

// APIKey reads the key from the configured environment variable.
func (c OpenAIConfig) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
}

type BridgeConfig struct {
	Queue string `mapstructure:"queue"`
}

type ProbeConfig struct {
	IntervalSeconds int    `mapstructure:"interval_seconds" validate:"gte=1"`
	LogFile         string `mapstructure:"log_file"`
}

func (c ProbeConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

type ReportConfig struct {
	Department string `mapstructure:"department"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# hoursync configuration
snapshot:
  db: "./app.db"

prodapi:
  url: "https://labor-timekeeper.uc.r.appspot.com"
  admin_secret_env: "HOURSYNC_ADMIN_SECRET"

slack:
  token_env: "SLACK_BOT_TOKEN"
  channel: "C0AFSUEJ2KY"

openai:
  url: "https://api.openai.com/v1"
  api_key_env: "OPENAI_API_KEY"

bridge:
  queue: "./tasks/approved_tasks.json"

probe:
  interval_seconds: 60
  log_file: ""

report:
  department: "LABOR"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySnapshotDB, "./app.db")
	v.SetDefault(KeyProdAPIURL, "https://labor-timekeeper.uc.r.appspot.com")
	v.SetDefault(KeyProdAPIAdminSecretEnv, "HOURSYNC_ADMIN_SECRET")
	v.SetDefault(KeySlackTokenEnv, "SLACK_BOT_TOKEN")
	v.SetDefault(KeySlackChannel, "C0AFSUEJ2KY")
	v.SetDefault(KeyOpenAIURL, "https://api.openai.com/v1")
	v.SetDefault(KeyOpenAIAPIKeyEnv, "OPENAI_API_KEY")
	v.SetDefault(KeyBridgeQueue, "./tasks/approved_tasks.json")
	v.SetDefault(KeyProbeIntervalSeconds, 60)
	v.SetDefault(KeyProbeLogFile, "")
	v.SetDefault(KeyReportDepartment, "LABOR")
}
