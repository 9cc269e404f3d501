package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateYAMLContent_AcceptsExample(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Snapshot.DB != "./app.db" {
		t.Fatalf("unexpected snapshot db: %q", cfg.Snapshot.DB)
	}
	if cfg.Report.Department != "LABOR" {
		t.Fatalf("unexpected report department: %q", cfg.Report.Department)
	}
	if cfg.Probe.Interval() != time.Minute {
		t.Fatalf("unexpected probe interval: %v", cfg.Probe.Interval())
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	content := []byte(`prodapi:
  url: "https://timekeeper.internal.example.com"
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.ProdAPI.URL != "https://timekeeper.internal.example.com" {
		t.Fatalf("unexpected prodapi url: %q", cfg.ProdAPI.URL)
	}
	if cfg.ProdAPI.AdminSecretEnv != "HOURSYNC_ADMIN_SECRET" {
		t.Fatalf("unexpected admin secret env: %q", cfg.ProdAPI.AdminSecretEnv)
	}
	if cfg.Slack.Channel != "C0AFSUEJ2KY" {
		t.Fatalf("unexpected slack channel: %q", cfg.Slack.Channel)
	}
	if cfg.Bridge.Queue != "./tasks/approved_tasks.json" {
		t.Fatalf("unexpected bridge queue: %q", cfg.Bridge.Queue)
	}
}

func TestValidateYAMLContent_RejectsBadProdAPIURL(t *testing.T) {
	t.Parallel()

	content := []byte(`prodapi:
  url: "not a url"
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for bad prodapi url")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_RejectsZeroProbeInterval(t *testing.T) {
	t.Parallel()

	content := []byte(`probe:
  interval_seconds: 0
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for zero probe interval")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_RejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := ValidateYAMLContent([]byte("snapshot: [unclosed"))
	if err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
	if !strings.Contains(err.Error(), "read config content") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnvResolversTrimWhitespace(t *testing.T) {
	t.Setenv("HOURSYNC_TEST_ADMIN_SECRET", " 7707 ")
	t.Setenv("HOURSYNC_TEST_SLACK_TOKEN", "xoxb-test\n")
	t.Setenv("HOURSYNC_TEST_OPENAI_KEY", "sk-test")

	prod := ProdAPIConfig{AdminSecretEnv: "HOURSYNC_TEST_ADMIN_SECRET"}
	if got := prod.AdminSecret(); got != "7707" {
		t.Fatalf("unexpected admin secret: %q", got)
	}

	slack := SlackConfig{TokenEnv: "HOURSYNC_TEST_SLACK_TOKEN"}
	if got := slack.Token(); got != "xoxb-test" {
		t.Fatalf("unexpected slack token: %q", got)
	}

	openai := OpenAIConfig{APIKeyEnv: "HOURSYNC_TEST_OPENAI_KEY"}
	if got := openai.APIKey(); got != "sk-test" {
		t.Fatalf("unexpected openai key: %q", got)
	}
}
