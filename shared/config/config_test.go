package config

import (
	"strings"
	"testing"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Feed.URL != "https://opendata.adsb.fi/api/v2/mil" {
		t.Errorf("unexpected default feed URL: %s", cfg.Feed.URL)
	}
	if cfg.Feed.Retries != 2 || cfg.Feed.BackoffSeconds != 2 {
		t.Errorf("unexpected retry defaults: retries=%d backoff=%d", cfg.Feed.Retries, cfg.Feed.BackoffSeconds)
	}
	if cfg.Poll.IntervalSeconds != 60 {
		t.Errorf("unexpected poll interval default: %d", cfg.Poll.IntervalSeconds)
	}
	if cfg.Poll.CooldownSeconds != 1800 {
		t.Errorf("unexpected cooldown default: %d", cfg.Poll.CooldownSeconds)
	}
	if cfg.Poll.MinRequestGapMs != 1050 {
		t.Errorf("unexpected request gap default: %d", cfg.Poll.MinRequestGapMs)
	}
	if cfg.Report.Period != "daily" {
		t.Errorf("unexpected period default: %s", cfg.Report.Period)
	}
	if cfg.Report.Timezone != "Europe/Rome" {
		t.Errorf("unexpected timezone default: %s", cfg.Report.Timezone)
	}
	if cfg.Monitoring.HealthPort != 8080 {
		t.Errorf("unexpected health port default: %d", cfg.Monitoring.HealthPort)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	raw := `
feed:
  url: https://feed.example.org/mil
  retries: 5
poll:
  interval_seconds: 30
report:
  period: weekly
  tags: [custom]
`
	cfg, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Feed.URL != "https://feed.example.org/mil" {
		t.Errorf("feed URL not overridden: %s", cfg.Feed.URL)
	}
	if cfg.Feed.Retries != 5 {
		t.Errorf("retries not overridden: %d", cfg.Feed.Retries)
	}
	if cfg.Poll.IntervalSeconds != 30 {
		t.Errorf("interval not overridden: %d", cfg.Poll.IntervalSeconds)
	}
	if cfg.Report.Period != "weekly" {
		t.Errorf("period not overridden: %s", cfg.Report.Period)
	}
	if len(cfg.Report.Tags) != 1 || cfg.Report.Tags[0] != "custom" {
		t.Errorf("tags not overridden: %v", cfg.Report.Tags)
	}
}

func TestParseRejectsInvalidPeriod(t *testing.T) {
	_, err := Parse([]byte("report:\n  period: hourly\n"))
	if err == nil {
		t.Fatal("expected an error for an invalid period")
	}
	if !strings.Contains(err.Error(), "report period") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("feed: [unclosed")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestParseEnvFallbacksForSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHAT_ID", "env-chat")
	t.Setenv("EMAIL_PASSWORD", "env-pass")

	cfg, err := Parse([]byte("telegram:\n  chat_id: yaml-chat\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("bot token must fall back to the environment: %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "yaml-chat" {
		t.Errorf("YAML value must win over the environment: %q", cfg.Telegram.ChatID)
	}
	if cfg.Email.Password != "env-pass" {
		t.Errorf("email password must fall back to the environment: %q", cfg.Email.Password)
	}
}

func TestValidateWatcher(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ValidateWatcher(); err != nil {
		t.Errorf("defaults must satisfy the watcher: %v", err)
	}

	cfg.Poll.CSVPath = ""
	if err := cfg.ValidateWatcher(); err == nil {
		t.Error("expected an error without a CSV sink path")
	}
}

func TestValidateReport(t *testing.T) {
	cfg, err := Parse([]byte("report:\n  blog_path: /srv/blog\n  posts_dir: /srv/blog/content/posts\n  base_url: https://example.org/posts\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ValidateReport(); err != nil {
		t.Errorf("complete report config rejected: %v", err)
	}

	cfg.Report.BaseURL = ""
	if err := cfg.ValidateReport(); err == nil {
		t.Error("expected an error without a base URL")
	}
}

func TestEmailConfigured(t *testing.T) {
	e := EmailConfig{}
	if e.Configured() {
		t.Error("empty email config must not be configured")
	}
	e = EmailConfig{SMTPServer: "smtp.example.org", Username: "bot", ToEmail: "ops@example.org"}
	if !e.Configured() {
		t.Error("complete email config must be configured")
	}
}
