package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Feed       FeedConfig       `yaml:"feed"`
	Poll       PollConfig       `yaml:"poll"`
	Store      StoreConfig      `yaml:"store"`
	Report     ReportConfig     `yaml:"report"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type FeedConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Retries        int    `yaml:"retries"`
	BackoffSeconds int    `yaml:"backoff_seconds"`
}

type PollConfig struct {
	IntervalSeconds int    `yaml:"interval_seconds"`
	CooldownSeconds int    `yaml:"cooldown_seconds"`
	CSVPath         string `yaml:"csv_path"`
	PolygonsFile    string `yaml:"polygons_file"`
	RateGuardPath   string `yaml:"rate_guard_path"`
	MinRequestGapMs int    `yaml:"min_request_gap_ms"`
}

type StoreConfig struct {
	DBPath string `yaml:"db_path"`
}

type ReportConfig struct {
	Period   string   `yaml:"period"` // daily, weekly or monthly
	Slug     string   `yaml:"slug"`
	BlogPath string   `yaml:"blog_path"`
	PostsDir string   `yaml:"posts_dir"`
	BaseURL  string   `yaml:"base_url"`
	Timezone string   `yaml:"timezone"`
	Tags     []string `yaml:"tags"`
	Schedule string   `yaml:"schedule"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Configured reports whether the optional email channel is usable.
func (e *EmailConfig) Configured() bool {
	return e.SMTPServer != "" && e.Username != "" && e.ToEmail != ""
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
	}
	return cfg, nil
}

// Parse decodes a raw YAML document, applies environment fallbacks for
// secrets and fills defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Telegram.BotToken == "" {
		cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.Telegram.ChatID == "" {
		cfg.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Feed.URL == "" {
		c.Feed.URL = "https://opendata.adsb.fi/api/v2/mil"
	}
	if c.Feed.TimeoutSeconds == 0 {
		c.Feed.TimeoutSeconds = 15
	}
	if c.Feed.Retries == 0 {
		c.Feed.Retries = 2
	}
	if c.Feed.BackoffSeconds == 0 {
		c.Feed.BackoffSeconds = 2
	}
	if c.Poll.IntervalSeconds == 0 {
		c.Poll.IntervalSeconds = 60
	}
	if c.Poll.CooldownSeconds == 0 {
		c.Poll.CooldownSeconds = 1800
	}
	if c.Poll.CSVPath == "" {
		c.Poll.CSVPath = "data/mil.csv"
	}
	if c.Poll.RateGuardPath == "" {
		c.Poll.RateGuardPath = filepath.Join(os.TempDir(), "adsbfi_api.lock")
	}
	if c.Poll.MinRequestGapMs == 0 {
		c.Poll.MinRequestGapMs = 1050
	}
	if c.Store.DBPath == "" {
		c.Store.DBPath = "data/events.db"
	}
	if c.Report.Period == "" {
		c.Report.Period = "daily"
	}
	if c.Report.Slug == "" {
		c.Report.Slug = "monitor-mil-report"
	}
	if c.Report.Timezone == "" {
		c.Report.Timezone = "Europe/Rome"
	}
	if len(c.Report.Tags) == 0 {
		c.Report.Tags = []string{"ads-b", "report", "military"}
	}
	if c.Report.Schedule == "" {
		c.Report.Schedule = "0 6 * * *" // Daily at 6 AM
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
}

func (c *Config) validate() error {
	if c.Poll.IntervalSeconds < 1 {
		return fmt.Errorf("poll interval must be at least 1 second")
	}
	if c.Poll.CooldownSeconds < 0 {
		return fmt.Errorf("alert cooldown cannot be negative")
	}
	switch c.Report.Period {
	case "daily", "weekly", "monthly":
	default:
		return fmt.Errorf("report period must be daily, weekly or monthly (got %q)", c.Report.Period)
	}
	return nil
}

// ValidateWatcher checks the settings the poller agent needs. A configured
// but missing polygons file is caught at agent initialization, because the
// file must be readable and parseable, not just named.
func (c *Config) ValidateWatcher() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed URL is required (feed.url)")
	}
	if c.Poll.CSVPath == "" {
		return fmt.Errorf("CSV sink path is required (poll.csv_path)")
	}
	return nil
}

// ValidateReport checks the settings the report agent needs.
func (c *Config) ValidateReport() error {
	if c.Store.DBPath == "" {
		return fmt.Errorf("event store path is required (store.db_path)")
	}
	if c.Report.BlogPath == "" {
		return fmt.Errorf("blog path is required (report.blog_path)")
	}
	if c.Report.PostsDir == "" {
		return fmt.Errorf("posts directory is required (report.posts_dir)")
	}
	if c.Report.BaseURL == "" {
		return fmt.Errorf("public base URL is required (report.base_url)")
	}
	return nil
}
