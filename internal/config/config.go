// Package config loads the camp-sessions configuration.
//
// Settings live in a YAML file; secrets (bot token, Twitter keys) come from the
// environment, optionally seeded from a .env file. A few settings can be overridden by
// environment variables so containers can run without a config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DayLayout is the layout of the per-day source keys
const DayLayout = "2006-01-02"

// Environment overrides
const (
	EnvSourceURL      = "CAMP_SOURCE_URL"
	EnvCredentialsURL = "CAMP_CREDENTIALS_URL"
	EnvLogLevel       = "CAMP_LOG_LEVEL"
	EnvTelegramToken  = "TELEGRAM_BOT_TOKEN"
)

// Sources selects the session plan URL per conference day.
type Sources struct {
	// Default is used on days without an entry in Days; empty means "no plan"
	Default string `yaml:"default"`
	// Days maps a date (YYYY-MM-DD) to that day's session plan URL
	Days map[string]string `yaml:"days"`
}

// ForDay returns the session plan URL active on now's calendar day.
// It has the shape of schedule.SourceFunc.
func (s Sources) ForDay(now time.Time) (string, bool) {
	if url, ok := s.Days[now.Format(DayLayout)]; ok && url != "" {
		return url, true
	}
	return s.Default, s.Default != ""
}

// Config is the top-level application configuration.
type Config struct {
	Sources Sources `yaml:"sources"`

	// CredentialsURL serves the per-room conferencing credentials (optional)
	CredentialsURL string `yaml:"credentials_url"`

	// AdviceURL serves the help command's random advice
	AdviceURL string `yaml:"advice_url"`

	// Refresh is a cron spec ("*/1 * * * *" or "@every 1m") for schedule refreshes
	Refresh string `yaml:"refresh"`

	// CredentialsRefresh is the cron spec for reloading room credentials
	CredentialsRefresh string `yaml:"credentials_refresh"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// MetricsListen, if set, exposes Prometheus metrics on this address
	MetricsListen string `yaml:"metrics_listen"`
}

// Secrets are credentials read from the environment only
type Secrets struct {
	TelegramToken       string
	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sources:            Sources{Days: map[string]string{}},
		AdviceURL:          "https://api.adviceslip.com/advice",
		Refresh:            "@every 1m",
		CredentialsRefresh: "@every 10m",
		LogLevel:           "info",
	}
}

// Normalize fills in missing values with defaults
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Sources.Days == nil {
		c.Sources.Days = map[string]string{}
	}
	if c.AdviceURL == "" {
		c.AdviceURL = d.AdviceURL
	}
	if c.Refresh == "" {
		c.Refresh = d.Refresh
	}
	if c.CredentialsRefresh == "" {
		c.CredentialsRefresh = d.CredentialsRefresh
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Validate checks the refresh spec and the per-day keys
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Refresh); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", c.Refresh, err)
	}
	if _, err := cron.ParseStandard(c.CredentialsRefresh); err != nil {
		return fmt.Errorf("invalid credentials_refresh schedule %q: %w", c.CredentialsRefresh, err)
	}
	for day := range c.Sources.Days {
		if _, err := time.Parse(DayLayout, day); err != nil {
			return fmt.Errorf("invalid source day %q: want YYYY-MM-DD", day)
		}
	}
	return nil
}

// Load reads the YAML file at path. An empty path or a missing file yields the
// defaults. Environment overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvSourceURL)); v != "" {
		c.Sources.Default = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCredentialsURL)); v != "" {
		c.CredentialsURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// LoadEnv loads variables from a .env file without overriding the real environment.
// A missing file is not an error.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// LoadSecrets reads secrets from the environment
func LoadSecrets() Secrets {
	return Secrets{
		TelegramToken:       os.Getenv(EnvTelegramToken),
		TwitterAPIKey:       os.Getenv("TWITTER_API_KEY"),
		TwitterAPISecret:    os.Getenv("TWITTER_API_SECRET"),
		TwitterAccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessSecret: os.Getenv("TWITTER_ACCESS_SECRET"),
	}
}

// HasTwitter reports whether all Twitter credentials are present
func (s Secrets) HasTwitter() bool {
	return s.TwitterAPIKey != "" && s.TwitterAPISecret != "" &&
		s.TwitterAccessToken != "" && s.TwitterAccessSecret != ""
}
