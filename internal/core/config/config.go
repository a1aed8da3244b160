// Package config handles configuration loading and validation for bluelight.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/bluelight/internal/core/styles"
)

// Queue names used as keys in the keybindings section.
const (
	QueueReview = "review"
	QueueEmails = "emails"
)

// ReservedKeys are bound to navigation and cannot be assigned to actions.
var ReservedKeys = []string{"j", "k", "up", "down", "u", "ctrl+z", "/", "r", "?", "q", "ctrl+c", "esc"}

// Config holds the application configuration.
type Config struct {
	Airtable      AirtableConfig               `yaml:"airtable"`
	Webhooks      WebhooksConfig               `yaml:"webhooks"`
	UndoWindow    time.Duration                `yaml:"undo_window"`
	CommitTimeout time.Duration                `yaml:"commit_timeout"`
	Toasts        ToastConfig                  `yaml:"toasts"`
	Theme         string                       `yaml:"theme"`
	Keybindings   map[string]map[string]string `yaml:"keybindings"` // queue -> action kind -> key
	Database      DatabaseConfig               `yaml:"database"`
	DataDir       string                       `yaml:"-"` // set by caller, not from config file
}

// AirtableConfig locates the outreach base.
type AirtableConfig struct {
	BaseURL  string        `yaml:"base_url"`
	BaseID   string        `yaml:"base_id"`
	TokenEnv string        `yaml:"token_env"` // name of the env var holding the personal access token
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Tables   TablesConfig  `yaml:"tables"`
}

// TablesConfig names the Airtable tables.
type TablesConfig struct {
	Opportunities string `yaml:"opportunities"`
	Emails        string `yaml:"emails"`
}

// WebhooksConfig holds Make.com scenario URLs. Empty URLs are skipped.
type WebhooksConfig struct {
	OpportunityApproved string        `yaml:"opportunity_approved"`
	SendEmail           string        `yaml:"send_email"`
	Timeout             time.Duration `yaml:"timeout"`
}

// ToastConfig tunes notifications.
type ToastConfig struct {
	Duration time.Duration `yaml:"duration"`
	Max      int           `yaml:"max"`
}

// DatabaseConfig tunes the local SQLite history database.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Airtable: AirtableConfig{
			BaseURL:  "https://api.airtable.com/v0",
			TokenEnv: "AIRTABLE_TOKEN",
			Timeout:  20 * time.Second,
			CacheTTL: 2 * time.Minute,
			Tables: TablesConfig{
				Opportunities: "Opportunities",
				Emails:        "Emails",
			},
		},
		Webhooks: WebhooksConfig{
			Timeout: 10 * time.Second,
		},
		UndoWindow:    30 * time.Second,
		CommitTimeout: 15 * time.Second,
		Toasts: ToastConfig{
			Duration: 4 * time.Second,
			Max:      5,
		},
		Theme:       styles.DefaultTheme,
		Keybindings: map[string]map[string]string{},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for commands that report problems
// themselves.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	d := DefaultConfig()

	setDefault(&c.Airtable.BaseURL, d.Airtable.BaseURL)
	setDefault(&c.Airtable.TokenEnv, d.Airtable.TokenEnv)
	setDefault(&c.Airtable.Timeout, d.Airtable.Timeout)
	setDefault(&c.Airtable.Tables.Opportunities, d.Airtable.Tables.Opportunities)
	setDefault(&c.Airtable.Tables.Emails, d.Airtable.Tables.Emails)
	setDefault(&c.Webhooks.Timeout, d.Webhooks.Timeout)
	setDefault(&c.UndoWindow, d.UndoWindow)
	setDefault(&c.CommitTimeout, d.CommitTimeout)
	setDefault(&c.Toasts.Duration, d.Toasts.Duration)
	setDefault(&c.Toasts.Max, d.Toasts.Max)
	setDefault(&c.Theme, d.Theme)
	setDefault(&c.Database.MaxOpenConns, d.Database.MaxOpenConns)
	setDefault(&c.Database.MaxIdleConns, d.Database.MaxIdleConns)
	setDefault(&c.Database.BusyTimeout, d.Database.BusyTimeout)

	if c.Keybindings == nil {
		c.Keybindings = map[string]map[string]string{}
	}
}

func setDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

// Validate checks that the configuration is structurally valid. It does no I/O.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.UndoWindow < time.Second {
		return fmt.Errorf("undo_window must be at least 1s, got %s", c.UndoWindow)
	}
	if c.CommitTimeout <= 0 {
		return fmt.Errorf("commit_timeout must be positive")
	}
	if c.Toasts.Max < 1 {
		return fmt.Errorf("toasts.max must be at least 1")
	}
	if c.Airtable.CacheTTL < 0 {
		return fmt.Errorf("airtable.cache_ttl cannot be negative")
	}
	if c.Airtable.Tables.Opportunities == "" || c.Airtable.Tables.Emails == "" {
		return fmt.Errorf("airtable.tables must name both opportunities and emails")
	}
	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", c.Theme, strings.Join(styles.ThemeNames(), ", "))
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	for queue, bindings := range c.Keybindings {
		if queue != QueueReview && queue != QueueEmails {
			return fmt.Errorf("keybindings: unknown queue %q", queue)
		}

		seen := make(map[string]string, len(bindings))
		for kind, key := range bindings {
			if key == "" {
				return fmt.Errorf("keybindings.%s.%s: key cannot be empty", queue, kind)
			}
			if slices.Contains(ReservedKeys, key) {
				return fmt.Errorf("keybindings.%s.%s: key %q is reserved", queue, kind, key)
			}
			if other, ok := seen[key]; ok {
				return fmt.Errorf("keybindings.%s: key %q bound to both %s and %s", queue, key, other, kind)
			}
			seen[key] = kind
		}
	}

	return nil
}
