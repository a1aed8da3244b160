package initcmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/bluelight/internal/core/config"
)

const header = `# bluelight configuration
# Generated by 'bluelight init'. Run 'bluelight doctor' after editing.
`

// ConfigOptions are the answers collected by the wizard.
type ConfigOptions struct {
	BaseID              string
	TokenEnv            string
	OpportunityApproved string
	SendEmail           string
	UndoWindow          time.Duration
	Theme               string

	// Token is stored in the system keyring, never in the file.
	Token string
}

// DefaultConfigOptions returns the wizard defaults.
func DefaultConfigOptions() ConfigOptions {
	d := config.DefaultConfig()
	return ConfigOptions{
		TokenEnv:   d.Airtable.TokenEnv,
		UndoWindow: d.UndoWindow,
		Theme:      d.Theme,
	}
}

// starter is the subset of config.Config written by init. Tuning knobs
// stay at their defaults and out of the file.
type starter struct {
	Airtable struct {
		BaseID   string `yaml:"base_id"`
		TokenEnv string `yaml:"token_env"`
		Tables   struct {
			Opportunities string `yaml:"opportunities"`
			Emails        string `yaml:"emails"`
		} `yaml:"tables"`
	} `yaml:"airtable"`
	Webhooks struct {
		OpportunityApproved string `yaml:"opportunity_approved"`
		SendEmail           string `yaml:"send_email"`
	} `yaml:"webhooks"`
	UndoWindow time.Duration `yaml:"undo_window"`
	Theme      string        `yaml:"theme"`
}

// GenerateConfig renders a starter config file.
func GenerateConfig(opts ConfigOptions) ([]byte, error) {
	d := config.DefaultConfig()

	var s starter
	s.Airtable.BaseID = opts.BaseID
	s.Airtable.TokenEnv = opts.TokenEnv
	s.Airtable.Tables.Opportunities = d.Airtable.Tables.Opportunities
	s.Airtable.Tables.Emails = d.Airtable.Tables.Emails
	s.Webhooks.OpportunityApproved = opts.OpportunityApproved
	s.Webhooks.SendEmail = opts.SendEmail
	s.UndoWindow = opts.UndoWindow
	s.Theme = opts.Theme

	var buf bytes.Buffer
	buf.WriteString(header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteConfig writes data to path, creating parent directories.
func WriteConfig(data []byte, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
