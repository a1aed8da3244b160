package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/core/validate"
	"github.com/hay-kot/bluelight/internal/leads"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation including environment and
// file checks. The configPath argument specifies the config file location to
// validate (empty string skips the config file check). It calls Validate()
// first for basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateAirtable(),
		c.validateWebhooks(),
		c.validateKeybindingKinds(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Webhooks.OpportunityApproved == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Webhooks",
			Item:     "opportunity_approved",
			Message:  "not set; approvals will not trigger the outreach scenario",
		})
	}
	if c.Webhooks.SendEmail == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Webhooks",
			Item:     "send_email",
			Message:  "not set; emails marked Sent will not be delivered",
		})
	}
	if c.UndoWindow < 5*time.Second {
		warnings = append(warnings, ValidationWarning{
			Category: "Undo",
			Item:     "undo_window",
			Message:  fmt.Sprintf("%s leaves little time to undo", c.UndoWindow),
		})
	}
	if c.Airtable.CacheTTL == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Airtable",
			Item:     "cache_ttl",
			Message:  "caching disabled; every refresh hits the API rate limit of 5 req/s",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func (c *Config) validateAirtable() error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.BaseID(c.Airtable.BaseID); err != nil {
		errs = errs.Append("airtable.base_id", err)
	}

	if _, err := c.Token(); err != nil {
		errs = errs.Append("airtable.token_env", err)
	}

	if err := httpURL(c.Airtable.BaseURL); err != nil {
		errs = errs.Append("airtable.base_url", err)
	}

	return errs.ToError()
}

func (c *Config) validateWebhooks() error {
	var errs criterio.FieldErrorsBuilder
	for field, u := range map[string]string{
		"webhooks.opportunity_approved": c.Webhooks.OpportunityApproved,
		"webhooks.send_email":           c.Webhooks.SendEmail,
	} {
		if u == "" {
			continue
		}
		if err := httpURL(u); err != nil {
			errs = errs.Append(field, err)
		}
	}
	return errs.ToError()
}

// validateKeybindingKinds checks that every rebound action exists on its queue.
func (c *Config) validateKeybindingKinds() error {
	known := map[string][]triage.KindSpec{
		QueueReview: leads.OpportunityKinds(),
		QueueEmails: leads.EmailKinds(),
	}

	var errs criterio.FieldErrorsBuilder
	for queue, bindings := range c.Keybindings {
		for kind := range bindings {
			if !hasKind(known[queue], kind) {
				errs = errs.Append(fmt.Sprintf("keybindings.%s.%s", queue, kind), fmt.Errorf("unknown action"))
			}
		}
	}
	return errs.ToError()
}

// KindsFor returns the action kinds of a queue with any configured key
// overrides applied.
func (c *Config) KindsFor(queue string, specs []triage.KindSpec) []triage.KindSpec {
	out := make([]triage.KindSpec, len(specs))
	copy(out, specs)

	for i, s := range out {
		if key, ok := c.Keybindings[queue][string(s.Kind)]; ok {
			out[i].Key = key
		}
	}
	return out
}

func hasKind(specs []triage.KindSpec, kind string) bool {
	for _, s := range specs {
		if string(s.Kind) == kind {
			return true
		}
	}
	return false
}

func httpURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("url %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
