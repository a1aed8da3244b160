// Package initcmd implements the 'bluelight init' setup wizard.
package initcmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/bluelight/internal/core/config"
	"github.com/hay-kot/bluelight/internal/core/doctor"
	"github.com/hay-kot/bluelight/internal/core/styles"
	"github.com/hay-kot/bluelight/internal/core/validate"
	"github.com/hay-kot/bluelight/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use Answers as given
	Force      bool // overwrite existing config
	Answers    ConfigOptions
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := w.opts.Answers
	if !w.opts.Yes {
		var err error
		answers, err = w.promptUser(answers)
		if err != nil {
			return err
		}
	}

	backupPath, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		p.Successf("Backed up config to: %s", backupPath)
	}

	data, err := GenerateConfig(answers)
	if err != nil {
		return err
	}
	if err := WriteConfig(data, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	cfg, err := config.Read(w.opts.ConfigPath, w.opts.DataDir)
	if err != nil {
		return fmt.Errorf("read back config: %w", err)
	}

	if answers.Token != "" {
		if err := cfg.StoreToken(strings.TrimSpace(answers.Token)); err != nil {
			p.Warnf("Could not store token: %v", err)
		} else {
			p.Successf("Stored Airtable token in the system keychain")
		}
	}

	p.Printf("")
	result := doctor.NewConfigCheck(cfg, w.opts.ConfigPath).Run(ctx)
	p.Section(result.Name)
	for _, item := range result.Items {
		switch item.Status {
		case doctor.StatusPass:
			p.CheckItem(item.Label, item.Detail)
		case doctor.StatusWarn:
			p.WarnItem(item.Label, item.Detail)
		case doctor.StatusFail:
			p.FailItem(item.Label, item.Detail)
		}
	}

	w.printNextSteps(p, cfg)
	return nil
}

func (w *Wizard) promptUser(preset ConfigOptions) (ConfigOptions, error) {
	answers := preset
	undo := preset.UndoWindow.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Airtable base id").
				Description("From the base URL: airtable.com/appXXXXXXXX/...").
				Value(&answers.BaseID).
				Validate(validate.BaseID),
			huh.NewInput().
				Title("Token environment variable").
				Description("Name of the env var holding your Airtable personal access token").
				Value(&answers.TokenEnv).
				Validate(required),
			huh.NewInput().
				Title("Airtable token").
				Description("Stored in the system keychain. Leave empty to use the env var instead").
				EchoMode(huh.EchoModePassword).
				Value(&answers.Token),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Approved-opportunity webhook").
				Description("Make.com scenario URL, leave empty to skip").
				Value(&answers.OpportunityApproved).
				Validate(optionalURL),
			huh.NewInput().
				Title("Send-email webhook").
				Description("Make.com scenario URL, leave empty to skip").
				Value(&answers.SendEmail).
				Validate(optionalURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Undo window").
				Description("How long an action can be undone before it is written, e.g. 30s").
				Value(&undo).
				Validate(undoWindow),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(styles.ThemeNames()...)...).
				Value(&answers.Theme),
		),
	)
	if err := form.Run(); err != nil {
		return ConfigOptions{}, err
	}

	d, err := time.ParseDuration(undo)
	if err != nil {
		return ConfigOptions{}, err
	}
	answers.UndoWindow = d
	answers.OpportunityApproved = strings.TrimSpace(answers.OpportunityApproved)
	answers.SendEmail = strings.TrimSpace(answers.SendEmail)

	return answers, nil
}

func (w *Wizard) printNextSteps(p *printer.Printer, cfg *config.Config) {
	p.Printf("")
	p.Section("Next Steps")

	step := 1
	if _, err := cfg.Token(); err != nil {
		p.Printf("  %d. Export your Airtable token: export %s=pat...", step, cfg.Airtable.TokenEnv)
		step++
	}
	p.Printf("  %d. Run 'bluelight doctor' to check the connection", step)
	step++
	p.Printf("  %d. Run 'bluelight' to start triaging", step)
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func optionalURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL")
	}
	return nil
}

func undoWindow(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d < time.Second {
		return fmt.Errorf("must be at least 1s")
	}
	return nil
}
