package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bluelight/internal/leads"
	"github.com/hay-kot/bluelight/internal/tui"
)

type EmailsCmd struct {
	flags    *Flags
	category string
}

// NewEmailsCmd creates a new emails command
func NewEmailsCmd(flags *Flags) *EmailsCmd {
	return &EmailsCmd{flags: flags}
}

// Register adds the emails command to the application
func (cmd *EmailsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "emails",
		Usage:     "Review drafted outreach emails",
		UsageText: "bluelight emails [--category GLOB]",
		Description: `Opens the email queue: drafts in Airtable with Status "Draft".

Sending marks the draft "Sent" and posts it to the send_email webhook once
the undo window closes; Make.com delivers the message.`,
		Flags:  []cli.Flag{categoryFlag(&cmd.category)},
		Action: cmd.run,
	})

	return app
}

func (cmd *EmailsCmd) run(ctx context.Context, _ *cli.Command) error {
	if !tui.IsTerminal() {
		return tui.ErrNotTerminal
	}

	scope, err := leads.CategoryFilter[leads.Email](cmd.category)
	if err != nil {
		return err
	}

	app, closeApp, err := openApp(cmd.flags)
	if err != nil {
		return err
	}
	defer closeApp()

	stopMetrics, err := startMetrics(ctx, cmd.flags.MetricsPort, app)
	if err != nil {
		return err
	}
	defer stopMetrics()

	toasts := app.NewToasts()
	ctrl, err := app.EmailQueue(ctx, toasts)
	if err != nil {
		return err
	}

	m := tui.New(tui.Options[leads.Email]{
		Title:      "Emails",
		Controller: ctrl,
		Toasts:     toasts,
		Renderer:   tui.NewEmailRenderer(),
		Load: func(ctx context.Context) ([]leads.Email, error) {
			app.Repo.Refresh()
			return app.Repo.Emails(ctx)
		},
		Scope: scope,
	})
	return tui.Run(ctx, m)
}
