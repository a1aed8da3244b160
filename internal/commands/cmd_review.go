package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bluelight/internal/leads"
	"github.com/hay-kot/bluelight/internal/tui"
)

type ReviewCmd struct {
	flags    *Flags
	category string
}

// NewReviewCmd creates a new review command
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Triage new outreach opportunities",
		UsageText: "bluelight review [--category GLOB]",
		Description: `Opens the review queue: opportunities in Airtable with Status "New".

Approving, skipping or archiving removes the item at once and shows an undo
toast. The change is written to Airtable only when the undo window closes.
Approved opportunities also trigger the opportunity_approved webhook.

Quitting saves every pending action before exiting.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})

	return app
}

// Flags returns the review flags, also registered on the root command.
func (cmd *ReviewCmd) Flags() []cli.Flag {
	return []cli.Flag{categoryFlag(&cmd.category)}
}

// Run executes the review TUI. Exported for use as default command.
func (cmd *ReviewCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ReviewCmd) run(ctx context.Context, _ *cli.Command) error {
	if !tui.IsTerminal() {
		return tui.ErrNotTerminal
	}

	scope, err := leads.CategoryFilter[leads.Opportunity](cmd.category)
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
	ctrl, err := app.ReviewQueue(ctx, toasts)
	if err != nil {
		return err
	}

	m := tui.New(tui.Options[leads.Opportunity]{
		Title:      "Review",
		Controller: ctrl,
		Toasts:     toasts,
		Renderer:   tui.OpportunityRenderer{},
		Load: func(ctx context.Context) ([]leads.Opportunity, error) {
			app.Repo.Refresh()
			return app.Repo.Opportunities(ctx)
		},
		Scope: scope,
	})
	return tui.Run(ctx, m)
}
