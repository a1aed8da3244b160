package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bluelight/internal/core/config"
	"github.com/hay-kot/bluelight/internal/leads"
	"github.com/hay-kot/bluelight/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	category   string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List the pending items of a queue",
		UsageText: "bluelight ls <review|emails> [--json] [--category GLOB]",
		Description: `Prints the items a queue would show, without opening the TUI.

Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			categoryFlag(&cmd.category),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	queue := c.Args().First()
	if queue == "" {
		queue = config.QueueReview
	}

	app, closeApp, err := openApp(cmd.flags)
	if err != nil {
		return err
	}
	defer closeApp()

	out := c.Root().Writer

	switch queue {
	case config.QueueReview:
		items, err := app.Repo.Opportunities(ctx)
		if err != nil {
			return err
		}
		items, err = applyCategory(items, cmd.category)
		if err != nil {
			return err
		}
		return printItems(out, cmd.jsonOutput, items, "FORCE\tTITLE\tCATEGORY\tPRIORITY\tID", func(o leads.Opportunity) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s\t%s", o.Force, o.Title, o.Category, o.Priority, o.ID)
		})
	case config.QueueEmails:
		items, err := app.Repo.Emails(ctx)
		if err != nil {
			return err
		}
		items, err = applyCategory(items, cmd.category)
		if err != nil {
			return err
		}
		return printItems(out, cmd.jsonOutput, items, "FORCE\tTO\tSUBJECT\tID", func(e leads.Email) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s", e.Force, e.To, e.Subject, e.ID)
		})
	default:
		return fmt.Errorf("unknown queue %q (expected %s or %s)", queue, config.QueueReview, config.QueueEmails)
	}
}

func applyCategory[T leads.Categorized](items []T, pattern string) ([]T, error) {
	match, err := leads.CategoryFilter[T](pattern)
	if err != nil || match == nil {
		return items, err
	}

	out := items[:0]
	for _, it := range items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func printItems[T any](w io.Writer, jsonOutput bool, items []T, header string, row func(T) string) error {
	if jsonOutput {
		for _, it := range items {
			if err := iojson.WriteLine(w, it); err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
		}
		return nil
	}

	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "Queue is empty")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, header)
	for _, it := range items {
		_, _ = fmt.Fprintln(tw, row(it))
	}
	return tw.Flush()
}
