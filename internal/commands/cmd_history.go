package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/data/stores"
	"github.com/hay-kot/bluelight/internal/printer"
	"github.com/hay-kot/bluelight/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags

	queue      string
	outcome    string
	since      string
	limit      int
	jsonOutput bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Show how recent actions ended",
		UsageText: "bluelight history [--queue NAME] [--outcome committed|failed|undone] [--since 7d]",
		Description: `Lists the outcome of every applied action: committed to Airtable,
failed and restored to the queue, or undone before its window closed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "queue",
				Usage:       "only show one queue (review, emails)",
				Destination: &cmd.queue,
			},
			&cli.StringFlag{
				Name:        "outcome",
				Usage:       "only show one outcome (committed, failed, undone)",
				Destination: &cmd.outcome,
			},
			&cli.StringFlag{
				Name:        "since",
				Usage:       "only show actions newer than this (e.g. 2h, 7d)",
				Value:       "7d",
				Destination: &cmd.since,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum entries to show",
				Value:       50,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	filter, err := cmd.filter(time.Now())
	if err != nil {
		return err
	}

	history, _, closer, err := openHistory(cmd.flags)
	if err != nil {
		return err
	}
	defer closer()

	entries, err := history.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, historyLine(e)); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		}
		return nil
	}

	p := printer.Ctx(ctx)
	if len(entries) == 0 {
		p.Infof("No actions since %s", filter.Since.Format(time.DateTime))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tQUEUE\tKIND\tITEM\tOUTCOME\tERROR")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.At.Local().Format(time.DateTime), e.Queue, e.Kind, e.ItemID, e.Outcome, e.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts, err := history.Counts(ctx, filter.Since)
	if err != nil {
		return fmt.Errorf("count history: %w", err)
	}
	p.Printf("")
	p.Printf("%s", summarize(counts))
	return nil
}

func (cmd *HistoryCmd) filter(now time.Time) (stores.ActionLogFilter, error) {
	f := stores.ActionLogFilter{
		Queue: cmd.queue,
		Limit: cmd.limit,
	}

	switch triage.Outcome(cmd.outcome) {
	case "", triage.OutcomeCommitted, triage.OutcomeFailed, triage.OutcomeUndone:
		f.Outcome = triage.Outcome(cmd.outcome)
	default:
		return f, fmt.Errorf("unknown outcome %q (expected committed, failed or undone)", cmd.outcome)
	}

	if cmd.since != "" {
		d, err := parseDuration(cmd.since)
		if err != nil {
			return f, fmt.Errorf("invalid --since: %w", err)
		}
		f.Since = now.Add(-d)
	}
	return f, nil
}

type historyEntry struct {
	At      time.Time `json:"at"`
	Queue   string    `json:"queue"`
	Action  string    `json:"action_id"`
	Kind    string    `json:"kind"`
	ItemID  string    `json:"item_id"`
	Outcome string    `json:"outcome"`
	Error   string    `json:"error,omitempty"`
}

func historyLine(e triage.LogEntry) historyEntry {
	return historyEntry{
		At:      e.At,
		Queue:   e.Queue,
		Action:  e.ActionID,
		Kind:    string(e.Kind),
		ItemID:  e.ItemID,
		Outcome: string(e.Outcome),
		Error:   e.Error,
	}
}

func summarize(counts map[triage.Outcome]int) string {
	parts := make([]string, 0, 3)
	for _, o := range []triage.Outcome{triage.OutcomeCommitted, triage.OutcomeFailed, triage.OutcomeUndone} {
		parts = append(parts, strconv.Itoa(counts[o])+" "+string(o))
	}
	return strings.Join(parts, ", ")
}

func parseDuration(s string) (time.Duration, error) {
	// Handle day suffix (not supported by time.ParseDuration)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid days: %s", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
