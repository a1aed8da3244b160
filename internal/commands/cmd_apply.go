package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bluelight/internal/bluelight"
	"github.com/hay-kot/bluelight/internal/core/config"
	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/core/validate"
	"github.com/hay-kot/bluelight/internal/leads"
	"github.com/hay-kot/bluelight/pkg/iojson"
)

const (
	StatusCommitted = "committed" // StatusCommitted indicates the decision was written to Airtable.
	StatusFailed    = "failed"    // StatusFailed indicates the write failed; the item stays pending.
	StatusSkipped   = "skipped"   // StatusSkipped indicates the item was not pending in its queue.
)

// ApplyInput is the JSON input schema for batch decisions.
type ApplyInput struct {
	Decisions []Decision `json:"decisions"`
}

// Decision applies one action kind to one Airtable record.
type Decision struct {
	Queue string `json:"queue"`
	ID    string `json:"id"`
	Kind  string `json:"kind"`
}

// ApplyResult reports how one decision ended.
type ApplyResult struct {
	Queue  string `json:"queue"`
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

// ApplyOutput is the JSON output of the apply command.
type ApplyOutput struct {
	Results []ApplyResult `json:"results"`
}

// Validate checks the input against the action kinds of each queue.
func (in ApplyInput) Validate() error {
	if len(in.Decisions) == 0 {
		return criterio.NewFieldErrors("decisions", fmt.Errorf("array is empty"))
	}

	kinds := map[string][]triage.KindSpec{
		config.QueueReview: leads.OpportunityKinds(),
		config.QueueEmails: leads.EmailKinds(),
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool)

	for i, d := range in.Decisions {
		field := fmt.Sprintf("decisions[%d]", i)

		specs, ok := kinds[d.Queue]
		if !ok {
			errs = errs.Append(field+".queue", fmt.Errorf("unknown queue %q", d.Queue))
			continue
		}
		if err := validate.RecordID(d.ID); err != nil {
			errs = errs.Append(field+".id", err)
			continue
		}
		if !slices.ContainsFunc(specs, func(s triage.KindSpec) bool { return string(s.Kind) == d.Kind }) {
			errs = errs.Append(field+".kind", fmt.Errorf("%q is not an action of %s", d.Kind, d.Queue))
			continue
		}

		key := d.Queue + "/" + d.ID
		if seen[key] {
			errs = errs.Append(field+".id", fmt.Errorf("duplicate decision for %s", d.ID))
			continue
		}
		seen[key] = true
	}

	return errs.ToError()
}

type ApplyCmd struct {
	flags *Flags
	fr    *iojson.FileReader[ApplyInput]
}

func NewApplyCmd(flags *Flags) *ApplyCmd {
	return &ApplyCmd{
		flags: flags,
		fr:    &iojson.FileReader[ApplyInput]{},
	}
}

func (cmd *ApplyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "apply",
		Usage: "Apply triage decisions from JSON input",
		UsageText: `bluelight apply [options]

Read from stdin:
  echo '{"decisions":[{"queue":"review","id":"rec123","kind":"approve"}]}' | bluelight apply

Read from file:
  bluelight apply -f decisions.json`,
		Description: `Commits decisions without the TUI and without an undo window.

Each decision goes through the same path as a key press in the TUI: the
Airtable status is updated, webhooks fire, and the outcome is recorded in
the history. Records that are no longer pending are skipped.

Input JSON schema:
  {
    "decisions": [
      { "queue": "review|emails", "id": "recXXXX", "kind": "approve" }
    ]
  }`,
		Flags:  []cli.Flag{cmd.fr.Flag()},
		Action: cmd.run,
	})

	return app
}

func (cmd *ApplyCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := cmd.fr.Read()
	if err != nil {
		_ = iojson.WriteError(c.Root().ErrWriter, fmt.Sprintf("read input: %s", err), nil)
		return cli.Exit("", 1)
	}

	if err := input.Validate(); err != nil {
		_ = iojson.WriteError(c.Root().ErrWriter, fmt.Sprintf("invalid input: %s", err), nil)
		return cli.Exit("", 1)
	}

	app, closeApp, err := openApp(cmd.flags)
	if err != nil {
		return err
	}
	defer closeApp()

	results, err := applyDecisions(ctx, app, input.Decisions)
	if err != nil {
		return err
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, ApplyOutput{Results: results})
}

// applyDecisions runs every decision through the queue controllers and
// flushes them at once.
func applyDecisions(ctx context.Context, app *bluelight.App, decisions []Decision) ([]ApplyResult, error) {
	toasts := app.NewToasts()
	results := make([]ApplyResult, len(decisions))

	var (
		review *triage.Controller[leads.Opportunity]
		emails *triage.Controller[leads.Email]
		err    error
	)

	for i, d := range decisions {
		results[i] = ApplyResult{Queue: d.Queue, ID: d.ID, Kind: d.Kind}

		switch d.Queue {
		case config.QueueReview:
			if review == nil {
				if review, err = app.ReviewQueue(ctx, toasts); err != nil {
					return nil, err
				}
			}
			results[i].Status = applyOne(review, d)
		case config.QueueEmails:
			if emails == nil {
				if emails, err = app.EmailQueue(ctx, toasts); err != nil {
					return nil, err
				}
			}
			results[i].Status = applyOne(emails, d)
		}
	}

	if review != nil {
		if err := review.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("review decisions failed")
		}
	}
	if emails != nil {
		if err := emails.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("email decisions failed")
		}
	}

	for i, r := range results {
		if r.Status != StatusCommitted {
			continue
		}
		switch r.Queue {
		case config.QueueReview:
			if visible(review, r.ID) {
				results[i].Status = StatusFailed
			}
		case config.QueueEmails:
			if visible(emails, r.ID) {
				results[i].Status = StatusFailed
			}
		}
	}

	return results, nil
}

// applyOne queues the decision. A failed commit puts the item back in the
// queue, which is how failures are detected after the flush.
func applyOne[T triage.Item](ctrl *triage.Controller[T], d Decision) string {
	if !visible(ctrl, d.ID) {
		return StatusSkipped
	}
	ctrl.ApplyTo(d.ID, triage.Kind(d.Kind))
	return StatusCommitted
}

func visible[T triage.Item](ctrl *triage.Controller[T], id string) bool {
	return slices.ContainsFunc(ctrl.Snapshot().Visible, func(it T) bool { return it.ItemID() == id })
}
