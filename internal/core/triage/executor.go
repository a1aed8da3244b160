package triage

import (
	"context"
	"time"
)

// Executor performs the durable effects of an action once its undo window
// has closed.
type Executor[T Item] interface {
	// Commit performs the primary write. An error means the action did not
	// take effect and the item is restored to the queue.
	Commit(ctx context.Context, kind Kind, item T) error
	// Notify performs best-effort follow-up calls after a successful
	// Commit. Errors are logged and never reverse the commit.
	Notify(ctx context.Context, kind Kind, item T) error
}

// Outcome is the terminal state of a pending action.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeFailed    Outcome = "failed"
	OutcomeUndone    Outcome = "undone"
)

// LogEntry records how a pending action ended.
type LogEntry struct {
	Queue    string
	ActionID string
	Kind     Kind
	ItemID   string
	Outcome  Outcome
	Error    string
	At       time.Time
}

// Recorder persists action outcomes.
type Recorder interface {
	Record(ctx context.Context, e LogEntry) error
}

// Observer receives counters for every state transition.
type Observer interface {
	Applied(queue string, kind Kind)
	Undone(queue string, kind Kind)
	Committed(queue string, kind Kind, took time.Duration)
	Failed(queue string, kind Kind)
	NotifyFailed(queue string, kind Kind)
}

type nopObserver struct{}

func (nopObserver) Applied(string, Kind)                  {}
func (nopObserver) Undone(string, Kind)                   {}
func (nopObserver) Committed(string, Kind, time.Duration) {}
func (nopObserver) Failed(string, Kind)                   {}
func (nopObserver) NotifyFailed(string, Kind)             {}
