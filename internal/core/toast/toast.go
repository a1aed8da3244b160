// Package toast manages the set of transient notifications shown to the
// user, including undo toasts that carry a cancellation callback and a
// countdown tied to a wall-clock deadline.
package toast

import (
	"time"

	"github.com/hay-kot/bluelight/internal/core/notify"
)

// Kind identifies how a toast is presented.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindUndo    Kind = "undo"
)

// Action is an interactive control attached to a toast.
type Action struct {
	Label string
	Run   func()
}

// Toast is a single transient notification.
type Toast struct {
	ID          string
	Kind        Kind
	Title       string
	Description string
	Duration    time.Duration
	Action      *Action

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Remaining returns the time left before the toast's deadline, computed from
// now so that the countdown never drifts from the real timer.
func (t Toast) Remaining(now time.Time) time.Duration {
	r := t.ExpiresAt.Sub(now)
	if r < 0 {
		return 0
	}
	return r
}

// Progress returns the fraction of the toast's lifetime still remaining,
// between 0 and 1.
func (t Toast) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 0
	}
	p := float64(t.Remaining(now)) / float64(t.Duration)
	return min(max(p, 0), 1)
}

// Level maps the toast kind to a notification history level.
func (t Toast) Level() notify.Level {
	switch t.Kind {
	case KindSuccess:
		return notify.LevelSuccess
	case KindError:
		return notify.LevelError
	case KindUndo:
		return notify.LevelWarning
	default:
		return notify.LevelInfo
	}
}
