package triage

import (
	"slices"
	"time"

	"github.com/hay-kot/bluelight/internal/core/clock"
)

// PendingAction is an optimistic action that has been applied locally but
// not yet committed.
type PendingAction[T Item] struct {
	ID            string
	Kind          Kind
	Item          T
	OriginalIndex int
	Timer         clock.Timer
	ToastID       string
	CreatedAt     time.Time

	backingIndex int
}

// Ledger is a stack of pending actions. It is not safe for concurrent use.
type Ledger[T Item] struct {
	entries []*PendingAction[T]
}

// Push records a new pending action as the most recent.
func (l *Ledger[T]) Push(pa *PendingAction[T]) {
	l.entries = append(l.entries, pa)
}

// Pop removes and returns the most recent pending action.
func (l *Ledger[T]) Pop() (*PendingAction[T], bool) {
	if len(l.entries) == 0 {
		return nil, false
	}
	pa := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return pa, true
}

// Peek returns the most recent pending action without removing it.
func (l *Ledger[T]) Peek() (*PendingAction[T], bool) {
	if len(l.entries) == 0 {
		return nil, false
	}
	return l.entries[len(l.entries)-1], true
}

// Take removes the pending action with the given id, wherever it sits.
func (l *Ledger[T]) Take(id string) (*PendingAction[T], bool) {
	idx := slices.IndexFunc(l.entries, func(pa *PendingAction[T]) bool { return pa.ID == id })
	if idx < 0 {
		return nil, false
	}
	pa := l.entries[idx]
	l.entries = slices.Delete(l.entries, idx, idx+1)
	return pa, true
}

// Drain removes every pending action and returns them oldest first.
func (l *Ledger[T]) Drain() []*PendingAction[T] {
	out := l.entries
	l.entries = nil
	return out
}

// Len returns the number of pending actions.
func (l *Ledger[T]) Len() int {
	return len(l.entries)
}

// HasItem reports whether a pending action holds the item with id.
func (l *Ledger[T]) HasItem(id string) bool {
	return slices.ContainsFunc(l.entries, func(pa *PendingAction[T]) bool { return pa.Item.ItemID() == id })
}
