// Package triage implements optimistic queue actions with a timed undo
// window. An action removes the item from the queue immediately, shows an
// undo toast and commits to the backend only after the window closes.
package triage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/bluelight/internal/core/clock"
	"github.com/hay-kot/bluelight/internal/core/logging"
	"github.com/hay-kot/bluelight/internal/core/toast"
)

const (
	DefaultUndoWindow    = 30 * time.Second
	DefaultCommitTimeout = 15 * time.Second
)

// Toaster is the subset of the toast manager the controller needs. The
// controller may call it while holding its own lock, so implementations
// must not call back into the controller synchronously.
type Toaster interface {
	Show(t toast.Toast) string
	Replace(id string, t toast.Toast) string
	Remove(id string)
}

// Options configures a Controller.
type Options[T Item] struct {
	Name     string
	Items    []T
	Kinds    []KindSpec
	Executor Executor[T]
	Toasts   Toaster
	// Describe renders an item for toast descriptions.
	Describe func(T) string

	Clock         clock.Clock
	UndoWindow    time.Duration
	CommitTimeout time.Duration
	Logger        zerolog.Logger
	Recorder      Recorder
	Observer      Observer
}

// Snapshot is an immutable view of a controller's state for rendering.
type Snapshot[T Item] struct {
	Name         string
	Visible      []T
	Current      T
	HasCurrent   bool
	CurrentIndex int
	Stats        Stats
	Pending      int
}

// Controller owns a queue, its undo ledger and session stats. All three
// are mutated under a single lock; backend calls run outside it.
type Controller[T Item] struct {
	mu       sync.Mutex
	queue    *Queue[T]
	ledger   Ledger[T]
	stats    Stats
	mark     time.Time
	inflight map[string]struct{}
	subs     []func()
	wg       sync.WaitGroup

	name     string
	kinds    []KindSpec
	exec     Executor[T]
	toasts   Toaster
	describe func(T) string
	clock    clock.Clock
	window   time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	recorder Recorder
	observer Observer
}

// New constructs a Controller.
func New[T Item](opts Options[T]) *Controller[T] {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}
	if opts.CommitTimeout <= 0 {
		opts.CommitTimeout = DefaultCommitTimeout
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Describe == nil {
		opts.Describe = func(it T) string { return it.ItemID() }
	}

	c := &Controller[T]{
		queue:    NewQueue(opts.Items),
		inflight: make(map[string]struct{}),
		name:     opts.Name,
		kinds:    opts.Kinds,
		exec:     opts.Executor,
		toasts:   opts.Toasts,
		describe: opts.Describe,
		clock:    opts.Clock,
		window:   opts.UndoWindow,
		timeout:  opts.CommitTimeout,
		logger:   opts.Logger.With().Str("queue", opts.Name).Logger(),
		recorder: opts.Recorder,
		observer: opts.Observer,
	}
	c.stats.Total = len(opts.Items)
	c.mark = c.clock.Now()
	return c
}

// Name returns the queue name.
func (c *Controller[T]) Name() string {
	return c.name
}

// Kinds returns the action kinds valid for this queue.
func (c *Controller[T]) Kinds() []KindSpec {
	return c.kinds
}

// UndoWindow returns the delay between an action and its commit.
func (c *Controller[T]) UndoWindow() time.Duration {
	return c.window
}

// OnChange registers fn to be called after every state change. fn may be
// called from timer goroutines and must not block.
func (c *Controller[T]) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot[T]{
		Name:         c.name,
		Visible:      c.queue.Visible(),
		CurrentIndex: c.queue.VisibleIndex(c.queue.CurrentID()),
		Stats:        c.stats.clone(),
		Pending:      c.ledger.Len(),
	}
	s.Current, s.HasCurrent = c.queue.Current()
	return s
}

// Apply performs kind on the current item.
func (c *Controller[T]) Apply(kind Kind) {
	c.mu.Lock()
	id := c.queue.CurrentID()
	c.mu.Unlock()

	c.ApplyTo(id, kind)
}

// ApplyTo optimistically performs kind on the item with id: the item leaves
// the queue now and the commit is scheduled after the undo window. An empty
// id or an unknown kind is a no-op reported through an info toast.
func (c *Controller[T]) ApplyTo(id string, kind Kind) {
	if id == "" {
		c.info("Nothing selected", "Select an item first")
		return
	}

	spec, ok := findKind(c.kinds, kind)
	if !ok {
		c.info("Unknown action", fmt.Sprintf("%q is not available on %s", kind, c.name))
		return
	}

	c.mu.Lock()
	item, visIdx, backIdx, ok := c.queue.Remove(id)
	if !ok {
		c.mu.Unlock()
		c.info("Nothing to do", "That item is no longer in the queue")
		return
	}

	now := c.clock.Now()
	pa := &PendingAction[T]{
		ID:            uuid.NewString(),
		Kind:          kind,
		Item:          item,
		OriginalIndex: visIdx,
		CreatedAt:     now,
		backingIndex:  backIdx,
	}

	c.stats.Record(pa.ID, now.Sub(c.mark))
	c.mark = now

	pa.ToastID = c.toasts.Show(toast.Toast{
		Kind:        toast.KindUndo,
		Title:       spec.Label,
		Description: c.describe(item),
		Duration:    c.window,
		Action:      &toast.Action{Label: "Undo", Run: func() { c.UndoLast() }},
	})
	actionID := pa.ID
	pa.Timer = c.clock.AfterFunc(c.window, func() { c.execute(actionID) })
	c.ledger.Push(pa)
	c.mu.Unlock()

	c.logger.Debug().
		Str("action_id", pa.ID).
		Str("kind", string(kind)).
		Str("item_id", id).
		Int("original_index", visIdx).
		Msg("action applied")
	c.observer.Applied(c.name, kind)
	c.changed()
}

// UndoLast reverses the most recent pending action. It returns false when
// there was nothing to undo.
func (c *Controller[T]) UndoLast() bool {
	c.mu.Lock()
	pa, ok := c.ledger.Pop()
	if !ok {
		c.mu.Unlock()
		c.info("Nothing to undo", "")
		return false
	}

	// The ledger entry is gone, so a timer that fires concurrently finds
	// nothing to commit.
	pa.Timer.Stop()
	c.toasts.Remove(pa.ToastID)

	c.queue.Reinsert(pa.OriginalIndex, pa.backingIndex, pa.Item)
	c.queue.SetCurrent(pa.Item.ItemID())
	c.stats.Rollback(pa.ID)
	c.mark = c.clock.Now()
	c.mu.Unlock()

	c.toasts.Show(toast.Toast{
		Kind:        toast.KindSuccess,
		Title:       "Restored",
		Description: c.describe(pa.Item),
	})

	c.logger.Debug().Str("action_id", pa.ID).Str("kind", string(pa.Kind)).Msg("action undone")
	c.observer.Undone(c.name, pa.Kind)
	c.record(context.Background(), pa, OutcomeUndone, nil)
	c.changed()
	return true
}

// Next moves the current pointer forward.
func (c *Controller[T]) Next() {
	c.mutate(func() { c.queue.Next() })
}

// Prev moves the current pointer back.
func (c *Controller[T]) Prev() {
	c.mutate(func() { c.queue.Prev() })
}

// Select moves the current pointer to id.
func (c *Controller[T]) Select(id string) bool {
	var ok bool
	c.mutate(func() { ok = c.queue.SetCurrent(id) })
	return ok
}

// SetFilter changes which items are visible. nil shows everything.
func (c *Controller[T]) SetFilter(fn func(T) bool) {
	c.mutate(func() { c.queue.SetFilter(fn) })
}

// Reload replaces the backing collection with freshly fetched items. Items
// with a pending or in-flight action are left out so they cannot be actioned
// twice.
func (c *Controller[T]) Reload(items []T) {
	c.mutate(func() {
		fresh := make([]T, 0, len(items))
		for _, it := range items {
			id := it.ItemID()
			if c.ledger.HasItem(id) {
				continue
			}
			if _, busy := c.inflight[id]; busy {
				continue
			}
			fresh = append(fresh, it)
		}
		c.queue.Replace(fresh)
		c.stats.Total = len(fresh) + c.stats.Processed
	})
}

// Flush commits every pending action immediately, oldest first, and waits
// for commits already in flight. It is used on shutdown so that no applied
// action is lost.
func (c *Controller[T]) Flush(ctx context.Context) error {
	c.mu.Lock()
	pending := c.ledger.Drain()
	for _, pa := range pending {
		pa.Timer.Stop()
		c.inflight[pa.Item.ItemID()] = struct{}{}
		c.wg.Add(1)
	}
	c.mu.Unlock()

	var errs []error
	for _, pa := range pending {
		c.saving(pa)
		if err := c.commit(ctx, pa); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", pa.Kind, pa.Item.ItemID(), err))
		}
	}

	c.wg.Wait()
	return errors.Join(errs...)
}

// execute is the timer callback for a pending action.
func (c *Controller[T]) execute(actionID string) {
	c.mu.Lock()
	pa, ok := c.ledger.Take(actionID)
	if !ok {
		// undone or flushed before the timer ran
		c.mu.Unlock()
		return
	}
	c.inflight[pa.Item.ItemID()] = struct{}{}
	c.wg.Add(1)
	c.mu.Unlock()

	c.saving(pa)
	_ = c.commit(context.Background(), pa)
}

// saving swaps the undo toast for a progress toast; once a commit has
// started the action can no longer be undone.
func (c *Controller[T]) saving(pa *PendingAction[T]) {
	pa.ToastID = c.toasts.Replace(pa.ToastID, toast.Toast{
		Kind:        toast.KindInfo,
		Title:       "Saving…",
		Description: c.describe(pa.Item),
		Duration:    c.timeout,
	})
	c.changed()
}

// commit runs the executor for a pending action that has already left the
// ledger and reconciles local state with the outcome. The caller must have
// registered pa in c.inflight and c.wg.
func (c *Controller[T]) commit(ctx context.Context, pa *PendingAction[T]) error {
	defer c.wg.Done()

	ctx = logging.WithActionID(logging.WithQueue(ctx, c.name), pa.ID)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	spec, _ := findKind(c.kinds, pa.Kind)
	start := c.clock.Now()

	err := c.exec.Commit(ctx, pa.Kind, pa.Item)
	if err != nil {
		c.mu.Lock()
		delete(c.inflight, pa.Item.ItemID())
		c.queue.Reinsert(pa.OriginalIndex, pa.backingIndex, pa.Item)
		c.stats.Rollback(pa.ID)
		c.mu.Unlock()

		c.toasts.Replace(pa.ToastID, toast.Toast{
			Kind:        toast.KindError,
			Title:       spec.Label + " failed",
			Description: c.describe(pa.Item) + " was restored to the queue",
		})

		c.logger.Error().Err(err).
			Str("action_id", pa.ID).
			Str("kind", string(pa.Kind)).
			Str("item_id", pa.Item.ItemID()).
			Msg("commit failed, item restored")
		c.observer.Failed(c.name, pa.Kind)
		c.record(ctx, pa, OutcomeFailed, err)
		c.changed()
		return err
	}

	c.mu.Lock()
	delete(c.inflight, pa.Item.ItemID())
	c.mu.Unlock()

	// The primary write already took effect; follow-up failures are only
	// reported so a retry never repeats the commit.
	if nerr := c.exec.Notify(ctx, pa.Kind, pa.Item); nerr != nil {
		c.logger.Warn().Err(nerr).
			Str("action_id", pa.ID).
			Str("kind", string(pa.Kind)).
			Str("item_id", pa.Item.ItemID()).
			Msg("follow-up notification failed")
		c.observer.NotifyFailed(c.name, pa.Kind)
	}

	c.toasts.Replace(pa.ToastID, toast.Toast{
		Kind:        toast.KindSuccess,
		Title:       spec.Label,
		Description: c.describe(pa.Item),
	})

	c.logger.Info().
		Str("action_id", pa.ID).
		Str("kind", string(pa.Kind)).
		Str("item_id", pa.Item.ItemID()).
		Msg("action committed")
	c.observer.Committed(c.name, pa.Kind, c.clock.Now().Sub(start))
	c.record(ctx, pa, OutcomeCommitted, nil)
	c.changed()
	return nil
}

func (c *Controller[T]) record(ctx context.Context, pa *PendingAction[T], outcome Outcome, cause error) {
	if c.recorder == nil {
		return
	}

	e := LogEntry{
		Queue:    c.name,
		ActionID: pa.ID,
		Kind:     pa.Kind,
		ItemID:   pa.Item.ItemID(),
		Outcome:  outcome,
		At:       c.clock.Now(),
	}
	if cause != nil {
		e.Error = cause.Error()
	}

	// the commit context may already be past its deadline
	if err := c.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		c.logger.Warn().Err(err).Str("action_id", pa.ID).Msg("failed to record action outcome")
	}
}

func (c *Controller[T]) info(title, desc string) {
	c.toasts.Show(toast.Toast{Kind: toast.KindInfo, Title: title, Description: desc})
}

func (c *Controller[T]) mutate(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
	c.changed()
}

func (c *Controller[T]) changed() {
	c.mu.Lock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
