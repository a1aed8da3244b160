package toast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/bluelight/internal/core/clock"
	"github.com/hay-kot/bluelight/internal/core/notify"
)

const (
	DefaultDuration     = 4 * time.Second
	DefaultUndoDuration = 30 * time.Second
	DefaultMaxToasts    = 5

	// pinGrace extends the safety-net expiry of undo toasts past their
	// visible deadline. The owner of an undo toast replaces or removes it
	// when its window closes; the expiry only catches owners that never do.
	pinGrace = 2 * time.Second
)

// Options configures a Manager.
type Options struct {
	DefaultDuration time.Duration
	UndoDuration    time.Duration
	MaxToasts       int
	Clock           clock.Clock
	Store           notify.Store
	Logger          zerolog.Logger
}

type entry struct {
	toast Toast
	timer clock.Timer
	gen   uint64
}

// Manager owns the list of visible toasts. It is safe for concurrent use;
// subscribers registered with OnChange are called after every mutation,
// outside the internal lock.
type Manager struct {
	mu      sync.Mutex
	opts    Options
	entries []*entry
	subs    []func()
	gen     uint64
}

// NewManager constructs a Manager, filling zero options with defaults.
func NewManager(opts Options) *Manager {
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = DefaultDuration
	}
	if opts.UndoDuration <= 0 {
		opts.UndoDuration = DefaultUndoDuration
	}
	if opts.MaxToasts <= 0 {
		opts.MaxToasts = DefaultMaxToasts
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}

	return &Manager{opts: opts}
}

// OnChange registers fn to be called whenever the toast list changes.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Show displays t and returns its newly assigned id.
func (m *Manager) Show(t Toast) string {
	m.mu.Lock()
	t = m.prepare(t, uuid.NewString())
	m.entries = append(m.entries, m.newEntry(t))
	m.evict()
	m.mu.Unlock()

	m.persist(t)
	m.changed()
	return t.ID
}

// Replace swaps the toast with the given id for t, keeping its id and its
// position in the stack. If the id is no longer present, t is shown as a
// new toast. The returned id identifies the visible toast.
func (m *Manager) Replace(id string, t Toast) string {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return m.Show(t)
	}

	old := m.entries[idx]
	old.timer.Stop()

	t = m.prepare(t, id)
	m.entries[idx] = m.newEntry(t)
	m.mu.Unlock()

	m.persist(t)
	m.changed()
	return id
}

// Remove dismisses the toast with the given id. Unknown or already removed
// ids are ignored.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return
	}

	m.entries[idx].timer.Stop()
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	m.mu.Unlock()

	m.changed()
}

// Dismiss removes the newest toast that is not an undo toast.
func (m *Manager) Dismiss() {
	m.mu.Lock()
	var id string
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].toast.Kind != KindUndo {
			id = m.entries[i].toast.ID
			break
		}
	}
	m.mu.Unlock()

	if id != "" {
		m.Remove(id)
	}
}

// Undo runs the action of the newest undo toast. It returns false if no
// undo toast is visible.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	var action *Action
	for i := len(m.entries) - 1; i >= 0; i-- {
		t := m.entries[i].toast
		if t.Kind == KindUndo && t.Action != nil {
			action = t.Action
			break
		}
	}
	m.mu.Unlock()

	if action == nil || action.Run == nil {
		return false
	}
	action.Run()
	return true
}

// Get returns the toast with the given id.
func (m *Manager) Get(id string) (Toast, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return Toast{}, false
	}
	return m.entries[idx].toast, true
}

// List returns a snapshot of the visible toasts, oldest first.
func (m *Manager) List() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Toast, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.toast
	}
	return out
}

// HasUndo reports whether any undo toast is visible. The TUI uses it to keep
// the countdown animation ticking.
func (m *Manager) HasUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.toast.Kind == KindUndo {
			return true
		}
	}
	return false
}

// Now exposes the manager's clock for rendering countdowns.
func (m *Manager) Now() time.Time {
	return m.opts.Clock.Now()
}

func (m *Manager) prepare(t Toast, id string) Toast {
	t.ID = id
	if t.Kind == "" {
		t.Kind = KindInfo
	}
	if t.Duration <= 0 {
		if t.Kind == KindUndo {
			t.Duration = m.opts.UndoDuration
		} else {
			t.Duration = m.opts.DefaultDuration
		}
	}
	t.CreatedAt = m.opts.Clock.Now()
	t.ExpiresAt = t.CreatedAt.Add(t.Duration)
	return t
}

// newEntry schedules the expiry of t. Callers must hold m.mu.
func (m *Manager) newEntry(t Toast) *entry {
	m.gen++
	gen := m.gen

	d := t.Duration
	if t.Kind == KindUndo {
		d += pinGrace
	}
	id := t.ID
	return &entry{
		toast: t,
		gen:   gen,
		timer: m.opts.Clock.AfterFunc(d, func() { m.expire(id, gen) }),
	}
}

// expire removes the toast only if it is the same generation that scheduled
// the timer; a Replace in between owns the slot now.
func (m *Manager) expire(id string, gen uint64) {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 || m.entries[idx].gen != gen {
		m.mu.Unlock()
		return
	}
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	m.mu.Unlock()

	m.changed()
}

// evict drops the oldest non-undo toasts while the stack is over capacity.
// Undo toasts are never evicted. Callers must hold m.mu.
func (m *Manager) evict() {
	for len(m.entries) > m.opts.MaxToasts {
		victim := -1
		for i, e := range m.entries {
			if e.toast.Kind != KindUndo {
				victim = i
				break
			}
		}
		if victim < 0 {
			return
		}
		m.entries[victim].timer.Stop()
		m.entries = append(m.entries[:victim], m.entries[victim+1:]...)
	}
}

func (m *Manager) indexOf(id string) int {
	for i, e := range m.entries {
		if e.toast.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persist(t Toast) {
	if m.opts.Store == nil || t.Kind == KindUndo {
		return
	}

	_, err := m.opts.Store.Save(context.Background(), notify.Notification{
		Level:     t.Level(),
		Title:     t.Title,
		Message:   t.Description,
		CreatedAt: t.CreatedAt,
	})
	if err != nil {
		m.opts.Logger.Error().Err(err).Str("title", t.Title).Msg("failed to persist notification")
	}
}

func (m *Manager) changed() {
	m.mu.Lock()
	subs := make([]func(), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
