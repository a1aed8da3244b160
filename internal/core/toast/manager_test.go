package toast

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/bluelight/internal/core/clock/fakeclock"
	"github.com/hay-kot/bluelight/internal/core/notify"
)

func newTestManager(opts Options) (*Manager, *fakeclock.Clock) {
	clk := fakeclock.New(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	opts.Clock = clk
	return NewManager(opts), clk
}

type memStore struct {
	saved []notify.Notification
	err   error
}

func (s *memStore) Save(_ context.Context, n notify.Notification) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved = append(s.saved, n)
	return int64(len(s.saved)), nil
}

func (s *memStore) List(context.Context, int) ([]notify.Notification, error) { return s.saved, nil }
func (s *memStore) Clear(context.Context) error                              { s.saved = nil; return nil }
func (s *memStore) Count(context.Context) (int64, error)                     { return int64(len(s.saved)), nil }

func TestShow_assigns_id_and_default_duration(t *testing.T) {
	m, clk := newTestManager(Options{})

	id := m.Show(Toast{Kind: KindSuccess, Title: "Saved"})

	require.NotEmpty(t, id)
	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, DefaultDuration, got.Duration)
	assert.Equal(t, clk.Now().Add(DefaultDuration), got.ExpiresAt)
}

func TestShow_undo_defaults_to_undo_window(t *testing.T) {
	m, _ := newTestManager(Options{UndoDuration: 10 * time.Second})

	id := m.Show(Toast{Kind: KindUndo, Title: "Skipped"})

	got, _ := m.Get(id)
	assert.Equal(t, 10*time.Second, got.Duration)
}

func TestShow_auto_expires(t *testing.T) {
	m, clk := newTestManager(Options{})
	m.Show(Toast{Kind: KindInfo, Title: "hello"})

	clk.Advance(DefaultDuration - time.Millisecond)
	assert.Len(t, m.List(), 1)

	clk.Advance(time.Millisecond)
	assert.Empty(t, m.List())
}

func TestShow_undo_toast_outlives_its_window(t *testing.T) {
	m, clk := newTestManager(Options{UndoDuration: 30 * time.Second})
	m.Show(Toast{Kind: KindUndo, Title: "Skipped"})

	clk.Advance(30 * time.Second)
	assert.Len(t, m.List(), 1, "owner gets a chance to replace the toast first")

	clk.Advance(pinGrace)
	assert.Empty(t, m.List())
}

func TestRemove_is_idempotent(t *testing.T) {
	m, _ := newTestManager(Options{})
	a := m.Show(Toast{Title: "a"})
	b := m.Show(Toast{Title: "b"})

	m.Remove(a)
	m.Remove(a)
	m.Remove("does-not-exist")

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, b, list[0].ID)
}

func TestRemove_races_with_expiry(t *testing.T) {
	m, clk := newTestManager(Options{})
	id := m.Show(Toast{Title: "a"})

	clk.Advance(DefaultDuration)
	m.Remove(id)

	assert.Empty(t, m.List())
}

func TestReplace_keeps_id_and_position(t *testing.T) {
	m, _ := newTestManager(Options{})
	first := m.Show(Toast{Title: "first"})
	undo := m.Show(Toast{Kind: KindUndo, Title: "Skipped"})
	m.Show(Toast{Title: "last"})

	got := m.Replace(undo, Toast{Kind: KindSuccess, Title: "Saved"})

	assert.Equal(t, undo, got)
	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, "Saved", list[1].Title)
	assert.Equal(t, KindSuccess, list[1].Kind)
}

func TestReplace_old_timer_does_not_remove_new_toast(t *testing.T) {
	m, clk := newTestManager(Options{})
	id := m.Show(Toast{Title: "short", Duration: time.Second})

	clk.Advance(500 * time.Millisecond)
	m.Replace(id, Toast{Title: "longer", Duration: 5 * time.Second})
	clk.Advance(time.Second)

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, "longer", got.Title)
}

func TestReplace_missing_id_shows_new_toast(t *testing.T) {
	m, _ := newTestManager(Options{})

	id := m.Replace("gone", Toast{Kind: KindError, Title: "Failed"})

	assert.NotEqual(t, "gone", id)
	_, ok := m.Get(id)
	assert.True(t, ok)
}

func TestEvict_keeps_undo_toasts(t *testing.T) {
	m, _ := newTestManager(Options{MaxToasts: 2})
	undo := m.Show(Toast{Kind: KindUndo, Title: "Skipped"})
	for i := range 3 {
		m.Show(Toast{Title: fmt.Sprintf("info-%d", i)})
	}

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, undo, list[0].ID)
	assert.Equal(t, "info-2", list[1].Title)
}

func TestUndo_runs_newest_undo_action(t *testing.T) {
	m, _ := newTestManager(Options{})

	var ran []string
	m.Show(Toast{Kind: KindUndo, Title: "a", Action: &Action{Label: "Undo", Run: func() { ran = append(ran, "a") }}})
	m.Show(Toast{Kind: KindUndo, Title: "b", Action: &Action{Label: "Undo", Run: func() { ran = append(ran, "b") }}})
	m.Show(Toast{Kind: KindInfo, Title: "c"})

	assert.True(t, m.Undo())
	assert.Equal(t, []string{"b"}, ran)
}

func TestUndo_without_undo_toast(t *testing.T) {
	m, _ := newTestManager(Options{})
	m.Show(Toast{Kind: KindInfo, Title: "c"})

	assert.False(t, m.Undo())
}

func TestDismiss_skips_undo_toasts(t *testing.T) {
	m, _ := newTestManager(Options{})
	info := m.Show(Toast{Title: "info"})
	undo := m.Show(Toast{Kind: KindUndo, Title: "undo"})

	m.Dismiss()

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, undo, list[0].ID)
	_, ok := m.Get(info)
	assert.False(t, ok)
}

func TestProgress_tracks_wall_clock(t *testing.T) {
	m, clk := newTestManager(Options{})
	id := m.Show(Toast{Kind: KindUndo, Duration: 30 * time.Second})

	clk.Advance(15 * time.Second)
	got, _ := m.Get(id)

	assert.Equal(t, 15*time.Second, got.Remaining(clk.Now()))
	assert.InDelta(t, 0.5, got.Progress(clk.Now()), 0.0001)
	assert.Equal(t, 0.0, got.Progress(clk.Now().Add(time.Hour)))
}

func TestOnChange_called_on_mutations(t *testing.T) {
	m, clk := newTestManager(Options{})

	calls := 0
	m.OnChange(func() { calls++ })

	id := m.Show(Toast{Title: "a"})
	m.Replace(id, Toast{Title: "b"})
	m.Remove(id)
	m.Remove(id)
	m.Show(Toast{Title: "c"})
	clk.Advance(DefaultDuration)

	assert.Equal(t, 5, calls)
}

func TestPersist_skips_undo_and_logs_errors(t *testing.T) {
	store := &memStore{}
	m, _ := newTestManager(Options{Store: store})

	m.Show(Toast{Kind: KindUndo, Title: "Skipped"})
	m.Show(Toast{Kind: KindError, Title: "Failed", Description: "boom"})

	require.Len(t, store.saved, 1)
	assert.Equal(t, notify.LevelError, store.saved[0].Level)
	assert.Equal(t, "boom", store.saved[0].Message)

	store.err = errors.New("disk full")
	assert.NotPanics(t, func() { m.Show(Toast{Title: "still shown"}) })
	assert.Len(t, m.List(), 3)
}
