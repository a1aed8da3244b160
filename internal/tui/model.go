// Package tui implements the interactive triage screens.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/bluelight/internal/core/styles"
	"github.com/hay-kot/bluelight/internal/core/toast"
	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/leads"
)

const (
	// DefaultFlushTimeout bounds how long quitting waits for pending commits.
	DefaultFlushTimeout = 30 * time.Second

	splitMinWidth = 100
)

// Item is what a queue screen can display and filter.
type Item interface {
	triage.Item
	SearchText() string
}

// Loader fetches a fresh copy of the queue.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Options configures a Model.
type Options[T Item] struct {
	Title      string
	Controller *triage.Controller[T]
	Toasts     *toast.Manager
	Renderer   Renderer[T]
	// Load is called on refresh. A nil Load disables refresh.
	Load Loader[T]
	// Scope is applied under every search filter, e.g. a category glob.
	Scope        func(T) bool
	FlushTimeout time.Duration
}

type uiState int

const (
	stateNormal uiState = iota
	stateFiltering
	stateQuitting
)

type reloadedMsg[T any] struct {
	items []T
	err   error
}

type flushedMsg struct {
	err error
}

// Model is the bubbletea model of a single triage queue.
type Model[T Item] struct {
	title    string
	ctrl     *triage.Controller[T]
	toasts   *toast.Manager
	renderer Renderer[T]
	load     Loader[T]
	scope    func(T) bool
	timeout  time.Duration

	keys      KeyMap
	help      help.Model
	filter    textinput.Model
	toastView *ToastView
	signal    *Signal

	state    uiState
	saving   int
	ticking  bool
	width    int
	height   int
	flushErr error
}

// New builds a Model and subscribes it to controller and toast changes.
func New[T Item](opts Options[T]) Model[T] {
	if opts.FlushTimeout <= 0 {
		opts.FlushTimeout = DefaultFlushTimeout
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.Placeholder = "search"

	sig := NewSignal()
	opts.Controller.OnChange(sig.Notify)
	opts.Toasts.OnChange(sig.Notify)

	if opts.Scope != nil {
		opts.Controller.SetFilter(opts.Scope)
	}

	return Model[T]{
		title:     opts.Title,
		ctrl:      opts.Controller,
		toasts:    opts.Toasts,
		renderer:  opts.Renderer,
		load:      opts.Load,
		scope:     opts.Scope,
		timeout:   opts.FlushTimeout,
		keys:      NewKeyMap(opts.Controller.Kinds()),
		help:      help.New(),
		filter:    ti,
		toastView: NewToastView(opts.Toasts),
		signal:    sig,
		width:     80,
		height:    24,
	}
}

// FlushErr returns the error of the shutdown flush, if any.
func (m Model[T]) FlushErr() error {
	return m.flushErr
}

func (m Model[T]) Init() tea.Cmd {
	return m.signal.Wait()
}

func (m Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.filter.Width = max(msg.Width-4, 10)
		return m, nil

	case stateChangedMsg:
		tick := m.ensureTick()
		return m, tea.Batch(m.signal.Wait(), tick)

	case toastTickMsg:
		if m.toasts.HasUndo() {
			return m, scheduleToastTick()
		}
		m.ticking = false
		return m, nil

	case reloadedMsg[T]:
		if msg.err != nil {
			m.toasts.Show(toast.Toast{Kind: toast.KindError, Title: "Refresh failed", Description: msg.err.Error()})
			return m, nil
		}
		m.ctrl.Reload(msg.items)
		m.toasts.Show(toast.Toast{Kind: toast.KindInfo, Title: "Refreshed", Description: fmt.Sprintf("%d items", len(msg.items))})
		return m, nil

	case flushedMsg:
		m.flushErr = msg.err
		m.signal.Close()
		return m, tea.Quit

	case tea.KeyMsg:
		if m.state == stateQuitting {
			return m, nil
		}
		if m.state == stateFiltering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Down):
		m.ctrl.Next()
	case key.Matches(msg, m.keys.Up):
		m.ctrl.Prev()
	case key.Matches(msg, m.keys.Undo):
		m.ctrl.UndoLast()
	case key.Matches(msg, m.keys.Filter):
		m.state = stateFiltering
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.reload()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Dismiss):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
		m.toasts.Dismiss()
	default:
		if kind, ok := m.keys.Action(msg); ok {
			m.ctrl.Apply(kind)
		}
	}
	return m, nil
}

// handleFilterKey routes every key to the text input; only accept and
// cancel leave it. ctrl+c still quits.
func (m Model[T]) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.quit()
	case key.Matches(msg, m.keys.FilterCancel):
		m.state = stateNormal
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case key.Matches(msg, m.keys.FilterAccept):
		m.state = stateNormal
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m Model[T]) applyFilter() {
	m.ctrl.SetFilter(leads.All(m.scope, leads.SearchFilter[T](m.filter.Value())))
}

func (m Model[T]) quit() (tea.Model, tea.Cmd) {
	m.state = stateQuitting
	m.saving = m.ctrl.Snapshot().Pending
	ctrl, timeout := m.ctrl, m.timeout

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := ctrl.Flush(ctx)
		if err != nil {
			log.Error().Err(err).Str("queue", ctrl.Name()).Msg("flush on quit failed")
		}
		return flushedMsg{err: err}
	}
}

func (m Model[T]) reload() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	m.toasts.Show(toast.Toast{Kind: toast.KindInfo, Title: "Refreshing…"})
	return func() tea.Msg {
		items, err := load(context.Background())
		return reloadedMsg[T]{items: items, err: err}
	}
}

func (m *Model[T]) ensureTick() tea.Cmd {
	if m.ticking || !m.toasts.HasUndo() {
		return nil
	}
	m.ticking = true
	return scheduleToastTick()
}

func (m Model[T]) View() string {
	snap := m.ctrl.Snapshot()

	if m.state == stateQuitting {
		if m.saving == 0 {
			return ""
		}
		return styles.MutedStyle.Render(fmt.Sprintf("Saving %d pending actions…", m.saving)) + "\n"
	}

	var sections []string
	sections = append(sections, m.header(snap), styles.DividerStyle.Render(strings.Repeat("─", max(m.width, 1))))

	body := m.body(snap)
	sections = append(sections, body)

	if m.state == stateFiltering || m.filter.Value() != "" {
		sections = append(sections, m.filter.View())
	}
	if tv := m.toastView.View(); tv != "" {
		sections = append(sections, tv)
	}

	if m.state == stateFiltering {
		sections = append(sections, styles.HelpStyle.Render(m.help.ShortHelpView(m.keys.FilterHelp())))
	} else {
		sections = append(sections, styles.HelpStyle.Render(m.help.View(m.keys)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model[T]) header(snap triage.Snapshot[T]) string {
	st := snap.Stats
	parts := []string{
		fmt.Sprintf("%d/%d done", st.Processed, st.Total),
		fmt.Sprintf("%d left", len(snap.Visible)),
	}
	if avg := st.Average(); avg > 0 {
		parts = append(parts, "avg "+avg.Round(time.Second).String())
	}
	if snap.Pending > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", snap.Pending))
	}
	return styles.TitleStyle.Render(m.title) + "  " + styles.StatsStyle.Render(strings.Join(parts, " · "))
}

func (m Model[T]) body(snap triage.Snapshot[T]) string {
	if len(snap.Visible) == 0 {
		msg := "Queue is empty."
		if m.filter.Value() != "" {
			msg = "No items match the filter."
		}
		if m.load != nil {
			msg += " Press r to refresh."
		}
		return styles.MutedStyle.Render(msg)
	}

	listHeight := max(m.height-12, 3)

	if m.width >= splitMinWidth {
		listWidth := m.width * 2 / 5
		detailWidth := m.width - listWidth - 4
		list := m.list(snap, listWidth, listHeight)
		detail := styles.DetailPaneStyle.Width(detailWidth).Render(m.renderer.Detail(snap.Current, detailWidth-4))
		return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(listWidth).Render(list), detail)
	}

	list := m.list(snap, m.width-4, min(listHeight, 8))
	detail := styles.DetailPaneStyle.Width(m.width - 2).Render(m.renderer.Detail(snap.Current, m.width-6))
	return lipgloss.JoinVertical(lipgloss.Left, list, detail)
}

// list renders a window of rows that keeps the current item visible.
func (m Model[T]) list(snap triage.Snapshot[T], width, height int) string {
	start := 0
	if snap.CurrentIndex >= height {
		start = snap.CurrentIndex - height + 1
	}
	end := min(start+height, len(snap.Visible))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := m.renderer.Row(snap.Visible[i], width-2)
		if i == snap.CurrentIndex {
			rows = append(rows, styles.ItemSelectedStyle.Render(row))
		} else {
			rows = append(rows, styles.ItemStyle.Render(row))
		}
	}
	return strings.Join(rows, "\n")
}
