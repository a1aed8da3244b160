package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/bluelight/internal/core/triage"
)

// ActionBinding maps a key to an action kind of the queue.
type ActionBinding struct {
	Kind    triage.Kind
	Binding key.Binding
}

// KeyMap holds every binding of a queue screen. It implements help.KeyMap.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Undo    key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
	Dismiss key.Binding

	Actions []ActionBinding

	// Active only while the filter input has focus.
	FilterAccept key.Binding
	FilterCancel key.Binding
}

// NewKeyMap builds the bindings for a queue with the given action kinds.
func NewKeyMap(kinds []triage.KindSpec) KeyMap {
	km := KeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Undo:    key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),

		FilterAccept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply filter")),
		FilterCancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
	}

	for _, k := range kinds {
		km.Actions = append(km.Actions, ActionBinding{
			Kind:    k.Kind,
			Binding: key.NewBinding(key.WithKeys(k.Key), key.WithHelp(keyLabel(k.Key), k.Help)),
		})
	}
	return km
}

// Action returns the kind bound to msg, if any.
func (k KeyMap) Action(msg tea.KeyMsg) (triage.Kind, bool) {
	for _, a := range k.Actions {
		if key.Matches(msg, a.Binding) {
			return a.Kind, true
		}
	}
	return "", false
}

func (k KeyMap) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(k.Actions)+3)
	for _, a := range k.Actions {
		out = append(out, a.Binding)
	}
	return append(out, k.Undo, k.Filter, k.Help, k.Quit)
}

func (k KeyMap) FullHelp() [][]key.Binding {
	actions := make([]key.Binding, 0, len(k.Actions)+1)
	for _, a := range k.Actions {
		actions = append(actions, a.Binding)
	}
	actions = append(actions, k.Undo)

	return [][]key.Binding{
		{k.Up, k.Down},
		actions,
		{k.Filter, k.Refresh, k.Dismiss},
		{k.Help, k.Quit},
	}
}

// FilterHelp lists the bindings that work while typing a filter.
func (k KeyMap) FilterHelp() []key.Binding {
	return []key.Binding{k.FilterAccept, k.FilterCancel}
}

func keyLabel(k string) string {
	if k == "enter" {
		return "⏎"
	}
	return strings.ToLower(k)
}
