package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("bluelight needs an interactive terminal; use `bluelight ls` for scripted output")

// IsTerminal reports whether stdin and stdout are both attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Run drives m until the user quits or ctx is cancelled. Pending actions
// are always flushed before Run returns, including after a cancellation.
func Run[T Item](ctx context.Context, m Model[T]) error {
	if !IsTerminal() {
		return ErrNotTerminal
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}

	if fm, ok := final.(Model[T]); ok && fm.FlushErr() != nil {
		return fmt.Errorf("saving pending actions: %w", fm.FlushErr())
	}

	// No-op when the quit key already flushed.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()
	if err := m.ctrl.Flush(flushCtx); err != nil {
		return fmt.Errorf("saving pending actions: %w", err)
	}
	return nil
}
