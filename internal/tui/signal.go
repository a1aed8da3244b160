package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type stateChangedMsg struct{}

// Signal coalesces change notifications from timer goroutines into at most
// one pending message for the program loop.
type Signal struct {
	ch   chan struct{}
	done chan struct{}
}

func NewSignal() *Signal {
	return &Signal{
		ch:   make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Notify records that state changed. It never blocks.
func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until Notify has been called since the last Wait returned.
// After Close it returns a nil message.
func (s *Signal) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.ch:
			return stateChangedMsg{}
		case <-s.done:
			return nil
		}
	}
}

// Close releases any pending Wait.
func (s *Signal) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
