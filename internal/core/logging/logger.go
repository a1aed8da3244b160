// Package logging holds component loggers and the context fields that tie
// log lines to a queue and a pending action.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns a child of the global logger tagged with cmp=name.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Queue returns the triage logger for one queue.
func Queue(name string) zerolog.Logger {
	return log.With().Str("cmp", "triage").Str("queue", name).Logger()
}
