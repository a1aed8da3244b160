package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the queue and pending action id carried by an event's
// context onto the event. Install it on the global logger at startup.
type ContextHook struct{}

func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	for _, key := range []contextKey{queueKey, actionIDKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			e.Str(string(key), v)
		}
	}
}
