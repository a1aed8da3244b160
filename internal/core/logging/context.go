package logging

import "context"

type contextKey string

const (
	queueKey    contextKey = "queue"
	actionIDKey contextKey = "action_id"
)

// WithQueue tags ctx with the triage queue name.
func WithQueue(ctx context.Context, queue string) context.Context {
	return context.WithValue(ctx, queueKey, queue)
}

// WithActionID tags ctx with the id of a pending action.
func WithActionID(ctx context.Context, actionID string) context.Context {
	return context.WithValue(ctx, actionIDKey, actionID)
}

// GetQueue returns the queue name, or "" when ctx has none.
func GetQueue(ctx context.Context) string { return stringValue(ctx, queueKey) }

// GetActionID returns the pending action id, or "" when ctx has none.
func GetActionID(ctx context.Context) string { return stringValue(ctx, actionIDKey) }

func stringValue(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
