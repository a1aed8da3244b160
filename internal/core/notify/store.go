// Package notify defines the persisted form of toasts shown during a session.
package notify

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// severity orders levels from least to most severe.
var severity = []Level{LevelInfo, LevelSuccess, LevelWarning, LevelError}

// ParseLevel maps a case-insensitive name to a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(severity, l) {
		return "", fmt.Errorf("unknown level %q (want one of info, success, warning, error)", s)
	}
	return l, nil
}

// AtLeast reports whether l is as severe as floor. Unknown levels rank lowest.
func (l Level) AtLeast(floor Level) bool {
	return slices.Index(severity, l) >= slices.Index(severity, floor)
}

// Notification is a persisted record of a message shown to the user.
type Notification struct {
	ID        int64     `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Text joins title and message the way they read in a toast.
func (n Notification) Text() string {
	if n.Message == "" {
		return n.Title
	}
	return n.Title + ": " + n.Message
}

// Store persists notifications. List returns the newest first.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context, limit int) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
