package stores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/data/db"
)

// ActionLogStore records how every triage action ended.
type ActionLogStore struct {
	db *db.DB
}

var _ triage.Recorder = (*ActionLogStore)(nil)

func NewActionLogStore(db *db.DB) *ActionLogStore {
	return &ActionLogStore{db: db}
}

// Record implements triage.Recorder.
func (s *ActionLogStore) Record(ctx context.Context, e triage.LogEntry) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO action_log (queue, action_id, kind, item_id, outcome, error, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Queue, e.ActionID, string(e.Kind), e.ItemID, string(e.Outcome), e.Error, e.At.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return nil
}

// ActionLogFilter narrows List results. Zero fields match everything.
type ActionLogFilter struct {
	Queue   string
	Outcome triage.Outcome
	Since   time.Time
	Limit   int
}

// List returns log entries newest first.
func (s *ActionLogStore) List(ctx context.Context, f ActionLogFilter) ([]triage.LogEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.Queue != "" {
		where = append(where, "queue = ?")
		args = append(args, f.Queue)
	}
	if f.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, string(f.Outcome))
	}
	if !f.Since.IsZero() {
		where = append(where, "at >= ?")
		args = append(args, f.Since.UnixNano())
	}

	query := "SELECT queue, action_id, kind, item_id, outcome, error, at FROM action_log"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY at DESC, id DESC LIMIT ?"

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list action log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []triage.LogEntry{}
	for rows.Next() {
		var (
			e             triage.LogEntry
			kind, outcome string
			at            int64
		)
		if err := rows.Scan(&e.Queue, &e.ActionID, &kind, &e.ItemID, &outcome, &e.Error, &at); err != nil {
			return nil, fmt.Errorf("scan action log: %w", err)
		}
		e.Kind = triage.Kind(kind)
		e.Outcome = triage.Outcome(outcome)
		e.At = time.Unix(0, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Counts tallies outcomes recorded since the given time.
func (s *ActionLogStore) Counts(ctx context.Context, since time.Time) (map[triage.Outcome]int, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT outcome, COUNT(*) FROM action_log WHERE at >= ? GROUP BY outcome",
		since.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("count action log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := map[triage.Outcome]int{}
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan action log count: %w", err)
		}
		out[triage.Outcome(outcome)] = n
	}
	return out, rows.Err()
}
