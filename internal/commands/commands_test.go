package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/leads"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"36h", 36 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryFilter(t *testing.T) {
	now := time.Date(2026, 5, 8, 12, 0, 0, 0, time.UTC)

	cmd := &HistoryCmd{queue: "review", outcome: "failed", since: "2d", limit: 10}
	f, err := cmd.filter(now)
	require.NoError(t, err)
	assert.Equal(t, "review", f.Queue)
	assert.Equal(t, triage.OutcomeFailed, f.Outcome)
	assert.Equal(t, now.Add(-48*time.Hour), f.Since)
	assert.Equal(t, 10, f.Limit)

	cmd.outcome = "lost"
	_, err = cmd.filter(now)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	got := summarize(map[triage.Outcome]int{triage.OutcomeCommitted: 4, triage.OutcomeUndone: 1})
	assert.Equal(t, "4 committed, 0 failed, 1 undone", got)
}

func TestApplyCategory(t *testing.T) {
	items := []leads.Opportunity{
		{ID: "rec1", Category: "Procurement"},
		{ID: "rec2", Category: "Events"},
		{ID: "rec3", Category: "Procurement Framework"},
	}

	got, err := applyCategory(items, "Procure*")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := applyCategory([]leads.Opportunity{{ID: "rec1"}}, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPrintItems(t *testing.T) {
	items := []leads.Email{{ID: "recE1", Force: "Kent Police", Subject: "Intro"}}
	row := func(e leads.Email) string { return e.Force + "\t" + e.Subject + "\t" + e.ID }

	var table bytes.Buffer
	require.NoError(t, printItems(&table, false, items, "FORCE\tSUBJECT\tID", row))
	assert.Equal(t, "FORCE        SUBJECT  ID\nKent Police  Intro    recE1\n", table.String())

	var lines bytes.Buffer
	require.NoError(t, printItems(&lines, true, items, "", row))
	assert.Contains(t, lines.String(), `"id":"recE1"`)
	assert.Equal(t, 1, bytes.Count(lines.Bytes(), []byte("\n")))
}
