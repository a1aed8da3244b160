package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })
	return &buf
}

func TestComponent(t *testing.T) {
	buf := captureGlobal(t)

	Component("airtable").Info().Msg("listed records")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "airtable", entry["cmp"])
	assert.Equal(t, "listed records", entry["message"])
}

func TestQueue(t *testing.T) {
	buf := captureGlobal(t)

	Queue("emails").Warn().Msg("commit failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "triage", entry["cmp"])
	assert.Equal(t, "emails", entry["queue"])
}
