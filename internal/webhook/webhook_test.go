package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_sends_event(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("Accepted"))
	}))
	defer srv.Close()

	c := New(time.Second, zerolog.Nop())
	err := c.Post(context.Background(), srv.URL, Event{
		Event:    "opportunity_approved",
		RecordID: "rec1",
		Data:     map[string]any{"force": "Kent Police"},
	})

	require.NoError(t, err)
	assert.Equal(t, "opportunity_approved", got.Event)
	assert.Equal(t, "rec1", got.RecordID)
	assert.Equal(t, "Kent Police", got.Data["force"])
	assert.False(t, got.SentAt.IsZero())
}

func TestPost_non_2xx_is_error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
		_, _ = w.Write([]byte("There is no scenario listening for this webhook."))
	}))
	defer srv.Close()

	err := New(time.Second, zerolog.Nop()).Post(context.Background(), srv.URL, Event{Event: "send_email"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 410")
	assert.Contains(t, err.Error(), "no scenario listening")
}

func TestPost_skips_without_url(t *testing.T) {
	assert.NoError(t, New(0, zerolog.Nop()).Post(context.Background(), "", Event{Event: "send_email"}))

	var c *Client
	assert.NoError(t, c.Post(context.Background(), "http://127.0.0.1:1", Event{}))
}
