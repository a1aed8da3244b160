package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, ttl time.Duration, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(Config{
		BaseURL:  srv.URL,
		BaseID:   "appTEST",
		Token:    "pat-secret",
		CacheTTL: ttl,
	}, zerolog.Nop())
}

func TestList_follows_offsets(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/appTEST/Opportunities", r.URL.Path)
		assert.Equal(t, "Bearer pat-secret", r.Header.Get("Authorization"))
		assert.Equal(t, "{Status} = 'New'", r.URL.Query().Get("filterByFormula"))

		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{"Name":"Acme"}}],"offset":"page2"}`))
		case "page2":
			_, _ = w.Write([]byte(`{"records":[{"id":"rec2","fields":{"Name":"Globex"}}]}`))
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	recs, err := c.List(context.Background(), "Opportunities", ListOptions{Formula: "{Status} = 'New'"})

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "rec1", recs[0].ID)
	assert.Equal(t, "Globex", recs[1].String("Name"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestList_cache_and_invalidate_on_update(t *testing.T) {
	var lists atomic.Int32
	c := newTestClient(t, time.Minute, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			lists.Add(1)
			_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{}}]}`))
		case http.MethodPatch:
			_, _ = w.Write([]byte(`{"id":"rec1","fields":{"Status":"Approved"}}`))
		}
	})
	ctx := context.Background()

	_, err := c.List(ctx, "T", ListOptions{})
	require.NoError(t, err)
	_, err = c.List(ctx, "T", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), lists.Load())

	_, err = c.Update(ctx, "T", "rec1", map[string]any{"Status": "Approved"})
	require.NoError(t, err)

	_, err = c.List(ctx, "T", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), lists.Load())
}

func TestUpdate_sends_patch(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appTEST/Emails/recXYZ", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Fields   map[string]any `json:"fields"`
			Typecast bool           `json:"typecast"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sent", body.Fields["Status"])
		assert.True(t, body.Typecast)

		_, _ = w.Write([]byte(`{"id":"recXYZ","fields":{"Status":"Sent"}}`))
	})

	rec, err := c.Update(context.Background(), "Emails", "recXYZ", map[string]any{"Status": "Sent"})

	require.NoError(t, err)
	assert.Equal(t, "Sent", rec.String("Status"))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType string
		wantMsg  string
		notFound bool
	}{
		{
			name:     "string error",
			status:   http.StatusNotFound,
			body:     `{"error":"NOT_FOUND"}`,
			wantType: "NOT_FOUND",
			notFound: true,
		},
		{
			name:     "object error",
			status:   http.StatusUnprocessableEntity,
			body:     `{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"Field \"Status\" cannot accept \"Nope\""}}`,
			wantType: "INVALID_VALUE_FOR_COLUMN",
			wantMsg:  `Field "Status" cannot accept "Nope"`,
		},
		{
			name:    "plain body",
			status:  http.StatusBadGateway,
			body:    "upstream down",
			wantMsg: "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, 0, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Update(context.Background(), "T", "rec1", map[string]any{"Status": "Nope"})

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestRecord_field_accessors(t *testing.T) {
	rec := Record{Fields: map[string]any{
		"Name":  "Acme",
		"Tags":  []any{"saas", "b2b"},
		"Score": float64(87),
		"Ratio": 0.5,
	}}

	assert.Equal(t, "Acme", rec.String("Name"))
	assert.Equal(t, "saas, b2b", rec.String("Tags"))
	assert.Equal(t, "87", rec.String("Score"))
	assert.Equal(t, "0.5", rec.String("Ratio"))
	assert.Equal(t, 87, rec.Int("Score"))
	assert.Equal(t, "", rec.String("Missing"))
	assert.Equal(t, 0, rec.Int("Name"))
}
