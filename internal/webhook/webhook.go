// Package webhook posts JSON payloads to Make.com scenario webhooks.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Event is the envelope every webhook receives.
type Event struct {
	Event    string         `json:"event"`
	RecordID string         `json:"record_id"`
	Data     map[string]any `json:"data,omitempty"`
	SentAt   time.Time      `json:"sent_at"`
}

// Client posts events. A nil Client or an empty URL skips the call.
type Client struct {
	http   *http.Client
	logger zerolog.Logger
}

func New(timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Post sends payload to url. Make.com answers "Accepted" with a 200; any
// other 2xx is treated the same.
func (c *Client) Post(ctx context.Context, url string, payload Event) error {
	if c == nil || url == "" {
		return nil
	}

	if payload.SentAt.IsZero() {
		payload.SentAt = time.Now().UTC()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s webhook: %w", payload.Event, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("post %s webhook: status %d: %s", payload.Event, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.Debug().Ctx(ctx).Str("event", payload.Event).Str("record", payload.RecordID).Msg("webhook delivered")
	return nil
}
