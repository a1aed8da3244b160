// Package airtable is a minimal client for the Airtable REST API covering
// the calls the triage queues need: listing records and patching fields.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL  = "https://api.airtable.com/v0"
	defaultPageSize = 100
	maxPages        = 50
)

// ErrNotFound is returned when a table or record does not exist.
var ErrNotFound = errors.New("airtable: not found")

// APIError is a non-2xx response from Airtable.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("airtable: status %d %s", e.Status, e.Type)
	}
	return fmt.Sprintf("airtable: status %d %s: %s", e.Status, e.Type, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Record is a single Airtable row.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// String returns the string value of a field, or "" if absent.
func (r Record) String(field string) string {
	switch v := r.Fields[field].(type) {
	case string:
		return v
	case []any:
		// linked records and multiple selects come back as arrays
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the integer value of a numeric field, or 0.
func (r Record) Int(field string) int {
	if v, ok := r.Fields[field].(float64); ok {
		return int(v)
	}
	return 0
}

// ListOptions filters a List call.
type ListOptions struct {
	View     string
	Formula  string
	Fields   []string
	PageSize int
	// MaxRecords caps the total returned across pages. Zero means no cap.
	MaxRecords int
	Sort       []Sort
}

// Sort orders List results.
type Sort struct {
	Field     string
	Direction string // "asc" or "desc"
}

// Config configures a Client.
type Config struct {
	BaseURL  string
	BaseID   string
	Token    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client talks to a single Airtable base.
type Client struct {
	baseURL string
	baseID  string
	token   string
	http    *http.Client
	cache   *cache.Cache
	logger  zerolog.Logger
}

// New constructs a Client. A zero CacheTTL disables list caching.
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		baseID:  cfg.BaseID,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// List returns every record in table matching opts, following pagination.
// Results are served from the cache when fresh.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	key := cacheKey(table, opts)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.([]Record), nil
		}
	}

	var (
		all    []Record
		offset string
	)
	for page := 0; page < maxPages; page++ {
		q := listQuery(opts)
		if offset != "" {
			q.Set("offset", offset)
		}

		var resp struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+q.Encode(), nil, &resp); err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}

		all = append(all, resp.Records...)
		if opts.MaxRecords > 0 && len(all) >= opts.MaxRecords {
			all = all[:opts.MaxRecords]
			break
		}
		if resp.Offset == "" {
			break
		}
		offset = resp.Offset
	}

	c.logger.Debug().Ctx(ctx).Str("table", table).Int("records", len(all)).Msg("listed records")

	if c.cache != nil {
		c.cache.SetDefault(key, all)
	}
	return all, nil
}

// Update patches the given fields on a record and returns the updated record.
// Any successful update invalidates cached listings.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (Record, error) {
	body := map[string]any{"fields": fields, "typecast": true}

	var rec Record
	if err := c.do(ctx, http.MethodPatch, c.tableURL(table)+"/"+url.PathEscape(id), body, &rec); err != nil {
		return Record{}, fmt.Errorf("update %s/%s: %w", table, id, err)
	}

	c.Invalidate()
	c.logger.Debug().Ctx(ctx).Str("table", table).Str("record", id).Msg("updated record")
	return rec, nil
}

// Invalidate drops all cached listings.
func (c *Client) Invalidate() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError understands both error shapes Airtable returns:
// {"error": "NOT_FOUND"} and {"error": {"type": "...", "message": "..."}}.
func decodeError(status int, data []byte) error {
	apiErr := &APIError{Status: status}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Error) == 0 {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}

	var typ string
	if err := json.Unmarshal(envelope.Error, &typ); err == nil {
		apiErr.Type = typ
		return apiErr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		apiErr.Type = detail.Type
		apiErr.Message = detail.Message
	}
	return apiErr
}

func listQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.View != "" {
		q.Set("view", opts.View)
	}
	if opts.Formula != "" {
		q.Set("filterByFormula", opts.Formula)
	}
	for _, f := range opts.Fields {
		q.Add("fields[]", f)
	}
	size := opts.PageSize
	if size <= 0 || size > defaultPageSize {
		size = defaultPageSize
	}
	q.Set("pageSize", strconv.Itoa(size))
	if opts.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	for i, s := range opts.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		if s.Direction != "" {
			q.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
		}
	}
	return q
}

func cacheKey(table string, opts ListOptions) string {
	return table + "?" + listQuery(opts).Encode()
}
