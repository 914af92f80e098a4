// Package supabase is the outbound client for the hosted Postgres REST API
// and its object storage. It translates (method, table, filters, select,
// body) tuples into single HTTP round-trips; it never retries and holds no
// state between calls.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	URL        string
	ServiceKey string
	Timeout    time.Duration
}

type Client struct {
	baseURL string
	key     string
	http    *http.Client
	log     *zap.Logger
}

func New(cfg Config, l *zap.Logger) *Client {
	if l == nil {
		l = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.ServiceKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     l,
	}
}

// UpstreamError carries the upstream HTTP status and error body verbatim.
// Status 0 means the round-trip itself failed.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return "upstream: " + e.Body
	}
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Body)
}

// Query narrows a table read. Filters are equality-only and encoded as
// field=eq.value; Select may name columns and relation expansions such as
// cities(name,state).
type Query struct {
	Filters map[string]string
	Select  string
}

func (c *Client) restURL(table string, q Query) string {
	vals := url.Values{}
	for k, v := range q.Filters {
		vals.Set(k, "eq."+v)
	}
	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	vals.Set("select", sel)
	return c.baseURL + "/rest/v1/" + table + "?" + vals.Encode()
}

// Select reads rows matching q into out, which must unmarshal from a JSON
// array. Zero matches decode to an empty slice, never an error.
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	body, err := c.do(ctx, http.MethodGet, c.restURL(table, q), nil, "")
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// Insert creates a row and returns the created representation echoed by the
// store. When the echo is not a parseable JSON array the row was still
// created; callers get a nil RawMessage as the synthetic created marker.
func (c *Client) Insert(ctx context.Context, table string, record any) (json.RawMessage, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/rest/v1/"+table, payload, "")
	if err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Update patches the single row id with the given fields and decodes the
// updated representation into out when out is non-nil.
func (c *Client) Update(ctx context.Context, table string, id int64, patch map[string]any, out any) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	u := c.restURL(table, Query{Filters: map[string]string{"id": strconv.FormatInt(id, 10)}})
	body, err := c.do(ctx, http.MethodPatch, u, payload, "")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return nil
	}
	return json.Unmarshal(rows[0], out)
}

// Delete removes the single row id. 200 and 204 both count as success.
func (c *Client) Delete(ctx context.Context, table string, id int64) error {
	u := c.restURL(table, Query{Filters: map[string]string{"id": strconv.FormatInt(id, 10)}})
	_, err := c.do(ctx, http.MethodDelete, u, nil, "")
	return err
}

// do performs one round-trip. Non-2xx and transport failures both come back
// as *UpstreamError; there is no retry.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, contentType string) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return nil, &UpstreamError{Body: err.Error()}
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	if body != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	// Only the tabular API understands Prefer; storage uploads reuse do()
	// with their own content type.
	if contentType == "application/json" && (method == http.MethodPost || method == http.MethodPatch) {
		req.Header.Set("Prefer", "return=representation")
	}

	start := time.Now()
	c.log.Debug("upstream call", zap.String("method", method), zap.String("url", rawURL))

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("upstream transport error",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, &UpstreamError{Body: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("upstream call failed", fields...)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}
	c.log.Debug("upstream call ok", fields...)
	return respBody, nil
}
