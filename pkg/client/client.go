// Package client is a typed HTTP client for the dashboard API.
package client

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
	"sync"
	"time"

	eventmodel "dashboard/internal/event/model"
	"dashboard/internal/feed"
	notemodel "dashboard/internal/note/model"
	"dashboard/pkg/apperror"
)

// APIError is a non-2xx response. Kind is empty when the server did not send
// a JSON error body.
type APIError struct {
	Status  int
	Kind    apperror.Kind
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("dashboard api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("dashboard api: %d %s: %s", e.Status, e.Kind, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the session token. An empty token makes the client anonymous.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *Client) ListNotes(ctx context.Context, filter notemodel.Filter) ([]notemodel.Note, error) {
	path := "/notes"
	if filter != "" && filter != notemodel.FilterAll {
		path += "?filter=" + url.QueryEscape(string(filter))
	}
	var notes []notemodel.Note
	if err := c.do(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id int64) (*notemodel.Note, error) {
	var note notemodel.Note
	if err := c.do(ctx, http.MethodGet, notePath(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) CreateNote(ctx context.Context, req notemodel.CreateNoteRequest) (*notemodel.Note, error) {
	var note notemodel.Note
	if err := c.do(ctx, http.MethodPost, "/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int64, req notemodel.UpdateNoteRequest) (*notemodel.Note, error) {
	var note notemodel.Note
	if err := c.do(ctx, http.MethodPut, notePath(id), req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, notePath(id), nil, nil)
}

func (c *Client) ListEvents(ctx context.Context) ([]eventmodel.Event, error) {
	var events []eventmodel.Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, req eventmodel.EventRequest) (*eventmodel.Event, error) {
	var event eventmodel.Event
	if err := c.do(ctx, http.MethodPost, "/events", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Feed fetches feed items through the server. An empty feedURL selects the
// server's default feed and a zero limit its default count.
func (c *Client) Feed(ctx context.Context, feedURL string, limit int) ([]feed.Item, error) {
	q := url.Values{}
	if feedURL != "" {
		q.Set("url", feedURL)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/rss"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var items []feed.Item
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func notePath(id int64) string {
	return "/notes/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody apperror.Body
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errBody); err == nil && errBody.Error != "" {
			apiErr.Kind = errBody.Error
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
