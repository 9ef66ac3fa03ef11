// Package f1api fetches JSON from the race-delta analytics backend at an
// origin chosen by a resolver, and normalizes it.
package f1api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"race-delta/normalize"
)

var (
	// ErrNoBackend means no backend origin could be resolved. Callers should
	// show a static or empty state instead of failing.
	ErrNoBackend   = errors.New("no backend available")
	ErrInvalidJSON = errors.New("invalid JSON response from server")
)

const maxBody = 8 << 20

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	URL     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s: %s", e.URL, e.Message)
}

// BaseResolver yields the backend origin, or ok=false when none is reachable.
type BaseResolver interface {
	Resolve(ctx context.Context) (origin string, ok bool)
}

type Client struct {
	resolver BaseResolver
	http     *http.Client
	lggr     *zap.SugaredLogger
	now      func() time.Time

	driversTTL time.Duration
	group      singleflight.Group
	driversMu  sync.Mutex
	drivers    []normalize.Driver
	driversAt  time.Time
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.lggr = l
		}
	}
}

// WithDriversTTL sets how long the driver list is cached. Zero disables caching.
func WithDriversTTL(d time.Duration) Option {
	return func(c *Client) { c.driversTTL = d }
}

func New(resolver BaseResolver, opts ...Option) *Client {
	c := &Client{
		resolver:   resolver,
		http:       &http.Client{Timeout: 10 * time.Second},
		lggr:       zap.NewNop().Sugar(),
		now:        time.Now,
		driversTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the resolved backend origin.
func (c *Client) Base(ctx context.Context) (string, error) {
	base, ok := c.resolver.Resolve(ctx)
	if !ok {
		return "", ErrNoBackend
	}
	return base, nil
}

// GetJSON fetches path (relative to the resolved origin) and returns the raw
// JSON body once it is known to be valid JSON.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	base, err := c.Base(ctx)
	if err != nil {
		return nil, err
	}

	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	c.lggr.Debugw("fetch ->", "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, URL: u, Message: errorMessage(resp, body)}
		c.lggr.Warnw("Backend returned error", "url", u, "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: %w", u, ErrInvalidJSON)
	}
	return body, nil
}

// errorMessage prefers the backend's own error/message/detail field.
func errorMessage(resp *http.Response, body []byte) string {
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	text := string(bytes.TrimSpace(body))
	if text == "" {
		return status
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return status + ": " + text
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return status
	}
	if msg := normalize.Record(obj).String("error", "message", "detail"); msg != "" {
		return msg
	}
	return text
}

// IsUnavailable reports whether err means the dashboard should fall back to
// its offline state.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrNoBackend)
}
