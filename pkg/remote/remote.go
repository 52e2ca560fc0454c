// Package remote is the HTTP client for the remote store that owns the
// saved-country set, the per-country view counts and user profiles. All
// endpoints key countries by display name.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Paths of the remote store surface.
const (
	PathListSaved   = "/api/get-all-saved-countries"
	PathSave        = "/api/save-one-country"
	PathUnsave      = "/api/unsave-one-country"
	PathIncrement   = "/api/update-one-country-count"
	PathNewestUser  = "/api/get-newest-user"
	PathAddUser     = "/api/add-one-user"
	maxErrorSnippet = 256
)

// ErrNoBaseURL is returned by New when the base URL is empty.
var ErrNoBaseURL = errors.New("remote: base url required")

// StatusError reports a non-success status from the remote store.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote: %s %s: unexpected status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("remote: %s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// CountryRef is the request body and list element shape for saved-country
// endpoints.
type CountryRef struct {
	CountryName string `json:"country_name"`
}

// User is a profile record as stored remotely.
type User struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CountryName string `json:"country_name"`
	Bio         string `json:"bio"`
}

// Client talks to the remote store. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets a per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a Client rooted at baseURL (for example http://localhost:3000).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: base url %q must be absolute", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListSaved returns the display names in the remote saved-set.
func (c *Client) ListSaved(ctx context.Context) ([]string, error) {
	var refs []CountryRef
	if err := c.do(ctx, http.MethodGet, PathListSaved, nil, &refs); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.CountryName == "" {
			continue
		}
		names = append(names, ref.CountryName)
	}
	return names, nil
}

// Save adds name to the remote saved-set.
func (c *Client) Save(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, PathSave, CountryRef{CountryName: name}, nil)
}

// Unsave removes name from the remote saved-set.
func (c *Client) Unsave(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, PathUnsave, CountryRef{CountryName: name}, nil)
}

type countResponse struct {
	Count *int `json:"count"`
}

// IncrementViewCount records one view of name and returns the authoritative
// count.
func (c *Client) IncrementViewCount(ctx context.Context, name string) (int, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, PathIncrement, CountryRef{CountryName: name}, &raw); err != nil {
		return 0, err
	}
	var resp countResponse
	if err := decodeOneOrFirst(raw, &resp); err != nil {
		return 0, fmt.Errorf("remote: decode count: %w", err)
	}
	if resp.Count == nil {
		return 0, errors.New("remote: count missing from response")
	}
	return *resp.Count, nil
}

// NewestUser returns the most recently stored profile, or nil when the store
// has none. Object and single-element array bodies are both accepted.
func (c *Client) NewestUser(ctx context.Context) (*User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, PathNewestUser, nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		return nil, nil
	}
	var u User
	if err := decodeOneOrFirst(trimmed, &u); err != nil {
		return nil, fmt.Errorf("remote: decode newest user: %w", err)
	}
	if u.Name == "" {
		return nil, nil
	}
	return &u, nil
}

// AddUser stores a new profile. The store answers with a plain-text
// acknowledgement which is read and discarded.
func (c *Client) AddUser(ctx context.Context, u User) error {
	return c.do(ctx, http.MethodPost, PathAddUser, u, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reader)
	if err != nil {
		return fmt.Errorf("remote: build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read %s response: %w", path, err)
	}
	c.log.Debug("remote call", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: snippet(data)}
	}
	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("remote: decode %s response: %w", path, err)
	}
	return nil
}

func decodeOneOrFirst(raw []byte, target any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			return errors.New("empty array")
		}
		raw = list[0]
	}
	return json.Unmarshal(raw, target)
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet] + "…"
	}
	return s
}
