// Package dataset resolves the working country list for a session. It tries
// the live dataset endpoint first and substitutes the bundled fallback
// dataset on any failure, so callers always receive a populated list.
package dataset

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tableflip.dev/wherein/pkg/country"
)

// DefaultURL is the live dataset endpoint restricted to country.Fields.
const DefaultURL = "https://restcountries.com/v3.1/all?fields=" + country.Fields

//go:embed fallback.json
var fallbackData []byte

var (
	fallbackOnce sync.Once
	fallbackList []country.Country
	fallbackErr  error
)

// ErrEmpty is returned when a payload decodes to zero records.
var ErrEmpty = errors.New("dataset: empty country list")

// StatusError reports a non-success response from the dataset endpoint.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dataset: GET %s: unexpected status %d", e.URL, e.Code)
}

// Fallback returns a fresh copy of the bundled dataset.
func Fallback() []country.Country {
	fallbackOnce.Do(func() {
		fallbackList, fallbackErr = Decode(fallbackData)
	})
	if fallbackErr != nil {
		// The bundle is compiled in; a decode failure is a build defect.
		panic(fmt.Sprintf("dataset: bundled fallback is invalid: %v", fallbackErr))
	}
	return country.CloneAll(fallbackList)
}

// Result is the outcome of one resolution.
type Result struct {
	// Countries is never empty.
	Countries []country.Country
	// Live is true when Countries came from the dataset endpoint.
	Live bool
	// Err records why the fallback was used. Nil when Live.
	Err error
	// Resolved is when the resolution finished.
	Resolved time.Time
}

// Source resolves the working dataset. The zero value is not usable; use New.
type Source struct {
	url      string
	client   *http.Client
	log      *slog.Logger
	fallback func() []country.Country

	mu sync.Mutex
}

// Option configures a Source.
type Option func(*Source)

// WithURL overrides the dataset endpoint.
func WithURL(url string) Option {
	return func(s *Source) {
		if url != "" {
			s.url = url
		}
	}
}

// WithClient sets the HTTP client used for the live fetch.
func WithClient(c *http.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger that records fallback substitutions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFallback replaces the bundled dataset. The list must not be empty.
func WithFallback(list []country.Country) Option {
	return func(s *Source) {
		if len(list) == 0 {
			return
		}
		frozen := country.CloneAll(list)
		s.fallback = func() []country.Country { return country.CloneAll(frozen) }
	}
}

// New builds a Source with the given options.
func New(opts ...Option) *Source {
	s := &Source{
		url:      DefaultURL,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		fallback: Fallback,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the configured dataset endpoint.
func (s *Source) URL() string {
	return s.url
}

// Load resolves the dataset once. It never fails: when the live fetch fails
// the failure is logged and the fallback list is returned instead. Load may
// be called again to re-resolve; concurrent calls are serialized.
func (s *Source) Load(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.fetch(ctx)
	if err == nil {
		s.log.Debug("dataset loaded", "url", s.url, "countries", len(list))
		return Result{Countries: list, Live: true, Resolved: time.Now()}
	}
	s.log.Info("dataset unavailable, using bundled fallback", "url", s.url, "err", err)
	return Result{Countries: s.fallback(), Err: err, Resolved: time.Now()}
}

func (s *Source) fetch(ctx context.Context) ([]country.Country, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dataset: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset: GET %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: s.url, Code: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dataset: read body: %w", err)
	}
	return Decode(raw)
}

// Decode parses and validates a dataset payload. A payload is rejected when
// it is not a JSON array of records, is empty, holds an invalid record, or
// repeats a code.
func Decode(raw []byte) ([]country.Country, error) {
	var list []country.Country
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("dataset: decode: %w", err)
	}
	if len(list) == 0 {
		return nil, ErrEmpty
	}
	seen := make(map[string]struct{}, len(list))
	for i, c := range list {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("dataset: record %d: %w", i, err)
		}
		if _, dup := seen[c.Code]; dup {
			return nil, fmt.Errorf("dataset: duplicate code %s", c.Code)
		}
		seen[c.Code] = struct{}{}
	}
	return list, nil
}
