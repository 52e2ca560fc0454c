// Package session owns the state of one client run: the resolved dataset,
// its index, the saved-country cache, view counts and the profile service.
// Nothing here is shared between sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"tableflip.dev/wherein/pkg/country"
	"tableflip.dev/wherein/pkg/dataset"
	"tableflip.dev/wherein/pkg/index"
	"tableflip.dev/wherein/pkg/profile"
	"tableflip.dev/wherein/pkg/query"
	"tableflip.dev/wherein/pkg/remote"
	"tableflip.dev/wherein/pkg/saved"
	"tableflip.dev/wherein/pkg/store"
	"tableflip.dev/wherein/pkg/viewcount"
)

var (
	// ErrNotFound is returned for a country name the dataset does not hold.
	ErrNotFound = errors.New("session: country not found")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session: closed")
)

// Session is the per-run context object.
type Session struct {
	cfg store.Config
	log *slog.Logger

	dataset   dataset.Result
	countries []country.Country
	idx       *index.Index
	view      query.View

	remote  *remote.Client
	saved   *saved.Synchronizer
	views   *viewcount.Reporter
	profile *profile.Service
	drafts  *store.Drafts

	mu     sync.RWMutex
	closed bool
}

type options struct {
	log    *slog.Logger
	client *http.Client
	source *dataset.Source
	drafts bool
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithHTTPClient sets the HTTP client for the dataset and the remote store.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithSource replaces the dataset source built from the config.
func WithSource(s *dataset.Source) Option {
	return func(o *options) {
		o.source = s
	}
}

// WithoutDrafts disables on-disk profile drafts.
func WithoutDrafts() Option {
	return func(o *options) {
		o.drafts = false
	}
}

// New resolves the dataset once and wires the components for one session.
// Dataset failures never fail New; the fallback is used instead.
func New(ctx context.Context, cfg store.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("session: config required")
	}
	o := options{drafts: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: cfg.Timeout()}
	}

	client, err := remote.New(cfg.RemoteURL(), remote.WithHTTPClient(o.client), remote.WithLogger(o.log))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	var drafts *store.Drafts
	if o.drafts && cfg.StatePath() != "" {
		drafts, err = store.OpenDrafts(cfg)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}

	src := o.source
	if src == nil {
		src = dataset.New(
			dataset.WithURL(cfg.DatasetURL()),
			dataset.WithClient(o.client),
			dataset.WithLogger(o.log),
		)
	}
	result := src.Load(ctx)
	idx := index.Build(result.Countries)

	s := &Session{
		cfg:       cfg,
		log:       o.log,
		dataset:   result,
		countries: idx.Countries(),
		idx:       idx,
		remote:    client,
		saved:     saved.New(client, saved.WithLogger(o.log)),
		views:     viewcount.New(client, idx, viewcount.WithLogger(o.log)),
		drafts:    drafts,
	}
	popts := []profile.Option{profile.WithLogger(o.log)}
	if drafts != nil {
		popts = append(popts, profile.WithDrafts(drafts))
	}
	s.profile = profile.New(client, popts...)

	o.log.Debug("session ready", "countries", idx.Len(), "live", result.Live, "remote", client.BaseURL())
	return s, nil
}

// Close discards the session state.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.countries = nil
	s.view.Reset()
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Config returns the configuration the session was built from.
func (s *Session) Config() store.Config {
	return s.cfg
}

// Dataset reports how the country set was resolved.
func (s *Session) Dataset() dataset.Result {
	r := s.dataset
	r.Countries = nil
	return r
}

// DatasetLive reports whether the live dataset is in use.
func (s *Session) DatasetLive() bool {
	return s.dataset.Live
}

// Logger returns the diagnostic logger the session was built with.
func (s *Session) Logger() *slog.Logger {
	return s.log
}

// Index returns the session's country index.
func (s *Session) Index() *index.Index {
	return s.idx
}

// Countries returns every country in dataset order.
func (s *Session) Countries() []country.Country {
	if s.isClosed() {
		return nil
	}
	return s.idx.Countries()
}

// Regions returns the distinct regions in order.
func (s *Session) Regions() []string {
	return s.idx.Regions()
}

// Search filters the country set by name substring and region. Repeating a
// query returns the memoized result.
func (s *Session) Search(search, region string) []country.Country {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	return s.view.Filter(s.countries, search, region)
}

// Recomputations exposes how often Search actually filtered.
func (s *Session) Recomputations() int {
	return s.view.Recomputations()
}

// Country looks a country up by display name.
func (s *Session) Country(name string) (country.Country, error) {
	if s.isClosed() {
		return country.Country{}, ErrClosed
	}
	c, ok := s.idx.ByName(name)
	if !ok {
		return country.Country{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c, nil
}

// Neighbors returns the bordering countries of name.
func (s *Session) Neighbors(name string) ([]country.Country, error) {
	c, err := s.Country(name)
	if err != nil {
		return nil, err
	}
	return s.idx.Neighbors(c), nil
}

// Synchronizer exposes the saved-country cache for change events.
func (s *Session) Synchronizer() *saved.Synchronizer {
	return s.saved
}

// Refresh reloads the saved-country set from the store.
func (s *Session) Refresh(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	return s.saved.Refresh(ctx)
}

// Saved resolves the cached saved names against the dataset.
func (s *Session) Saved() []country.Country {
	if s.isClosed() {
		return nil
	}
	return s.saved.Resolve(s.idx)
}

// SavedState returns the cached membership of name.
func (s *Session) SavedState(name string) saved.Membership {
	return s.saved.State(name)
}

// Toggle flips the saved state of name and returns the confirmed state.
func (s *Session) Toggle(ctx context.Context, name string) (saved.Membership, error) {
	if s.isClosed() {
		return saved.Unknown, ErrClosed
	}
	if !s.idx.Has(name) {
		return s.saved.State(name), fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s.saved.Toggle(ctx, name)
}

// Activate records one view of name.
func (s *Session) Activate(ctx context.Context, name string) (viewcount.Display, error) {
	if s.isClosed() {
		return viewcount.Display{State: viewcount.Failed}, ErrClosed
	}
	return s.views.Activate(ctx, name)
}

// BeginView starts an activation of name and resets its display to
// unknown. FinishView sends the increment.
func (s *Session) BeginView(name string) (uint64, error) {
	if s.isClosed() {
		return 0, ErrClosed
	}
	return s.views.Begin(name)
}

// FinishView completes the activation started by BeginView.
func (s *Session) FinishView(ctx context.Context, name string, ticket uint64) (viewcount.Display, error) {
	if s.isClosed() {
		return viewcount.Display{State: viewcount.Failed}, ErrClosed
	}
	return s.views.Finish(ctx, name, ticket)
}

// ForgetView drops the display of name once its detail view is closed.
func (s *Session) ForgetView(name string) {
	s.views.Forget(name)
}

// ViewCount returns the current view-count display of name.
func (s *Session) ViewCount(name string) viewcount.Display {
	return s.views.Display(name)
}

// Profile returns the profile service.
func (s *Session) Profile() *profile.Service {
	return s.profile
}

// Drafts returns the draft store, nil when drafts are disabled.
func (s *Session) Drafts() *store.Drafts {
	return s.drafts
}
