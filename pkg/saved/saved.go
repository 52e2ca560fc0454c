// Package saved keeps the client's view of the remote saved-country set.
//
// The remote store is the source of truth. The Synchronizer only caches the
// last saved-set the store reported and replaces that cache wholesale on
// every successful refresh; mutations are never applied locally, they are
// sent to the store and followed by a refresh.
package saved

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"tableflip.dev/wherein/pkg/country"
	"tableflip.dev/wherein/pkg/index"
)

// Membership is the client-side state of one identifier.
type Membership int

const (
	// Unknown means the saved-set has not been fetched yet.
	Unknown Membership = iota
	// Unsaved means the last fetched saved-set does not contain the identifier.
	Unsaved
	// Saved means the last fetched saved-set contains the identifier.
	Saved
)

func (m Membership) String() string {
	switch m {
	case Saved:
		return "saved"
	case Unsaved:
		return "unsaved"
	default:
		return "unknown"
	}
}

// Store is the remote surface the Synchronizer needs.
type Store interface {
	ListSaved(ctx context.Context) ([]string, error)
	Save(ctx context.Context, name string) error
	Unsave(ctx context.Context, name string) error
}

var (
	// ErrBusy is returned when a toggle for the same identifier is in flight.
	ErrBusy = errors.New("saved: toggle already in flight")
	// ErrEmptyName is returned for a blank identifier.
	ErrEmptyName = errors.New("saved: country name required")
	// ErrUnknownState is returned when a toggle cannot establish the current
	// membership because the saved-set has never been fetched.
	ErrUnknownState = errors.New("saved: saved countries not loaded")
	// ErrNotConfirmed is returned when a mutation succeeded but the follow-up
	// refresh failed, so the new state could not be confirmed.
	ErrNotConfirmed = errors.New("saved: change not confirmed by store")
)

// Changed is emitted after each refresh that replaced the cache.
type Changed struct {
	Names      []string
	Generation uint64
}

// Synchronizer caches the remote saved-set. It is safe for concurrent use.
type Synchronizer struct {
	store Store
	log   *slog.Logger

	mu         sync.RWMutex
	names      []string
	set        map[string]struct{}
	loaded     bool
	generation uint64
	issued     uint64
	applied    uint64
	inflight   map[string]struct{}

	events chan Changed
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds a Synchronizer with an Unknown cache.
func New(store Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:    store,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		set:      make(map[string]struct{}),
		inflight: make(map[string]struct{}),
		events:   make(chan Changed, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events exposes cache replacement notifications. Sends never block; a slow
// reader misses intermediate events but can always read Names.
func (s *Synchronizer) Events() <-chan Changed {
	return s.events
}

// Refresh fetches the authoritative saved-set and replaces the cache. On
// failure the previous cache is kept and the error is returned. When
// refreshes overlap, a response is applied only if no later-issued refresh
// has already been applied.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	if s.store == nil {
		return errors.New("saved: no store configured")
	}
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	names, err := s.store.ListSaved(ctx)
	if err != nil {
		s.log.Warn("saved countries refresh failed, keeping cached set", "err", err)
		return fmt.Errorf("saved: refresh: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		s.log.Debug("dropping stale saved countries response", "seq", seq, "applied", s.applied)
		return nil
	}
	s.applied = seq
	s.replaceLocked(names)
	return nil
}

func (s *Synchronizer) replaceLocked(names []string) {
	set := make(map[string]struct{}, len(names))
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		if _, dup := set[name]; dup {
			continue
		}
		set[name] = struct{}{}
		ordered = append(ordered, name)
	}
	s.names = ordered
	s.set = set
	s.loaded = true
	s.generation++
	s.emit(Changed{Names: append([]string(nil), ordered...), Generation: s.generation})
}

func (s *Synchronizer) emit(evt Changed) {
	select {
	case s.events <- evt:
	default:
	}
}

// Toggle flips the saved state of name on the store and then refreshes. It
// returns the membership confirmed by that refresh. On any failure the cache
// is left as it was and the returned membership is the unchanged cached
// state. A second Toggle for the same name while one is in flight fails
// with ErrBusy.
func (s *Synchronizer) Toggle(ctx context.Context, name string) (Membership, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unknown, ErrEmptyName
	}
	if s.store == nil {
		return Unknown, errors.New("saved: no store configured")
	}
	if err := s.acquire(name); err != nil {
		return s.State(name), err
	}
	defer s.release(name)

	current := s.State(name)
	if current == Unknown {
		if err := s.Refresh(ctx); err != nil {
			return Unknown, fmt.Errorf("%w: %v", ErrUnknownState, err)
		}
		current = s.State(name)
	}

	var err error
	if current == Saved {
		err = s.store.Unsave(ctx, name)
	} else {
		err = s.store.Save(ctx, name)
	}
	if err != nil {
		s.log.Warn("toggle failed", "country", name, "from", current.String(), "err", err)
		return current, fmt.Errorf("saved: toggle %q: %w", name, err)
	}

	if err := s.Refresh(ctx); err != nil {
		return s.State(name), fmt.Errorf("%w: %q: %v", ErrNotConfirmed, name, err)
	}
	return s.State(name), nil
}

func (s *Synchronizer) acquire(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[name]; busy {
		return fmt.Errorf("%w: %q", ErrBusy, name)
	}
	s.inflight[name] = struct{}{}
	return nil
}

func (s *Synchronizer) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, name)
}

// InFlight reports whether a toggle for name is waiting on the store.
func (s *Synchronizer) InFlight(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, busy := s.inflight[name]
	return busy
}

// State returns the cached membership of name.
func (s *Synchronizer) State(name string) Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return Unknown
	}
	if _, ok := s.set[name]; ok {
		return Saved
	}
	return Unsaved
}

// IsSaved reports whether the cache holds name.
func (s *Synchronizer) IsSaved(name string) bool {
	return s.State(name) == Saved
}

// Loaded reports whether at least one refresh has succeeded.
func (s *Synchronizer) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Generation counts successful cache replacements.
func (s *Synchronizer) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Names returns the cached saved names in store order.
func (s *Synchronizer) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

// Resolve joins the cached names against idx. Names missing from the
// dataset are dropped.
func (s *Synchronizer) Resolve(idx *index.Index) []country.Country {
	return idx.ResolveNames(s.Names())
}
