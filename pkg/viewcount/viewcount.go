// Package viewcount records per-country views on the remote store and keeps
// the display value for each country.
package viewcount

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// State of a Display.
type State int

const (
	// Unknown means an increment is outstanding.
	Unknown State = iota
	// Known means the store answered with a count.
	Known
	// Failed means the last increment failed.
	Failed
)

func (s State) String() string {
	switch s {
	case Known:
		return "known"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailedText is shown in place of a count when the increment failed.
const FailedText = "could not load view count"

// Display is the renderable view-count value.
type Display struct {
	State State
	Count int
}

func (d Display) String() string {
	switch d.State {
	case Known:
		return strconv.Itoa(d.Count)
	case Failed:
		return FailedText
	default:
		return "…"
	}
}

// ErrUnresolved is returned for identifiers the dataset does not know.
var ErrUnresolved = errors.New("viewcount: country not in dataset")

// Store increments and returns the authoritative view count.
type Store interface {
	IncrementViewCount(ctx context.Context, name string) (int, error)
}

// Resolver reports whether an identifier resolves to a country.
type Resolver interface {
	Has(name string) bool
}

type entry struct {
	seq     uint64
	display Display
}

// Reporter sends one increment per activation. It is safe for concurrent
// use; for a given identifier only the latest activation's result is kept.
type Reporter struct {
	store    Store
	resolver Resolver
	log      *slog.Logger

	mu      sync.Mutex
	seq     uint64
	entries map[string]entry
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) {
		if l != nil {
			r.log = l
		}
	}
}

// New builds a Reporter. resolver may be nil to accept every identifier.
func New(store Store, resolver Resolver, opts ...Option) *Reporter {
	r := &Reporter{
		store:    store,
		resolver: resolver,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		entries:  make(map[string]entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Activate records one view of name. The display for name is Unknown until
// the store answers, then Known or Failed. The returned Display is the
// result of this activation even if a later one has since replaced it.
func (r *Reporter) Activate(ctx context.Context, name string) (Display, error) {
	ticket, err := r.Begin(name)
	if err != nil {
		return Display{State: Failed}, err
	}
	return r.Finish(ctx, name, ticket)
}

// Begin starts an activation of name without contacting the store. The
// display for name is Unknown from this point on, and the returned ticket
// identifies the activation to Finish.
func (r *Reporter) Begin(name string) (uint64, error) {
	if name == "" || (r.resolver != nil && !r.resolver.Has(name)) {
		return 0, fmt.Errorf("%w: %q", ErrUnresolved, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.entries[name] = entry{seq: r.seq, display: Display{State: Unknown}}
	return r.seq, nil
}

// Finish sends the increment for the activation identified by ticket. The
// result is displayed only if no later activation of name has begun and
// name has not been forgotten since.
func (r *Reporter) Finish(ctx context.Context, name string, ticket uint64) (Display, error) {
	var d Display
	count, err := r.store.IncrementViewCount(ctx, name)
	if err != nil {
		r.log.Warn("view count increment failed", "country", name, "err", err)
		d = Display{State: Failed}
	} else {
		d = Display{State: Known, Count: count}
	}

	r.mu.Lock()
	if cur, ok := r.entries[name]; ok && cur.seq == ticket {
		r.entries[name] = entry{seq: ticket, display: d}
	}
	r.mu.Unlock()

	if err != nil {
		return d, fmt.Errorf("viewcount: %q: %w", name, err)
	}
	return d, nil
}

// Display returns the current value for name. Names never activated are
// Unknown.
func (r *Reporter) Display(name string) Display {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[name].display
}

// Forget drops the display for name, as when its detail view is closed.
func (r *Reporter) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}
