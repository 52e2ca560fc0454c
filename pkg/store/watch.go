package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes a draft change notification.
type EventType int

const (
	// EventDraftChanged means the draft for Key was written or erased.
	EventDraftChanged EventType = iota
	// EventDraftsInvalidated means the watcher could not classify a change;
	// callers should reload every draft they care about.
	EventDraftsInvalidated
)

// Event is emitted by Drafts.Watch.
type Event struct {
	Type EventType
	Key  string
}

// Watch streams draft change events until ctx is cancelled, so a running
// browser notices a draft saved or cleared by another invocation. The
// channel is closed once ctx is done or the watcher fails.
func (s *Drafts) Watch(ctx context.Context, log *slog.Logger) (<-chan Event, error) {
	if log == nil {
		log = slog.Default()
	}
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure drafts dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Debug("draft watcher close", "err", err)
			}
		}()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("draft watcher error", "err", err)
				throttle.Enqueue(Event{Type: EventDraftsInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				key := filepath.Base(evt.Name)
				if checkKey(key) != nil || filepath.Dir(filepath.Clean(evt.Name)) != filepath.Clean(dir) {
					throttle.Enqueue(Event{Type: EventDraftsInvalidated}, send)
					continue
				}
				throttle.Enqueue(Event{Type: EventDraftChanged, Key: key}, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces the create and write notifications of one save
// into a single event per key. After Stop returns no send is running and
// none will start.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[string]struct{}
	delay   time.Duration
	stopped bool
	sending sync.WaitGroup
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[string]struct{})
	}
	t.pending[ev.Type][ev.Key] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	pending := t.pending
	t.pending = make(map[EventType]map[string]struct{})
	t.timer = nil
	t.sending.Add(1)
	t.mu.Unlock()
	defer t.sending.Done()

	if _, ok := pending[EventDraftsInvalidated]; ok {
		send(Event{Type: EventDraftsInvalidated})
	}
	for key := range pending[EventDraftChanged] {
		send(Event{Type: EventDraftChanged, Key: key})
	}
}

// Stop cancels any pending flush and waits for a running one to finish.
func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
	t.sending.Wait()
}
