package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

type draft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func openTestDrafts(t *testing.T) *Drafts {
	t.Helper()
	d, err := OpenDrafts(StaticConfig(DefaultRemoteURL, DefaultDatasetURL, t.TempDir()))
	if err != nil {
		t.Fatalf("open drafts: %v", err)
	}
	return d
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("WHEREIN_CONFIG_PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RemoteURL() != DefaultRemoteURL {
		t.Fatalf("expected %q, got %q", DefaultRemoteURL, cfg.RemoteURL())
	}
	if cfg.DatasetURL() != DefaultDatasetURL {
		t.Fatalf("expected default dataset url, got %q", cfg.DatasetURL())
	}
	if cfg.Timeout() != DefaultTimeout {
		t.Fatalf("expected %s, got %s", DefaultTimeout, cfg.Timeout())
	}
	if filepath.Base(cfg.StatePath()) != ".wherein" || cfg.StatePath()[0] == '~' {
		t.Fatalf("expected expanded state path, got %q", cfg.StatePath())
	}
	if cfg.Source() != "" {
		t.Fatalf("expected no config file, got %q", cfg.Source())
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := "remote:\n  url: http://store.example:8080\nhttp:\n  timeout: 3s\nlog:\n  level: DEBUG\n"
	if err := os.WriteFile(filepath.Join(dir, ".wherein.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WHEREIN_CONFIG_PATH", dir)
	t.Setenv("WHEREIN_DATASET_URL", "http://countries.example/all")
	t.Setenv("WHEREIN_STATE_PATH", filepath.Join(dir, "state"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RemoteURL() != "http://store.example:8080" {
		t.Fatalf("unexpected remote url %q", cfg.RemoteURL())
	}
	if cfg.DatasetURL() != "http://countries.example/all" {
		t.Fatalf("env override ignored, got %q", cfg.DatasetURL())
	}
	if cfg.Timeout() != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.Timeout())
	}
	if cfg.LogLevel() != "debug" {
		t.Fatalf("expected debug, got %q", cfg.LogLevel())
	}
	if cfg.StatePath() != filepath.Join(dir, "state") {
		t.Fatalf("unexpected state path %q", cfg.StatePath())
	}
	if filepath.Base(cfg.Source()) != ".wherein.yaml" {
		t.Fatalf("unexpected source %q", cfg.Source())
	}
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".wherein.yaml"), []byte("remote: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WHEREIN_CONFIG_PATH", dir)
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDraftsRoundTrip(t *testing.T) {
	d := openTestDrafts(t)
	want := draft{Name: "Ada", Email: "ada@example.com"}
	if err := d.Save("profile", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !d.Has("profile") {
		t.Fatalf("expected draft to exist")
	}
	var got draft
	ok, err := d.Load("profile", &got)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if keys := d.Keys(context.Background()); !reflect.DeepEqual(keys, []string{"profile"}) {
		t.Fatalf("expected [profile], got %v", keys)
	}
	if _, err := os.Stat(filepath.Join(d.Dir(), "profile")); err != nil {
		t.Fatalf("expected draft file on disk: %v", err)
	}
}

func TestDraftsSurviveReopen(t *testing.T) {
	base := t.TempDir()
	cfg := StaticConfig(DefaultRemoteURL, DefaultDatasetURL, base)
	first, _ := OpenDrafts(cfg)
	if err := first.Save("profile", draft{Name: "Bo"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	second, _ := OpenDrafts(cfg)
	var got draft
	if ok, err := second.Load("profile", &got); err != nil || !ok || got.Name != "Bo" {
		t.Fatalf("expected persisted draft, got %+v ok=%v err=%v", got, ok, err)
	}
}

func TestDraftsEraseAndMissing(t *testing.T) {
	d := openTestDrafts(t)
	if err := d.Erase("profile"); err != nil {
		t.Fatalf("erase of missing draft: %v", err)
	}
	var got draft
	if ok, err := d.Load("profile", &got); ok || err != nil {
		t.Fatalf("expected no draft, got ok=%v err=%v", ok, err)
	}
	_ = d.Save("profile", draft{Name: "Cy"})
	if err := d.Erase("profile"); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if d.Has("profile") {
		t.Fatalf("expected draft erased")
	}
}

func TestDraftsRejectBadKeys(t *testing.T) {
	d := openTestDrafts(t)
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := d.Save(key, draft{}); !errors.Is(err, ErrBadKey) {
			t.Fatalf("key %q: expected ErrBadKey, got %v", key, err)
		}
	}
}

func TestDraftsWatchEmitsChanges(t *testing.T) {
	d := openTestDrafts(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := d.Watch(ctx, nil)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	if err := d.Save("profile", draft{Name: "Di"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventDraftsInvalidated {
				return
			}
			if evt.Key != "profile" {
				t.Fatalf("expected key 'profile', got %q", evt.Key)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for draft change event")
		}
	}
}

func TestThrottleStopWaitsForRunningFlush(t *testing.T) {
	th := newEventThrottle(time.Millisecond)
	started := make(chan struct{})
	gate := make(chan struct{})
	var sends int32
	send := func(Event) {
		if atomic.AddInt32(&sends, 1) == 1 {
			close(started)
		}
		<-gate
	}
	th.Enqueue(Event{Type: EventDraftChanged, Key: "profile"}, send)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("flush never ran")
	}

	stopped := make(chan struct{})
	go func() {
		th.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatalf("Stop returned while a send was running")
	case <-time.After(20 * time.Millisecond):
	}
	close(gate)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop never returned")
	}

	th.Enqueue(Event{Type: EventDraftChanged, Key: "profile"}, send)
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&sends); got != 1 {
		t.Fatalf("expected no sends after Stop, got %d", got)
	}
}
