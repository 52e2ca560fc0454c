package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tableflip.dev/wherein/pkg/remote"
	"tableflip.dev/wherein/pkg/remote/remotetest"
	"tableflip.dev/wherein/pkg/saved"
	"tableflip.dev/wherein/pkg/store"
	"tableflip.dev/wherein/pkg/viewcount"
)

const countriesJSON = `[
 {"name":{"common":"France"},"population":67391582,"capital":["Paris"],"region":"Europe","cca3":"FRA","borders":["BEL","ESP"]},
 {"name":{"common":"Belgium"},"population":11555997,"capital":["Brussels"],"region":"Europe","cca3":"BEL","borders":["FRA"]},
 {"name":{"common":"Chile"},"population":19116209,"capital":["Santiago"],"region":"Americas","cca3":"CHL","borders":["ARG"]}
]`

func newSession(t *testing.T, datasetStatus int) (*Session, *remotetest.Server) {
	t.Helper()
	ds := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if datasetStatus != http.StatusOK {
			http.Error(w, "down", datasetStatus)
			return
		}
		_, _ = w.Write([]byte(countriesJSON))
	}))
	t.Cleanup(ds.Close)
	rs := remotetest.NewServer()
	t.Cleanup(rs.Close)

	s, err := New(context.Background(), store.StaticConfig(rs.URL, ds.URL, t.TempDir()))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, rs
}

func TestLiveDataset(t *testing.T) {
	s, _ := newSession(t, http.StatusOK)
	if !s.DatasetLive() {
		t.Fatalf("expected live dataset, got %v", s.Dataset().Err)
	}
	if len(s.Countries()) != 3 {
		t.Fatalf("expected 3 countries, got %d", len(s.Countries()))
	}
	if got := s.Regions(); len(got) != 2 || got[0] != "Americas" || got[1] != "Europe" {
		t.Fatalf("unexpected regions %v", got)
	}
}

func TestFallbackDataset(t *testing.T) {
	s, _ := newSession(t, http.StatusInternalServerError)
	if s.DatasetLive() {
		t.Fatalf("expected fallback")
	}
	if s.Dataset().Err == nil {
		t.Fatalf("expected fallback reason")
	}
	if len(s.Countries()) == 0 {
		t.Fatalf("fallback must never be empty")
	}
}

func TestSearchIsMemoized(t *testing.T) {
	s, _ := newSession(t, http.StatusOK)
	first := s.Search("an", "")
	second := s.Search("an", "")
	if len(first) != 1 || first[0].Code != "FRA" || len(second) != 1 {
		t.Fatalf("unexpected search result %+v", first)
	}
	if s.Recomputations() != 1 {
		t.Fatalf("expected one recomputation, got %d", s.Recomputations())
	}
	if got := s.Search("", "Europe"); len(got) != 2 {
		t.Fatalf("expected two european countries, got %d", len(got))
	}
	if s.Recomputations() != 2 {
		t.Fatalf("expected two recomputations, got %d", s.Recomputations())
	}
}

func TestNeighbors(t *testing.T) {
	s, _ := newSession(t, http.StatusOK)
	got, err := s.Neighbors("France")
	if err != nil {
		t.Fatalf("neighbors: %v", err)
	}
	if len(got) != 1 || got[0].Code != "BEL" {
		t.Fatalf("expected [BEL], got %+v", got)
	}
	if _, err := s.Neighbors("Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleAndSaved(t *testing.T) {
	s, rs := newSession(t, http.StatusOK)
	ctx := context.Background()
	if s.SavedState("Chile") != saved.Unknown {
		t.Fatalf("expected unknown before refresh")
	}
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got, err := s.Toggle(ctx, "Chile")
	if err != nil || got != saved.Saved {
		t.Fatalf("expected saved, got %s (%v)", got, err)
	}
	list := s.Saved()
	if len(list) != 1 || list[0].Code != "CHL" {
		t.Fatalf("unexpected saved list %+v", list)
	}
	if names := rs.Saved(); len(names) != 1 || names[0] != "Chile" {
		t.Fatalf("store saw %v", names)
	}
	if _, err := s.Toggle(ctx, "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActivate(t *testing.T) {
	s, rs := newSession(t, http.StatusOK)
	rs.SetCount("Belgium", 9)
	d, err := s.Activate(context.Background(), "Belgium")
	if err != nil || d.State != viewcount.Known || d.Count != 10 {
		t.Fatalf("expected 10, got %+v (%v)", d, err)
	}
	if _, err := s.Activate(context.Background(), "Atlantis"); !errors.Is(err, viewcount.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
	if rs.Calls(remote.PathIncrement) != 1 {
		t.Fatalf("expected one increment call, got %d", rs.Calls(remote.PathIncrement))
	}
}

func TestBeginFinishForgetView(t *testing.T) {
	s, rs := newSession(t, http.StatusOK)
	rs.SetCount("Belgium", 2)
	ctx := context.Background()

	ticket, err := s.BeginView("Belgium")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if s.ViewCount("Belgium").State != viewcount.Unknown || rs.Calls(remote.PathIncrement) != 0 {
		t.Fatalf("begin must reset the display without calling the store")
	}
	if d, err := s.FinishView(ctx, "Belgium", ticket); err != nil || d.Count != 3 {
		t.Fatalf("expected 3, got %+v (%v)", d, err)
	}
	s.ForgetView("Belgium")
	if s.ViewCount("Belgium").State != viewcount.Unknown {
		t.Fatalf("expected unknown after forget")
	}
}

func TestClose(t *testing.T) {
	s, _ := newSession(t, http.StatusOK)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.Countries() != nil || s.Search("", "") != nil {
		t.Fatalf("closed session must not serve data")
	}
	if err := s.Refresh(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(context.Background(), nil); err == nil {
		t.Fatalf("expected error without config")
	}
}
