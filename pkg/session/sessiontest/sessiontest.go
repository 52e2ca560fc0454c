// Package sessiontest builds sessions against in-memory stand-ins of the
// dataset endpoint and the remote store.
package sessiontest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tableflip.dev/wherein/pkg/remote/remotetest"
	"tableflip.dev/wherein/pkg/session"
	"tableflip.dev/wherein/pkg/store"
)

// Countries is the dataset served by New.
const Countries = `[
 {"name":{"common":"France","official":"French Republic"},"population":67391582,"capital":["Paris"],"region":"Europe","cca3":"FRA","borders":["BEL","ESP"]},
 {"name":{"common":"Belgium"},"population":11555997,"capital":["Brussels"],"region":"Europe","cca3":"BEL","borders":["FRA"]},
 {"name":{"common":"Chile"},"population":19116209,"capital":["Santiago"],"region":"Americas","cca3":"CHL","borders":["ARG"]},
 {"name":{"common":"Antarctica"},"population":1000,"region":"Antarctic","cca3":"ATA"}
]`

// New returns a session over a live dataset of four countries and a fake
// store seeded with saved. Both servers close with the test.
func New(t *testing.T, saved ...string) (*session.Session, *remotetest.Server) {
	t.Helper()
	ds := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(Countries))
	}))
	t.Cleanup(ds.Close)
	rs := remotetest.NewServer(saved...)
	t.Cleanup(rs.Close)

	s, err := session.New(context.Background(), store.StaticConfig(rs.URL, ds.URL, t.TempDir()))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, rs
}
