package saved

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/wherein/pkg/remote"
	"tableflip.dev/wherein/pkg/session/sessiontest"
)

func TestSavedEmpty(t *testing.T) {
	color.NoColor = true
	s, _ := sessiontest.New(t)
	var buf bytes.Buffer
	if err := (&Saved{Session: s, Out: &buf}).Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if !strings.Contains(buf.String(), "No saved countries yet.") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestSavedListsResolvedCountries(t *testing.T) {
	color.NoColor = true
	s, _ := sessiontest.New(t, "Chile", "Atlantis")
	var buf bytes.Buffer
	if err := (&Saved{Session: s, Out: &buf}).Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Chile") || strings.Contains(out, "Atlantis") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSavedSurfacesStoreFailure(t *testing.T) {
	s, rs := sessiontest.New(t)
	rs.Fail(remote.PathListSaved, 502)
	if err := (&Saved{Session: s, Out: &bytes.Buffer{}}).Do(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
