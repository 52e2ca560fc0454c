package browse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tableflip.dev/wherein/pkg/session/sessiontest"
)

func TestRefusesNonTerminal(t *testing.T) {
	sess, _ := sessiontest.New(t)
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	b := Browse{Session: sess, In: f, Out: f}
	if err := b.Do(context.Background()); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
}

func TestInteractiveNil(t *testing.T) {
	if Interactive(nil, nil) {
		t.Fatalf("nil files are not terminals")
	}
}

func TestRequiresSession(t *testing.T) {
	if err := (&Browse{}).Do(context.Background()); err == nil {
		t.Fatalf("expected error without session")
	}
}
