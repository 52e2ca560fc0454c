package info

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"tableflip.dev/wherein/pkg/session/sessiontest"
)

func TestInfoJSON(t *testing.T) {
	s, _ := sessiontest.New(t)
	var buf bytes.Buffer
	if err := (&Info{Session: s, JSON: true, Out: &buf}).Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DatasetOrigin != "live" || got.Countries != 4 || got.Regions != 3 {
		t.Fatalf("unexpected report %+v", got)
	}
}
