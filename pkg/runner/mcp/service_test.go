package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/wherein/pkg/remote"
	"tableflip.dev/wherein/pkg/session/sessiontest"
)

func TestServiceSearch(t *testing.T) {
	s, _ := sessiontest.New(t, "France")
	svc := NewService(s)

	results, err := svc.SearchCountries(context.Background(), "", "Europe", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "France" || results[0].Saved != "saved" || results[1].Saved != "unsaved" {
		t.Fatalf("unexpected results %+v", results)
	}

	limited, _ := svc.SearchCountries(context.Background(), "", "", 1)
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestServiceCountryCountsViewsOnlyWhenAsked(t *testing.T) {
	s, rs := sessiontest.New(t)
	rs.SetCount("Belgium", 1)
	svc := NewService(s)
	ctx := context.Background()

	quiet, err := svc.Country(ctx, "Belgium", false)
	if err != nil {
		t.Fatalf("country: %v", err)
	}
	if quiet.Views != nil || rs.Calls(remote.PathIncrement) != 0 {
		t.Fatalf("view must not be counted")
	}
	if quiet.BorderText != "France" {
		t.Fatalf("unexpected borders %q", quiet.BorderText)
	}

	counted, err := svc.Country(ctx, "Belgium", true)
	if err != nil {
		t.Fatalf("country: %v", err)
	}
	if counted.Views == nil || *counted.Views != 2 {
		t.Fatalf("expected 2 views, got %+v", counted.Views)
	}
}

func TestServiceToggleAndList(t *testing.T) {
	s, _ := sessiontest.New(t)
	svc := NewService(s)
	ctx := context.Background()

	state, err := svc.ToggleSaved(ctx, "Chile")
	if err != nil || state != "saved" {
		t.Fatalf("expected saved, got %q (%v)", state, err)
	}
	list, err := svc.ListSaved(ctx)
	if err != nil || len(list) != 1 || list[0].Code != "CHL" {
		t.Fatalf("unexpected saved list %+v (%v)", list, err)
	}
	if _, err := svc.ToggleSaved(ctx, "Atlantis"); err == nil {
		t.Fatalf("expected error for unknown country")
	}
}

func TestServiceWithoutDirectory(t *testing.T) {
	var svc *Service
	if _, err := svc.Regions(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestToolsRegistered(t *testing.T) {
	s, _ := sessiontest.New(t)
	srv := Runner{Directory: s}.newServer()
	for _, name := range []string{"search_countries", "get_country", "list_regions", "list_saved", "toggle_saved"} {
		if srv.GetTool(name) == nil {
			t.Fatalf("tool %s not registered", name)
		}
	}
}

func TestSearchToolResult(t *testing.T) {
	s, _ := sessiontest.New(t)
	srv := Runner{Directory: s}.newServer()
	tool := srv.GetTool("search_countries")

	req := mcp.CallToolRequest{}
	req.Params.Name = "search_countries"
	req.Params.Arguments = map[string]any{"search": "chi"}
	res, err := tool.Handler(context.Background(), req)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error %+v", res.Content)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	var payload struct {
		Count   int          `json:"count"`
		Results []CountryDTO `json:"results"`
	}
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Count != 1 || payload.Results[0].Code != "CHL" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestGetCountryToolRequiresName(t *testing.T) {
	s, _ := sessiontest.New(t)
	srv := Runner{Directory: s}.newServer()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}
	res, err := srv.GetTool("get_country").Handler(context.Background(), req)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error for missing name")
	}
}

func TestTemplateArg(t *testing.T) {
	if got := templateArg(map[string]any{"name": []string{"France"}}, "name"); got != "France" {
		t.Fatalf("unexpected %q", got)
	}
	if got := templateArg(map[string]any{"name": "Chile"}, "name"); got != "Chile" {
		t.Fatalf("unexpected %q", got)
	}
	if got := templateArg(nil, "name"); got != "" {
		t.Fatalf("unexpected %q", got)
	}
}
