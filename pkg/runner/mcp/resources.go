package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerRegionsResource(srv, svc)
	registerCountryTemplate(srv, svc)
}

func registerRegionsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"wherein://regions",
		"Regions",
		mcp.WithResourceDescription("Distinct regions of the country dataset."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		regions, err := svc.Regions()
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"regions": regions,
			"count":   len(regions),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerCountryTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"wherein://countries/{name}",
		"Country Details",
		mcp.WithTemplateDescription("Detail of one country. Reading the resource does not record a view."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := templateArg(request.Params.Arguments, "name")
		if name == "" {
			return nil, fmt.Errorf("country name is required")
		}

		dto, err := svc.Country(ctx, name, false)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"country": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

// templateArg reads a URI template variable, which the server may deliver
// as a string or a single-element list.
func templateArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
