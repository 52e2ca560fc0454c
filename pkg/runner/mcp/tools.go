package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerSearchCountriesTool(srv, svc)
	registerGetCountryTool(srv, svc)
	registerListRegionsTool(srv, svc)
	registerListSavedTool(srv, svc)
	registerToggleSavedTool(srv, svc)
}

func registerSearchCountriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_countries",
		mcp.WithDescription("Search countries by name substring and optionally filter by region."),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring of the country name. Empty matches all."),
		),
		mcp.WithString("region",
			mcp.Description("Exact region name such as Europe or Americas. Empty matches all."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (0 for all)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		search := request.GetString("search", "")
		region := request.GetString("region", "")
		limit := request.GetInt("limit", 0)

		results, err := svc.SearchCountries(ctx, search, region, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"search":  search,
			"region":  region,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetCountryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_country",
		mcp.WithDescription("Fetch the detail of one country, including border countries. Records one view unless count_view is false."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Common name of the country, for example France."),
		),
		mcp.WithBoolean("count_view",
			mcp.Description("Record a view and return the updated view count (default true)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Country(ctx, name, request.GetBool("count_view", true))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListRegionsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_regions",
		mcp.WithDescription("List the distinct regions of the country dataset."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		regions, err := svc.Regions()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"regions": regions,
			"count":   len(regions),
		})
	})
}

func registerListSavedTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_saved",
		mcp.WithDescription("List the saved countries as confirmed by the remote store."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := svc.ListSaved(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"saved": list,
			"count": len(list),
		})
	})
}

func registerToggleSavedTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_saved",
		mcp.WithDescription("Save a country, or unsave it if it is already saved."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Common name of the country."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		state, err := svc.ToggleSaved(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"name":  name,
			"state": state,
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
