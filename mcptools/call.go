package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/merakiops/dispatch"
)

// NewCallAPITool describes the generic gateway tool. Any operation in
// the registry is reachable through it, subject to read-only policy.
func NewCallAPITool() mcp.Tool {
	return mcp.NewTool("call_meraki_api",
		mcp.WithDescription("Call any Meraki Dashboard API operation by section and method name. "+
			"Use list_all_methods or search_methods to discover operations, and get_method_info "+
			"to inspect an operation's parameters before calling it."),
		mcp.WithString("section",
			mcp.Required(),
			mcp.Description("API section, e.g. organizations, networks, devices, wireless"),
		),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("Operation name within the section, e.g. getOrganizationNetworks"),
		),
		mcp.WithObject("parameters",
			mcp.Description("Operation parameters as a JSON object; path parameters are required"),
		),
	)
}

// CallAPIHandler executes an operation through the dispatcher and
// renders the result. Clamped pagination is disclosed in the response
// envelope so callers know the effective page size differed from the
// requested one.
func CallAPIHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		section, err := req.RequireString("section")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		method, err := req.RequireString("method")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var params map[string]any
		if raw, ok := req.GetArguments()["parameters"]; ok && raw != nil {
			params, ok = raw.(map[string]any)
			if !ok {
				return mcp.NewToolResultError("parameters must be a JSON object"), nil
			}
		}

		result, err := deps.Dispatcher.Call(ctx, section, method, params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return renderResult(result)
	}
}

// renderResult encodes a dispatch result, surfacing the pagination
// disclosure when the effective page size was reduced.
func renderResult(result *dispatch.Result) (*mcp.CallToolResult, error) {
	if result.PaginationLimited {
		return jsonResult(map[string]any{
			"data":              result.Data,
			"paginationLimited": true,
			"paginationNote":    result.PaginationNote,
		})
	}
	return jsonResult(result.Data)
}
