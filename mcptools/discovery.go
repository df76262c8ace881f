package mcptools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func NewListMethodsTool() mcp.Tool {
	return mcp.NewTool("list_all_methods",
		mcp.WithDescription("List every available Meraki API operation, grouped by section. "+
			"Pass a section name to restrict the listing."),
		mcp.WithString("section",
			mcp.Description("Optional section filter, e.g. organizations, networks, wireless"),
		),
	)
}

// ListMethodsHandler enumerates operations per section. The response
// carries a usage hint pointing callers at call_meraki_api.
func ListMethodsHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := req.GetString("section", "")

		sections := deps.Dispatcher.Sections()
		if filter != "" {
			sections = []string{filter}
		}

		bySection := map[string][]string{}
		total := 0
		for _, name := range sections {
			ops := deps.Describer.Operations(name)
			if len(ops) == 0 {
				continue
			}
			methods := make([]string, 0, len(ops))
			for _, op := range ops {
				methods = append(methods, op.Name)
			}
			sort.Strings(methods)
			bySection[name] = methods
			total += len(methods)
		}

		return jsonResult(map[string]any{
			"sections":      bySection,
			"total_methods": total,
			"usage":         "Use call_meraki_api(section='...', method='...', parameters={...}) to call any method",
		})
	}
}

func NewSearchMethodsTool() mcp.Tool {
	return mcp.NewTool("search_methods",
		mcp.WithDescription("Search Meraki API operations by keyword across all sections."),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Search term, e.g. 'admin', 'firewall', 'ssid', 'event'"),
		),
	)
}

// SearchMethodsHandler does a case-insensitive substring match over
// operation names; sections with no matches are omitted.
func SearchMethodsHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keyword, err := req.RequireString("keyword")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		needle := strings.ToLower(keyword)

		results := map[string][]string{}
		total := 0
		for _, name := range deps.Dispatcher.Sections() {
			var matches []string
			for _, op := range deps.Describer.Operations(name) {
				if strings.Contains(strings.ToLower(op.Name), needle) {
					matches = append(matches, op.Name)
				}
			}
			if len(matches) > 0 {
				sort.Strings(matches)
				results[name] = matches
				total += len(matches)
			}
		}

		return jsonResult(map[string]any{
			"keyword":       keyword,
			"results":       results,
			"total_matches": total,
			"usage":         "Use call_meraki_api(section='...', method='...', parameters={...})",
		})
	}
}

func NewMethodInfoTool() mcp.Tool {
	return mcp.NewTool("get_method_info",
		mcp.WithDescription("Describe a Meraki API operation: its parameters, which are required, "+
			"and a ready-to-adapt usage example."),
		mcp.WithString("section",
			mcp.Required(),
			mcp.Description("API section, e.g. organizations, networks"),
		),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("Operation name, e.g. getOrganizationAdmins"),
		),
	)
}

// MethodInfoHandler resolves an operation description. Unknown
// sections return the valid section list so the caller can recover
// without a second discovery round trip.
func MethodInfoHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		section, err := req.RequireString("section")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		method, err := req.RequireString("method")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		known := false
		for _, name := range deps.Dispatcher.Sections() {
			if name == section {
				known = true
				break
			}
		}
		if !known {
			return jsonResult(map[string]any{
				"error":              fmt.Sprintf("section %q not found", section),
				"available_sections": deps.Dispatcher.Sections(),
			})
		}

		info, ok := deps.Describer.Describe(section, method)
		if !ok {
			return jsonResult(map[string]any{
				"error": fmt.Sprintf("method %q not found in %q", method, section),
			})
		}

		params := map[string]any{}
		for _, p := range info.Parameters {
			params[p.Name] = map[string]any{
				"type":     p.Type,
				"required": p.Required,
			}
		}

		return jsonResult(map[string]any{
			"section":       info.Section,
			"method":        info.Name,
			"kind":          info.Kind,
			"description":   info.Description,
			"parameters":    params,
			"usage_example": fmt.Sprintf("call_meraki_api(section=%q, method=%q, parameters={...})", section, method),
		})
	}
}
