package mcptools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/merakiops/cache"
)

func NewCacheStatsTool() mcp.Tool {
	return mcp.NewTool("cache_stats",
		mcp.WithDescription("Report cache statistics and the active read-only policy."),
	)
}

func CacheStatsHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := struct {
			cache.Stats
			ReadOnlyMode bool `json:"read_only_mode"`
		}{
			Stats:        deps.Dispatcher.Cache().Stats(),
			ReadOnlyMode: deps.Dispatcher.ReadOnly(),
		}
		return jsonResult(stats)
	}
}

func NewCacheClearTool() mcp.Tool {
	return mcp.NewTool("cache_clear",
		mcp.WithDescription("Drop every cached API response."),
	)
}

func CacheClearHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.Dispatcher.Cache().Clear()
		return jsonResult(map[string]any{
			"status":  "success",
			"message": "Cache cleared successfully",
		})
	}
}

func NewConfigTool() mcp.Tool {
	return mcp.NewTool("get_mcp_config",
		mcp.WithDescription("Describe the server's tool surface and runtime configuration. "+
			"Secrets are reported as presence booleans only."),
	)
}

func ConfigHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		total := 0
		for _, name := range deps.Dispatcher.Sections() {
			total += len(deps.Describer.Operations(name))
		}
		info := deps.ServerInfo
		return jsonResult(map[string]any{
			"mode":                       "hybrid",
			"description":                "12 pre-registered tools + call_meraki_api for full API access",
			"pre_registered_tools":       ConvenienceToolNames(),
			"generic_caller":             "call_meraki_api - access every registered method",
			"total_available_methods":    total,
			"read_only_mode":             info.ReadOnly,
			"caching_enabled":            info.CachingEnabled,
			"cache_ttl_seconds":          info.CacheTTLSeconds,
			"organization_id_configured": info.OrgIDConfigured,
			"api_key_configured":         info.APIKeyConfigured,
		})
	}
}

func NewCachedDataTool() mcp.Tool {
	return mcp.NewTool("get_cached_data",
		mcp.WithDescription("Page through an oversized result that was written to disk. "+
			"Pass the full_record_path from a truncated response."),
		mcp.WithString("filepath",
			mcp.Required(),
			mcp.Description("Record handle returned as full_record_path in a truncated result"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Item offset to start from, default 0"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Items per page, default 10; clamped to the configured maximum"),
		),
	)
}

// CachedDataHandler retrieves one page of an overflowed record.
func CachedDataHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		handle, err := req.RequireString("filepath")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		offset := req.GetInt("offset", 0)
		// Zero lets Retrieve apply its own page-size default.
		limit := req.GetInt("limit", 0)

		page, err := deps.Dispatcher.Store().Retrieve(handle, offset, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(page)
	}
}

func NewCleanupTool() mcp.Tool {
	return mcp.NewTool("cleanup_cache_files",
		mcp.WithDescription("Delete overflow records older than the given age and report what "+
			"was removed and what remains."),
		mcp.WithNumber("max_age_hours",
			mcp.Description("Retention threshold in hours, default 24"),
		),
	)
}

// CleanupHandler runs a retention sweep over the overflow directory.
func CleanupHandler(deps Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		hours := req.GetFloat("max_age_hours", 24)
		if hours <= 0 {
			return mcp.NewToolResultError("max_age_hours must be positive"), nil
		}

		res, err := deps.Dispatcher.Store().Sweep(time.Duration(hours * float64(time.Hour)))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(res)
	}
}
