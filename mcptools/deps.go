package mcptools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/merakiops/dispatch"
)

// Deps carries everything the tool handlers need. Handlers are
// closures over a Deps value so tests can swap in fakes.
type Deps struct {
	Dispatcher *dispatch.Dispatcher
	Describer  dispatch.Describer

	// ServerInfo feeds get_mcp_config. It is a snapshot taken at
	// startup; none of the fields change while the server runs.
	ServerInfo ServerInfo
}

// ServerInfo is the operator-facing configuration summary returned by
// get_mcp_config. Secrets are reduced to presence booleans.
type ServerInfo struct {
	ReadOnly         bool
	CachingEnabled   bool
	CacheTTLSeconds  int
	OrgIDConfigured  bool
	APIKeyConfigured bool
}

// jsonResult marshals v and wraps it as a text tool result. Tool
// output is always JSON so MCP clients can parse it uniformly.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}
