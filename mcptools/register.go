package mcptools

import (
	"github.com/mark3labs/mcp-go/server"
)

// Register binds the full tool surface to the server: the generic
// gateway, the discovery tools, the administrative tools, and the
// pre-registered convenience tools.
func Register(s *server.MCPServer, deps Deps) {
	s.AddTool(NewCallAPITool(), CallAPIHandler(deps))

	s.AddTool(NewListMethodsTool(), ListMethodsHandler(deps))
	s.AddTool(NewSearchMethodsTool(), SearchMethodsHandler(deps))
	s.AddTool(NewMethodInfoTool(), MethodInfoHandler(deps))

	s.AddTool(NewCacheStatsTool(), CacheStatsHandler(deps))
	s.AddTool(NewCacheClearTool(), CacheClearHandler(deps))
	s.AddTool(NewConfigTool(), ConfigHandler(deps))
	s.AddTool(NewCachedDataTool(), CachedDataHandler(deps))
	s.AddTool(NewCleanupTool(), CleanupHandler(deps))

	for _, spec := range conveniences {
		s.AddTool(newConvenienceTool(spec), convenienceHandler(deps, spec))
	}
}
