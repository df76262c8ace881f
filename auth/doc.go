// Package auth guards the HTTP transport when the server runs in SSE
// mode. The stdio transport needs no authentication: it inherits the
// trust of the process that spawned it.
//
// Two methods are supported: a shared API key header for simple
// deployments, and HS256 bearer tokens for deployments that mint
// per-client credentials. The middleware tries each configured method
// and rejects unauthenticated requests before they reach the MCP
// endpoint.
package auth
