// Package health reports whether the server can do useful work: the
// cache is responsive, the overflow directory is writable, and the
// upstream dashboard API is reachable.
//
// Checks run through an Aggregator and are exposed as the usual probe
// endpoints when the server runs in SSE mode: /healthz for liveness,
// /readyz for readiness, and /health for the detailed JSON view.
package health
