// Package dashboard is the upstream collaborator: an HTTP client for the
// Meraki Dashboard API v1 behind an explicit section/operation registry.
//
// The registry is a curated function table, not runtime introspection.
// Each operation declares its HTTP method, path template, and parameters,
// which is what the dispatcher consults for contextual default filling
// and what the discovery tools list and search.
//
// Calls run through a resilience executor: a token-bucket rate limiter
// that waits rather than fails, and three attempts with exponential
// backoff on transient upstream statuses.
package dashboard
