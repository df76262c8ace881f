// Package resilience provides the execution guards wrapped around
// dashboard API calls: a bulkhead bounding concurrent upstream requests,
// a token-bucket rate limiter matching the dashboard's per-second request
// budget, and retry with backoff for transient upstream failures.
//
// The dispatcher uses the bulkhead so one slow upstream call cannot
// serialize unrelated calls; the dashboard client composes the limiter
// and retry so rate limiting and retries stay transparent to callers.
package resilience
