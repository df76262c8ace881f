// Package observe provides telemetry for dispatched dashboard API calls:
// OpenTelemetry tracing and metrics plus structured JSON logging, with a
// middleware that wraps the dispatch path in one span, one log line, and
// one set of counters per call.
//
// Credentials never reach the log stream: fields whose keys look like
// secrets are redacted before serialization.
package observe
