// Package cache provides the in-memory TTL cache for dashboard API read
// results, with deterministic key derivation and prefix invalidation.
//
// Keys are namespaced as "<section>::<hash>" so a successful write to a
// section can drop every cached read for that section in one call. Entries
// expire lazily: an expired entry is evicted on the Get that observes it.
package cache
