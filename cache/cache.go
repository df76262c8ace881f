package cache

import (
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache is the interface for memoizing read-call results.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (nil, false) on miss or expiry.
// - Ownership: stored values are returned as-is; callers must not assume
//   a defensive copy.
type Cache interface {
	// Get retrieves a cached value. Returns (nil, false) on miss, and
	// evicts and misses when the entry's TTL has elapsed.
	Get(key string) (any, bool)

	// Set stores a value, unconditionally overwriting any prior entry.
	Set(key string, value any)

	// Invalidate removes every entry whose key starts with prefix and
	// returns the number removed.
	Invalidate(prefix string) int

	// Clear removes all entries.
	Clear()

	// Stats returns a snapshot of cache state and configuration.
	Stats() Stats
}

// Stats is a snapshot of cache state.
type Stats struct {
	ItemCount  int  `json:"total_items"`
	Enabled    bool `json:"cache_enabled"`
	TTLSeconds int  `json:"ttl_seconds"`
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
