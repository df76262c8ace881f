package cache

import (
	"strings"
	"sync"
	"time"
)

// Memory is the in-memory cache implementation. One coarse mutex guards
// all state; correctness, not peak throughput, is the bar here.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	policy  Policy
	now     func() time.Time
}

type entry struct {
	value    any
	storedAt time.Time
}

// NewMemory creates a new in-memory cache with the given policy.
func NewMemory(policy Policy) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		policy:  policy,
		now:     time.Now,
	}
}

// Get retrieves a value, evicting it first if its TTL has elapsed.
func (c *Memory) Get(key string) (any, bool) {
	if !c.policy.Enabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.policy.EffectiveTTL() {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value, unconditionally overwriting. Keys that fail
// ValidateKey are dropped rather than stored.
func (c *Memory) Set(key string, value any) {
	if !c.policy.Enabled {
		return
	}
	if ValidateKey(key) != nil {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate removes every entry whose key starts with prefix.
func (c *Memory) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stats returns a snapshot of cache state and configuration.
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		ItemCount:  len(c.entries),
		Enabled:    c.policy.Enabled,
		TTLSeconds: int(c.policy.EffectiveTTL() / time.Second),
	}
}

// Ensure Memory implements Cache
var _ Cache = (*Memory)(nil)
