package cache

import "time"

// Policy configures caching behavior.
type Policy struct {
	// Enabled toggles caching globally. A disabled cache stores nothing
	// and always misses.
	Enabled bool

	// TTL is how long an entry is served before expiring. Non-positive
	// falls back to DefaultTTL.
	TTL time.Duration
}

// DefaultTTL matches the upstream server default of five minutes.
const DefaultTTL = 5 * time.Minute

// DefaultPolicy returns the default caching policy: enabled, 5 minute TTL.
func DefaultPolicy() Policy {
	return Policy{Enabled: true, TTL: DefaultTTL}
}

// EffectiveTTL returns the TTL to use, applying the default when unset.
func (p Policy) EffectiveTTL() time.Duration {
	if p.TTL <= 0 {
		return DefaultTTL
	}
	return p.TTL
}
