package params

import "fmt"

// OrganizationIDParam is the contextual identifier auto-filled from
// configuration when an operation declares it and the caller omits it.
const OrganizationIDParam = "organizationId"

// PaginationKeys are parameter names whose values are page sizes and are
// therefore subject to clamping.
var PaginationKeys = []string{"perPage", "pageSize", "per_page"}

// ClampResult reports whether a pagination clamp changed the request.
type ClampResult struct {
	// Limited is true if at least one pagination value was reduced.
	Limited bool

	// Message is a human-readable disclosure for the caller. Empty when
	// nothing was clamped.
	Message string
}

// Normalizer applies the context-fill and pagination-clamp passes.
//
// Contract:
// - Concurrency: safe for concurrent use; the normalizer itself is immutable.
// - Ownership: input maps are mutated in place, matching caller expectations
//   of the dispatch path (callers hand over the map).
type Normalizer struct {
	// DefaultOrgID is injected when an operation declares the
	// organizationId parameter and the caller did not supply it.
	// Empty disables the fill pass.
	DefaultOrgID string

	// MaxPageSize is the upper bound for pagination parameters.
	// Zero or negative disables the clamp pass.
	MaxPageSize int
}

// DeclaresParam reports whether an operation declares a named parameter.
// Satisfied by dispatch.Operation.
type DeclaresParam interface {
	HasParameter(name string) bool
}

// FillContext injects the default organization ID if op declares it and the
// caller omitted it. Caller-supplied values are never overridden.
func (n Normalizer) FillContext(op DeclaresParam, p map[string]any) {
	if n.DefaultOrgID == "" || op == nil {
		return
	}
	if !op.HasParameter(OrganizationIDParam) {
		return
	}
	if _, ok := p[OrganizationIDParam]; ok {
		return
	}
	p[OrganizationIDParam] = n.DefaultOrgID
}

// ClampPagination caps known pagination parameters at MaxPageSize and
// reports whether the effective request changed.
//
// Only positive integer values above the maximum are touched; strings,
// floats with fractions, and non-positive values pass through untouched.
func (n Normalizer) ClampPagination(p map[string]any) ClampResult {
	if n.MaxPageSize <= 0 {
		return ClampResult{}
	}

	var res ClampResult
	for _, key := range PaginationKeys {
		v, ok := p[key]
		if !ok {
			continue
		}
		iv, ok := asPositiveInt(v)
		if !ok || iv <= n.MaxPageSize {
			continue
		}
		p[key] = n.MaxPageSize
		res.Limited = true
	}
	if res.Limited {
		res.Message = fmt.Sprintf("pagination limited to %d items per page", n.MaxPageSize)
	}
	return res
}

// asPositiveInt extracts a positive integer from the JSON-ish value types a
// parameter map can carry. JSON decoding yields float64 for all numbers.
func asPositiveInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		if n > 0 {
			return n, true
		}
	case int64:
		if n > 0 {
			return int(n), true
		}
	case float64:
		if n > 0 && n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
