package dispatch

import (
	"fmt"
	"strings"
)

// NotFoundError reports an unknown section or operation. It carries the
// valid section list so callers can correct the request without a second
// round trip.
type NotFoundError struct {
	Section  string
	Method   string
	Sections []string
}

func (e *NotFoundError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("dispatch: unknown section %q (valid sections: %s)",
			e.Section, strings.Join(e.Sections, ", "))
	}
	return fmt.Sprintf("dispatch: unknown operation %q in section %q (valid sections: %s)",
		e.Method, e.Section, strings.Join(e.Sections, ", "))
}

// PolicyDeniedError reports a write operation rejected by the read-only
// policy before any network effect.
type PolicyDeniedError struct {
	Section string
	Method  string
}

func (e *PolicyDeniedError) Error() string {
	return fmt.Sprintf("dispatch: operation %q in section %q is a write and read-only mode is active; unset read-only mode to allow mutations",
		e.Method, e.Section)
}

// InvalidParametersError reports an arity or type mismatch surfaced by the
// collaborator.
type InvalidParametersError struct {
	Section string
	Method  string
	Reason  string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("dispatch: invalid parameters for %s.%s: %s (use get_method_info to inspect the operation's signature)",
		e.Section, e.Method, e.Reason)
}

// UpstreamError reports a failure raised by the upstream dashboard API,
// distinct from local validation errors.
type UpstreamError struct {
	Message string
	Status  int
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("dispatch: upstream error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("dispatch: upstream error: %s", e.Message)
}
