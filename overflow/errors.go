package overflow

import "errors"

// Sentinel errors for overflow operations.
var (
	// ErrInvalidHandle is returned for a handle that is malformed or
	// resolves outside the overflow root. The file is never opened.
	ErrInvalidHandle = errors.New("overflow: invalid filepath")

	// ErrLoadFailure is returned when a record is missing or corrupt at
	// retrieval time. Non-fatal: sweeps race retrievals by design.
	ErrLoadFailure = errors.New("overflow: failed to load record")

	// ErrDisabled is returned when an operation requires the store and
	// the overflow feature is switched off.
	ErrDisabled = errors.New("overflow: store is disabled")
)
