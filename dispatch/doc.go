// Package dispatch orchestrates one dashboard API call end to end:
// operation resolution, read/write classification, the read-only policy
// gate, parameter normalization, cache lookup and store, upstream
// invocation, write-triggered invalidation, and overflow handling for
// oversized results.
//
// The dispatcher owns no network code itself. The upstream client is an
// external Collaborator resolved per call, and concurrent identical reads
// are coalesced so one slow upstream request is made once, not N times.
package dispatch
