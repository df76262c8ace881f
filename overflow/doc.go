// Package overflow protects callers from unbounded dashboard API results.
//
// When a result's estimated token count exceeds the configured threshold,
// the full result is persisted to a JSON file under the overflow root and
// the caller receives a truncated preview carrying the file's path as an
// opaque handle. Retrieve serves bounded slices of a persisted record;
// Sweep deletes records past an age threshold.
//
// Records are written once and never mutated, so the directory needs no
// locking: a retrieval racing a sweep simply observes a missing file and
// reports a load failure. Every handle is canonicalized and checked to lie
// inside the root before any file is opened.
package overflow
