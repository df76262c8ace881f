// Package classify decides whether a dashboard API operation is a read,
// a write, or neither, by prefix convention on the operation name.
//
// Classification drives two downstream decisions: only reads are cached,
// and only writes are blocked under read-only policy. Names outside both
// vocabularies are deliberately left unrestricted and uncached.
package classify
