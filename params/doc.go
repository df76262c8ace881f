// Package params normalizes caller-supplied parameter maps before they
// reach the dashboard API: filling in the configured organization ID when
// an operation wants one and the caller left it out, and clamping
// pagination sizes so a single call cannot request an unbounded page.
package params
