package classify

import "strings"

// Kind is the classification of an operation name.
type Kind int

const (
	// KindNeither is an operation matching no known prefix.
	KindNeither Kind = iota
	// KindRead is a safe, cacheable operation.
	KindRead
	// KindWrite is a mutating operation, subject to read-only policy.
	KindWrite
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	default:
		return "neither"
	}
}

// ReadPrefixes are the operation-name prefixes treated as read-only.
var ReadPrefixes = []string{"get", "list"}

// WritePrefixes are the operation-name prefixes treated as mutating.
var WritePrefixes = []string{
	"create", "update", "delete", "remove", "claim", "reboot", "assign",
	"move", "renew", "clone", "combine", "split", "bind", "unbind",
}

// Classify returns the kind of the given operation name.
//
// Matching is case-sensitive. The read vocabulary is consulted first, so
// if the vocabularies are ever extended into overlap, read wins.
func Classify(name string) Kind {
	if IsRead(name) {
		return KindRead
	}
	if IsWrite(name) {
		return KindWrite
	}
	return KindNeither
}

// IsRead reports whether the operation name has a read prefix.
func IsRead(name string) bool {
	return hasAnyPrefix(name, ReadPrefixes)
}

// IsWrite reports whether the operation name has a write prefix.
func IsWrite(name string) bool {
	return hasAnyPrefix(name, WritePrefixes)
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
