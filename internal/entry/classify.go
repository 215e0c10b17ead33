package entry

import "regexp"

// Class is the per-record classification of an entryType string.
type Class int

const (
	// ClassInvalid means the entryType is neither a core type nor a
	// well-formed extension namespace.
	ClassInvalid Class = iota
	// ClassCore means the entryType is one of the six reserved kinds.
	ClassCore
	// ClassExtension means the entryType matches the namespace pattern:
	// three or more dot-separated segments, each lowercase alphanumeric
	// plus hyphen, not starting with a digit.
	ClassExtension
)

func (c Class) String() string {
	switch c {
	case ClassCore:
		return "core"
	case ClassExtension:
		return "extension"
	}
	return "invalid"
}

var coreTypes = map[string]bool{
	TypeSessionStart: true,
	TypeSessionEnd:   true,
	TypeMessage:      true,
	TypeToolCall:     true,
	TypeToolResult:   true,
	TypeError:        true,
}

// Core types use at most one separator, so the two-separator minimum keeps
// the extension namespace disjoint from present and future reserved names.
var extensionTypeRe = regexp.MustCompile(`^[a-z][a-z0-9-]*(\.[a-z][a-z0-9-]*){2,}$`)

// Classify reports whether entryType names a core kind, a namespaced
// extension kind, or neither. Pure and position-independent: the same
// string always classifies the same way.
func Classify(entryType string) Class {
	if coreTypes[entryType] {
		return ClassCore
	}
	if extensionTypeRe.MatchString(entryType) {
		return ClassExtension
	}
	return ClassInvalid
}

// IsCore reports whether entryType is one of the six reserved kinds.
func IsCore(entryType string) bool {
	return coreTypes[entryType]
}
