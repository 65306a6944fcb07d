package enums

import "fmt"

// ExitKind distinguishes in-app navigation from a page unload.
type ExitKind string

const (
	ExitKindNavigate ExitKind = "navigate"
	ExitKindUnload   ExitKind = "unload"
)

var validExitKinds = []ExitKind{
	ExitKindNavigate,
	ExitKindUnload,
}

// String implements fmt.Stringer.
func (e ExitKind) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExitKind.
func (e ExitKind) IsValid() bool {
	for _, candidate := range validExitKinds {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExitKind converts raw input into a ExitKind.
func ParseExitKind(value string) (ExitKind, error) {
	for _, candidate := range validExitKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid exit kind %q", value)
}
