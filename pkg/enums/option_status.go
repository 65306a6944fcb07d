package enums

import "fmt"

// OptionStatus is the lifecycle flag reported for each attribute option.
type OptionStatus string

const (
	OptionStatusActive   OptionStatus = "active"
	OptionStatusInactive OptionStatus = "inactive"
)

var validOptionStatuses = []OptionStatus{
	OptionStatusActive,
	OptionStatusInactive,
}

// String implements fmt.Stringer.
func (o OptionStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OptionStatus.
func (o OptionStatus) IsValid() bool {
	for _, candidate := range validOptionStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOptionStatus converts raw input into a OptionStatus.
func ParseOptionStatus(value string) (OptionStatus, error) {
	for _, candidate := range validOptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid option status %q", value)
}
