package enums

import "fmt"

// ExitChoice is the operator's answer to the unsaved-changes prompt.
type ExitChoice string

const (
	ExitChoiceStay  ExitChoice = "stay"
	ExitChoiceLeave ExitChoice = "leave"
)

var validExitChoices = []ExitChoice{
	ExitChoiceStay,
	ExitChoiceLeave,
}

// String implements fmt.Stringer.
func (e ExitChoice) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExitChoice.
func (e ExitChoice) IsValid() bool {
	for _, candidate := range validExitChoices {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExitChoice converts raw input into a ExitChoice.
func ParseExitChoice(value string) (ExitChoice, error) {
	for _, candidate := range validExitChoices {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid exit choice %q", value)
}
