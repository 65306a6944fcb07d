package enums

import "fmt"

// DiscountKind tells how a discount amount is applied.
type DiscountKind string

const (
	DiscountKindPercent DiscountKind = "percent"
	DiscountKindFixed   DiscountKind = "fixed"
)

var validDiscountKinds = []DiscountKind{
	DiscountKindPercent,
	DiscountKindFixed,
}

// String implements fmt.Stringer.
func (d DiscountKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountKind.
func (d DiscountKind) IsValid() bool {
	for _, candidate := range validDiscountKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountKind converts raw input into a DiscountKind.
func ParseDiscountKind(value string) (DiscountKind, error) {
	for _, candidate := range validDiscountKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount kind %q", value)
}
