package enums

import "fmt"

// OptionKind names an attribute lookup list served by the catalog backend.
type OptionKind string

const (
	OptionKindColor    OptionKind = "colors"
	OptionKindSize     OptionKind = "sizes"
	OptionKindBrand    OptionKind = "brands"
	OptionKindCategory OptionKind = "categories"
	OptionKindStyle    OptionKind = "styles"
	OptionKindMaterial OptionKind = "materials"
	OptionKindOrigin   OptionKind = "origins"
)

var validOptionKinds = []OptionKind{
	OptionKindColor,
	OptionKindSize,
	OptionKindBrand,
	OptionKindCategory,
	OptionKindStyle,
	OptionKindMaterial,
	OptionKindOrigin,
}

// String implements fmt.Stringer.
func (o OptionKind) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OptionKind.
func (o OptionKind) IsValid() bool {
	for _, candidate := range validOptionKinds {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOptionKind converts raw input into a OptionKind.
func ParseOptionKind(value string) (OptionKind, error) {
	for _, candidate := range validOptionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid option kind %q", value)
}
