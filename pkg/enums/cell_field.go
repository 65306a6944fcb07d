package enums

import "fmt"

// CellField names an editable value of a variant cell.
type CellField string

const (
	CellFieldStock       CellField = "stock"
	CellFieldCostPrice   CellField = "costPrice"
	CellFieldSellPrice   CellField = "sellPrice"
	CellFieldDiscountIDs CellField = "discountIds"
)

var validCellFields = []CellField{
	CellFieldStock,
	CellFieldCostPrice,
	CellFieldSellPrice,
	CellFieldDiscountIDs,
}

// String implements fmt.Stringer.
func (c CellField) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CellField.
func (c CellField) IsValid() bool {
	for _, candidate := range validCellFields {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCellField converts raw input into a CellField.
func ParseCellField(value string) (CellField, error) {
	for _, candidate := range validCellFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cell field %q", value)
}
