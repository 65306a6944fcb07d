package draft

import "github.com/angelmondragon/packfinderz-configurator/pkg/enums"

// Error map keys for the general fields.
const (
	FieldProductName  = "productName"
	FieldDescription  = "description"
	FieldBrand        = "brand"
	FieldStyle        = "style"
	FieldMaterial     = "material"
	FieldOrigin       = "origin"
	FieldCategory     = "category"
	FieldDefaultImage = "defaultImage"
	FieldColors       = "colors"
)

// SizesKey is the error key for a color without sizes.
func SizesKey(colorID string) string {
	return colorID + "_sizes"
}

// ImagesKey is the error key for a color without images.
func ImagesKey(colorID string) string {
	return colorID + "_images"
}

// SizeKey is the error key for a cell whose size slot is unchosen.
func SizeKey(colorID, sizeID string) string {
	return colorID + "_" + sizeID + "_size"
}

// CellFieldKey is the error key of one editable cell value.
func CellFieldKey(colorID, sizeID, field string) string {
	return colorID + "_" + sizeID + "_" + field
}

var cellFields = []enums.CellField{
	enums.CellFieldStock,
	enums.CellFieldCostPrice,
	enums.CellFieldSellPrice,
	enums.CellFieldDiscountIDs,
}

// dropColorKeys deletes the color-level error keys of colorID. Keys of other
// colors whose ids merely share a prefix stay untouched.
func dropColorKeys(errs map[string]string, colorID string) {
	delete(errs, SizesKey(colorID))
	delete(errs, ImagesKey(colorID))
}

// dropCellKeys deletes every error key owned by one cell.
func dropCellKeys(errs map[string]string, colorID, sizeID string) {
	delete(errs, SizeKey(colorID, sizeID))
	for _, field := range cellFields {
		delete(errs, CellFieldKey(colorID, sizeID, string(field)))
	}
}
