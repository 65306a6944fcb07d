package validation

import (
	"sort"

	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
)

// ErrorMap holds one message per invalid field key.
type ErrorMap map[string]string

// Empty reports whether no rule failed.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// FieldOrder lists every key the draft can produce in focus priority:
// general fields first, then colors in selection order with their sizes,
// images and per cell values in size order.
func FieldOrder(snap draft.Snapshot) []string {
	order := append([]string(nil), generalOrder...)
	for _, colorID := range snap.SelectedColorIDs {
		order = append(order, draft.SizesKey(colorID), draft.ImagesKey(colorID))
		for _, cell := range snap.CellsFor(colorID) {
			order = append(order,
				draft.SizeKey(colorID, cell.SizeID),
				cellKey(cell, enums.CellFieldStock),
				cellKey(cell, enums.CellFieldCostPrice),
				cellKey(cell, enums.CellFieldSellPrice),
				cellKey(cell, enums.CellFieldDiscountIDs),
			)
		}
	}
	return order
}

// FirstField returns the highest priority key present in the map, or "".
func (m ErrorMap) FirstField(snap draft.Snapshot) string {
	if m.Empty() {
		return ""
	}
	for _, key := range FieldOrder(snap) {
		if _, ok := m[key]; ok {
			return key
		}
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys[0]
}

// FirstMessage returns the message of FirstField.
func (m ErrorMap) FirstMessage(snap draft.Snapshot) string {
	return m[m.FirstField(snap)]
}
