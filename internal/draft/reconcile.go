package draft

import "github.com/shopspring/decimal"

// reconcileLocked makes the cell set exactly selected colors x their sizes.
// Surviving cells keep their values, new pairs start zeroed.
func (s *Store) reconcileLocked() {
	want := make(map[CellKey]struct{}, len(s.cells))
	for _, colorID := range s.colors {
		for _, sizeID := range s.sizes[colorID] {
			key := CellKey{ColorID: colorID, SizeID: sizeID}
			want[key] = struct{}{}
			if _, ok := s.cells[key]; !ok {
				s.cells[key] = &Cell{
					ColorID:   colorID,
					SizeID:    sizeID,
					CostPrice: decimal.Zero,
					SellPrice: decimal.Zero,
				}
			}
		}
	}
	for key := range s.cells {
		if _, ok := want[key]; !ok {
			delete(s.cells, key)
			dropCellKeys(s.errors, key.ColorID, key.SizeID)
		}
	}
}
