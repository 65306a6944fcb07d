package draft

import (
	"slices"

	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
)

// Snapshot is a consistent, detached copy of the draft.
type Snapshot struct {
	ID               string              `json:"id"`
	General          General             `json:"general"`
	SelectedColorIDs []string            `json:"selected_color_ids"`
	SizesByColor     map[string][]string `json:"sizes_by_color"`
	Cells            []Cell              `json:"cells"`
	Galleries        map[string][]Image  `json:"galleries"`
	ActiveColorID    string              `json:"active_color_id"`
	Errors           map[string]string   `json:"errors"`
	Palette          *catalog.Palette    `json:"-"`
}

// Snapshot copies the draft under the lock. Cells are ordered by color
// selection then size order.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.id,
		General:          s.general,
		SelectedColorIDs: slices.Clone(s.colors),
		SizesByColor:     make(map[string][]string, len(s.colors)),
		Cells:            make([]Cell, 0, len(s.cells)),
		Galleries:        make(map[string][]Image, len(s.colors)),
		ActiveColorID:    s.activeColor,
		Errors:           copyErrors(s.errors),
		Palette:          s.palette,
	}
	for _, colorID := range s.colors {
		sizes := slices.Clone(s.sizes[colorID])
		if sizes == nil {
			sizes = []string{}
		}
		snap.SizesByColor[colorID] = sizes
		snap.Galleries[colorID] = slices.Clone(s.galleries[colorID])
		for _, sizeID := range sizes {
			if cell, ok := s.cells[CellKey{ColorID: colorID, SizeID: sizeID}]; ok {
				snap.Cells = append(snap.Cells, cell.clone())
			}
		}
	}
	return snap
}

// FlatList returns the submittable variants. Cells with an unchosen size are skipped.
func (snap Snapshot) FlatList() []Variant {
	variants := make([]Variant, 0, len(snap.Cells))
	for _, cell := range snap.Cells {
		if cell.SizeID == "" {
			continue
		}
		variants = append(variants, Variant{
			Cell:   cell.clone(),
			Images: slices.Clone(snap.Galleries[cell.ColorID]),
		})
	}
	return variants
}

// DefaultCover returns the product cover when one is set.
func (snap Snapshot) DefaultCover() (Image, bool) {
	return defaultCover(snap.SelectedColorIDs, snap.Galleries)
}

// CellsFor returns the cells of one color in size order.
func (snap Snapshot) CellsFor(colorID string) []Cell {
	var cells []Cell
	for _, cell := range snap.Cells {
		if cell.ColorID == colorID {
			cells = append(cells, cell)
		}
	}
	return cells
}

// ImageCount returns the gallery length of a color.
func (snap Snapshot) ImageCount(colorID string) int {
	return len(snap.Galleries[colorID])
}
