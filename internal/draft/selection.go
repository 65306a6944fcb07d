package draft

import (
	"slices"
)

// ToggleColor adds colorID to the selection or removes it with everything it owns.
// It reports whether the color is selected afterwards.
func (s *Store) ToggleColor(colorID string) (bool, error) {
	var selected bool
	err := s.mutate(Event{Kind: EventSelection, ColorID: colorID}, func() error {
		if colorID == "" {
			return invalid(FieldColors, "color is required")
		}
		if idx := slices.Index(s.colors, colorID); idx >= 0 {
			s.removeColorLocked(idx)
			selected = false
			return nil
		}
		if s.palette != nil {
			opt, ok := s.palette.Color(colorID)
			if !ok {
				return notFound("color %s not found", colorID)
			}
			if !opt.IsActive() {
				return invalid(FieldColors, "color "+opt.Name+" is inactive")
			}
		}
		s.colors = append(s.colors, colorID)
		if s.activeColor == "" {
			s.activeColor = colorID
		}
		delete(s.errors, FieldColors)
		selected = true
		return nil
	})
	return selected, err
}

func (s *Store) removeColorLocked(idx int) {
	colorID := s.colors[idx]
	s.colors = slices.Delete(s.colors, idx, idx+1)
	for _, sizeID := range s.sizes[colorID] {
		dropCellKeys(s.errors, colorID, sizeID)
	}
	delete(s.sizes, colorID)
	delete(s.galleries, colorID)
	for key := range s.cells {
		if key.ColorID == colorID {
			delete(s.cells, key)
			dropCellKeys(s.errors, key.ColorID, key.SizeID)
		}
	}
	dropColorKeys(s.errors, colorID)

	if s.activeColor != colorID {
		return
	}
	switch {
	case len(s.colors) == 0:
		s.activeColor = ""
	case idx < len(s.colors):
		s.activeColor = s.colors[idx]
	default:
		s.activeColor = s.colors[len(s.colors)-1]
	}
}

// SetActiveColor moves the tab focus to a selected color.
func (s *Store) SetActiveColor(colorID string) error {
	return s.mutate(Event{Kind: EventSelection, ColorID: colorID}, func() error {
		if !slices.Contains(s.colors, colorID) {
			return notFound("color %s is not selected", colorID)
		}
		s.activeColor = colorID
		return nil
	})
}

// ToggleSize adds or removes sizeID for a selected color. The empty id is an
// unchosen slot. Cells follow through reconciliation only.
func (s *Store) ToggleSize(colorID, sizeID string) (bool, error) {
	var selected bool
	err := s.mutate(Event{Kind: EventSelection, ColorID: colorID}, func() error {
		if !slices.Contains(s.colors, colorID) {
			return notFound("color %s is not selected", colorID)
		}
		current := s.sizes[colorID]
		if idx := slices.Index(current, sizeID); idx >= 0 {
			s.sizes[colorID] = slices.Delete(current, idx, idx+1)
			selected = false
			return nil
		}
		if sizeID != "" && s.palette != nil {
			opt, ok := s.palette.Size(sizeID)
			if !ok {
				return notFound("size %s not found", sizeID)
			}
			if !opt.IsActive() {
				return invalid(SizesKey(colorID), "size "+opt.Name+" is inactive")
			}
		}
		s.sizes[colorID] = append(current, sizeID)
		delete(s.errors, SizesKey(colorID))
		selected = true
		return nil
	})
	return selected, err
}

// SelectedColors returns the selection in order.
func (s *Store) SelectedColors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.colors)
}

// Sizes returns the size slots of a color in order.
func (s *Store) Sizes(colorID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sizes[colorID])
}
