package draft

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
)

// SetCellField parses value into the named cell field and clears its error.
// discountIds takes a comma separated list and replaces the whole set.
func (s *Store) SetCellField(colorID, sizeID string, field enums.CellField, value string) error {
	return s.mutate(Event{Kind: EventCell, ColorID: colorID}, func() error {
		cell, ok := s.cells[CellKey{ColorID: colorID, SizeID: sizeID}]
		if !ok {
			return notFound("variant %s/%s not found", colorID, sizeID)
		}
		key := CellFieldKey(colorID, sizeID, field.String())
		value = strings.TrimSpace(value)

		switch field {
		case enums.CellFieldStock:
			stock, err := parseStock(value)
			if err != nil {
				return invalid(key, err.Error())
			}
			cell.Stock = stock
		case enums.CellFieldCostPrice, enums.CellFieldSellPrice:
			price, err := parsePrice(value)
			if err != nil {
				return invalid(key, err.Error())
			}
			if field == enums.CellFieldCostPrice {
				cell.CostPrice = price
			} else {
				cell.SellPrice = price
			}
		case enums.CellFieldDiscountIDs:
			ids := splitIDs(value)
			for _, id := range ids {
				if err := s.checkDiscountLocked(key, id); err != nil {
					return err
				}
			}
			cell.DiscountIDs = ids
		default:
			return invalid(key, fmt.Sprintf("unknown cell field %q", field))
		}
		delete(s.errors, key)
		return nil
	})
}

// AddDiscount links a discount to a cell. Adding a present id is a no-op.
func (s *Store) AddDiscount(colorID, sizeID, discountID string) error {
	return s.mutate(Event{Kind: EventCell, ColorID: colorID}, func() error {
		cell, ok := s.cells[CellKey{ColorID: colorID, SizeID: sizeID}]
		if !ok {
			return notFound("variant %s/%s not found", colorID, sizeID)
		}
		key := CellFieldKey(colorID, sizeID, enums.CellFieldDiscountIDs.String())
		if err := s.checkDiscountLocked(key, discountID); err != nil {
			return err
		}
		if !slices.Contains(cell.DiscountIDs, discountID) {
			cell.DiscountIDs = append(cell.DiscountIDs, discountID)
		}
		delete(s.errors, key)
		return nil
	})
}

// RemoveDiscount unlinks a discount. Removing an absent id is a no-op.
func (s *Store) RemoveDiscount(colorID, sizeID, discountID string) error {
	return s.mutate(Event{Kind: EventCell, ColorID: colorID}, func() error {
		cell, ok := s.cells[CellKey{ColorID: colorID, SizeID: sizeID}]
		if !ok {
			return notFound("variant %s/%s not found", colorID, sizeID)
		}
		cell.DiscountIDs = slices.DeleteFunc(cell.DiscountIDs, func(id string) bool { return id == discountID })
		delete(s.errors, CellFieldKey(colorID, sizeID, enums.CellFieldDiscountIDs.String()))
		return nil
	})
}

// Cell returns a copy of one cell.
func (s *Store) Cell(colorID, sizeID string) (Cell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cell, ok := s.cells[CellKey{ColorID: colorID, SizeID: sizeID}]
	if !ok {
		return Cell{}, false
	}
	return cell.clone(), true
}

func (s *Store) checkDiscountLocked(key, discountID string) error {
	if discountID == "" {
		return invalid(key, "discount id is required")
	}
	if s.palette == nil || s.palette.Discounts == nil {
		return nil
	}
	if _, ok := s.palette.Discount(discountID); !ok {
		return notFound("discount %s not found", discountID)
	}
	return nil
}

func parseStock(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	stock, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("stock must be a whole number")
	}
	if stock < 0 {
		return 0, fmt.Errorf("stock cannot be negative")
	}
	return stock, nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price cannot be negative")
	}
	return price, nil
}

func splitIDs(value string) []string {
	var ids []string
	for _, part := range strings.Split(value, ",") {
		id := strings.TrimSpace(part)
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
