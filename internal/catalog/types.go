package catalog

import (
	"context"
	"time"

	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	"github.com/shopspring/decimal"
)

// Option is one entry of an attribute lookup list (a color, a size, a brand...).
type Option struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Status enums.OptionStatus `json:"status"`
}

// IsActive reports whether the option can be newly selected.
func (o Option) IsActive() bool {
	return o.Status == enums.OptionStatusActive
}

// Discount is read-only reference data a variant cell may point at.
type Discount struct {
	ID        string             `json:"id"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Kind      enums.DiscountKind `json:"kind"`
	Amount    decimal.Decimal    `json:"amount"`
	ValidFrom time.Time          `json:"valid_from"`
	ValidTo   time.Time          `json:"valid_to"`
}

// ActiveAt reports whether at falls inside the validity window. A zero bound is open.
func (d Discount) ActiveAt(at time.Time) bool {
	if !d.ValidFrom.IsZero() && at.Before(d.ValidFrom) {
		return false
	}
	if !d.ValidTo.IsZero() && at.After(d.ValidTo) {
		return false
	}
	return true
}

// ExpiredAt reports whether the window closed before at.
func (d Discount) ExpiredAt(at time.Time) bool {
	return !d.ValidTo.IsZero() && at.After(d.ValidTo)
}

// Fetcher reads attribute lists and discounts from the catalog backend.
type Fetcher interface {
	FetchOptions(ctx context.Context, kind enums.OptionKind) ([]Option, error)
	FetchDiscounts(ctx context.Context) ([]Discount, error)
}
