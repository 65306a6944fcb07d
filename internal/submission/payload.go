package submission

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ImagePayload is one encoded gallery image.
type ImagePayload struct {
	Data      string `json:"data"`
	IsDefault bool   `json:"isDefault"`
}

// VariantPayload is one sellable (color, size) record.
type VariantPayload struct {
	ColorID     string          `json:"colorId"`
	SizeID      string          `json:"sizeId"`
	Stock       int             `json:"stock"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	SellPrice   decimal.Decimal `json:"sellPrice"`
	DiscountID  *string         `json:"discountId"`
	DiscountIDs []string        `json:"discountIds,omitempty"`
	Images      []ImagePayload  `json:"images"`
}

// ProductPayload is the body of the single create-product request.
type ProductPayload struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	BrandID      string           `json:"brandId"`
	CategoryID   string           `json:"categoryId"`
	StyleID      string           `json:"styleId"`
	MaterialID   string           `json:"materialId"`
	OriginID     string           `json:"originId"`
	DefaultImage string           `json:"defaultImage"`
	Variants     []VariantPayload `json:"variants"`
}

// Created is the entity returned by the backend.
type Created struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Creator submits an assembled product.
type Creator interface {
	CreateProduct(ctx context.Context, payload ProductPayload) (*Created, error)
}

// RemoteError is a non-success answer from the product backend. Message is
// shown to the operator as is when set.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.Status)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.Status, e.Message)
}

// Notifier surfaces submission feedback to the operator.
type Notifier interface {
	NotifySuccess(ctx context.Context, message string)
	NotifyError(ctx context.Context, message string)
	ScrollTo(ctx context.Context, field string)
}

type nopNotifier struct{}

func (nopNotifier) NotifySuccess(context.Context, string) {}
func (nopNotifier) NotifyError(context.Context, string)   {}
func (nopNotifier) ScrollTo(context.Context, string)      {}
