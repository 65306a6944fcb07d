package draft

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-configurator/internal/media"
)

// General holds the product-level fields of a draft.
type General struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BrandID     string `json:"brand_id"`
	CategoryID  string `json:"category_id"`
	StyleID     string `json:"style_id"`
	MaterialID  string `json:"material_id"`
	OriginID    string `json:"origin_id"`
}

// GeneralPatch updates only the fields that are set.
type GeneralPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	BrandID     *string `json:"brand_id"`
	CategoryID  *string `json:"category_id"`
	StyleID     *string `json:"style_id"`
	MaterialID  *string `json:"material_id"`
	OriginID    *string `json:"origin_id"`
}

// CellKey identifies one variant cell.
type CellKey struct {
	ColorID string
	SizeID  string
}

// Cell carries the commerce values of one (color, size) variant.
type Cell struct {
	ColorID     string          `json:"color_id"`
	SizeID      string          `json:"size_id"`
	Stock       int             `json:"stock"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	DiscountIDs []string        `json:"discount_ids"`
}

// Key returns the cell identity.
func (c Cell) Key() CellKey {
	return CellKey{ColorID: c.ColorID, SizeID: c.SizeID}
}

func (c Cell) clone() Cell {
	out := c
	out.DiscountIDs = append([]string(nil), c.DiscountIDs...)
	return out
}

// Image is one gallery entry. Exactly one color owns it.
type Image struct {
	ID        string     `json:"id"`
	File      media.File `json:"-"`
	Digest    string     `json:"digest"`
	IsDefault bool       `json:"is_default"`
}

// Name returns the file name the image was uploaded under.
func (i Image) Name() string {
	return i.File.Name
}

// MarshalJSON exposes the file name and size but never the bytes.
func (i Image) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Size      int64  `json:"size"`
		Digest    string `json:"digest"`
		IsDefault bool   `json:"is_default"`
	}{
		ID:        i.ID,
		Name:      i.File.Name,
		Size:      i.File.Size(),
		Digest:    i.Digest,
		IsDefault: i.IsDefault,
	})
}

// Variant is one submittable cell with its color's gallery attached.
type Variant struct {
	Cell
	Images []Image
}

// EventKind classifies store notifications.
type EventKind string

const (
	EventGeneral   EventKind = "general"
	EventSelection EventKind = "selection"
	EventCell      EventKind = "cell"
	EventGallery   EventKind = "gallery"
	EventErrors    EventKind = "errors"
)

// Event is published to subscribers after a store call completes.
type Event struct {
	Kind    EventKind
	ColorID string
}

// IsMutation reports whether the event changed draft content.
func (e Event) IsMutation() bool {
	return e.Kind != EventErrors
}
