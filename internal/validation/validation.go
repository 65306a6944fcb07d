package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// generalFields mirrors the draft's product-level inputs under their error keys.
type generalFields struct {
	ProductName string `json:"productName" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=10000"`
	Brand       string `json:"brand" validate:"required"`
	Style       string `json:"style" validate:"required"`
	Material    string `json:"material" validate:"required"`
	Origin      string `json:"origin" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

var fieldLabels = map[string]string{
	draft.FieldProductName: "Product name",
	draft.FieldDescription: "Description",
	draft.FieldBrand:       "Brand",
	draft.FieldStyle:       "Style",
	draft.FieldMaterial:    "Material",
	draft.FieldOrigin:      "Origin",
	draft.FieldCategory:    "Category",
}

// generalOrder is the fixed focus priority ahead of any matrix field.
var generalOrder = []string{
	draft.FieldProductName,
	draft.FieldDescription,
	draft.FieldBrand,
	draft.FieldStyle,
	draft.FieldMaterial,
	draft.FieldOrigin,
	draft.FieldCategory,
	draft.FieldDefaultImage,
	draft.FieldColors,
}

// Engine runs the submit rules over a draft snapshot. It holds no draft state.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine; now defaults to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Validate evaluates every rule and returns all failures keyed by field.
// An empty map means the draft can be submitted.
func (e *Engine) Validate(snap draft.Snapshot) ErrorMap {
	errs := ErrorMap{}
	e.validateGeneral(snap, errs)
	e.validateMatrix(snap, errs)
	return errs
}

func (e *Engine) validateGeneral(snap draft.Snapshot, errs ErrorMap) {
	fields := generalFields{
		ProductName: strings.TrimSpace(snap.General.Name),
		Description: strings.TrimSpace(snap.General.Description),
		Brand:       strings.TrimSpace(snap.General.BrandID),
		Style:       strings.TrimSpace(snap.General.StyleID),
		Material:    strings.TrimSpace(snap.General.MaterialID),
		Origin:      strings.TrimSpace(snap.General.OriginID),
		Category:    strings.TrimSpace(snap.General.CategoryID),
	}
	if err := validate.Struct(fields); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				errs[fe.Field()] = generalMessage(fe)
			}
		} else {
			errs[draft.FieldProductName] = err.Error()
		}
	}
	if _, ok := snap.DefaultCover(); !ok {
		errs[draft.FieldDefaultImage] = "Select a default cover image"
	}
}

func (e *Engine) validateMatrix(snap draft.Snapshot, errs ErrorMap) {
	if len(snap.SelectedColorIDs) == 0 {
		errs[draft.FieldColors] = "Select at least one color"
		return
	}
	now := e.now()
	for _, colorID := range snap.SelectedColorIDs {
		colorName := colorLabel(snap, colorID)
		if len(snap.SizesByColor[colorID]) == 0 {
			errs[draft.SizesKey(colorID)] = fmt.Sprintf("Select at least one size for %s", colorName)
		}
		if snap.ImageCount(colorID) == 0 {
			errs[draft.ImagesKey(colorID)] = fmt.Sprintf("Add at least one image for %s", colorName)
		}
		for _, cell := range snap.CellsFor(colorID) {
			if cell.SizeID == "" {
				errs[draft.SizeKey(colorID, cell.SizeID)] = fmt.Sprintf("Choose a size for %s", colorName)
			}
			variant := colorName + " / " + sizeLabel(snap, cell.SizeID)
			if cell.Stock <= 0 {
				errs[cellKey(cell, enums.CellFieldStock)] = fmt.Sprintf("Stock for %s must be greater than 0", variant)
			}
			if !cell.CostPrice.IsPositive() {
				errs[cellKey(cell, enums.CellFieldCostPrice)] = fmt.Sprintf("Cost price for %s must be greater than 0", variant)
			}
			if !cell.SellPrice.IsPositive() {
				errs[cellKey(cell, enums.CellFieldSellPrice)] = fmt.Sprintf("Sell price for %s must be greater than 0", variant)
			}
			if msg := expiredDiscount(snap, cell, now); msg != "" {
				errs[cellKey(cell, enums.CellFieldDiscountIDs)] = fmt.Sprintf("%s for %s", msg, variant)
			}
		}
	}
}

func expiredDiscount(snap draft.Snapshot, cell draft.Cell, now time.Time) string {
	if snap.Palette == nil {
		return ""
	}
	for _, id := range cell.DiscountIDs {
		discount, ok := snap.Palette.Discount(id)
		if ok && discount.ExpiredAt(now) {
			return fmt.Sprintf("Discount %s has expired", discount.Code)
		}
	}
	return ""
}

func cellKey(cell draft.Cell, field enums.CellField) string {
	return draft.CellFieldKey(cell.ColorID, cell.SizeID, field.String())
}

func generalMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	}
	return label + " is invalid"
}

func colorLabel(snap draft.Snapshot, colorID string) string {
	if snap.Palette != nil {
		if opt, ok := snap.Palette.Color(colorID); ok && opt.Name != "" {
			return opt.Name
		}
	}
	return colorID
}

func sizeLabel(snap draft.Snapshot, sizeID string) string {
	if sizeID == "" {
		return "unchosen size"
	}
	if snap.Palette != nil {
		if opt, ok := snap.Palette.Size(sizeID); ok && opt.Name != "" {
			return opt.Name
		}
	}
	return sizeID
}
