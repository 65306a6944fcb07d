package controllers

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-configurator/api/responses"
	"github.com/angelmondragon/packfinderz-configurator/api/validators"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
)

type setCellRequest struct {
	ColorID string `json:"color_id" validate:"required"`
	SizeID  string `json:"size_id"`
	Field   string `json:"field" validate:"required,oneof=stock costPrice sellPrice discountIds"`
	Value   string `json:"value"`
}

type cellDiscountRequest struct {
	ColorID    string `json:"color_id" validate:"required"`
	SizeID     string `json:"size_id"`
	DiscountID string `json:"discount_id" validate:"required"`
}

// SetCell edits one value of a variant cell.
func SetCell(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload setCellRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.SetCellField(payload.ColorID, payload.SizeID, enums.CellField(payload.Field), payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}

// AddCellDiscount attaches a discount to a cell.
func AddCellDiscount(logg *logger.Logger) http.HandlerFunc {
	return cellDiscount(logg, true)
}

// RemoveCellDiscount detaches a discount from a cell.
func RemoveCellDiscount(logg *logger.Logger) http.HandlerFunc {
	return cellDiscount(logg, false)
}

func cellDiscount(logg *logger.Logger, add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload cellDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var err error
		if add {
			err = session.AddDiscount(payload.ColorID, payload.SizeID, payload.DiscountID)
		} else {
			err = session.RemoveDiscount(payload.ColorID, payload.SizeID, payload.DiscountID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}
