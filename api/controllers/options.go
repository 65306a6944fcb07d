package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-configurator/api/responses"
	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
)

// Options serves one attribute lookup list.
func Options(fetcher catalog.Fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fetcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		kind, err := enums.ParseOptionKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown option kind"))
			return
		}

		options, err := fetcher.FetchOptions(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if options == nil {
			options = []catalog.Option{}
		}
		responses.WriteSuccess(w, options)
	}
}

// Discounts serves the discount catalog.
func Discounts(fetcher catalog.Fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fetcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		discounts, err := fetcher.FetchDiscounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if discounts == nil {
			discounts = []catalog.Discount{}
		}
		responses.WriteSuccess(w, discounts)
	}
}
