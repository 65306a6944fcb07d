package controllers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-configurator/api/responses"
	"github.com/angelmondragon/packfinderz-configurator/api/validators"
	"github.com/angelmondragon/packfinderz-configurator/internal/configurator"
	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
)

const uploadField = "files"

type addImagesResponse struct {
	Images []draft.Image      `json:"images"`
	View   configurator.View `json:"view"`
}

type reorderImagesRequest struct {
	From *int `json:"from" validate:"required,gte=0"`
	To   *int `json:"to" validate:"required,gte=0"`
}

type setCoverRequest struct {
	FileName string `json:"file_name" validate:"required"`
}

// imageNameParam reads the fileName path segment and maps it onto the name
// uploads are stored under.
func imageNameParam(r *http.Request) string {
	name := chi.URLParam(r, "fileName")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return media.SanitizeFileName(name)
}

// AddImages appends an uploaded batch to a color gallery. The batch is
// accepted whole or rejected whole.
func AddImages(maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		files, err := validators.DecodeMultipartFiles(w, r, uploadField, maxUploadBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		colorID := chi.URLParam(r, "colorId")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithColorID(ctx, colorID)
		}

		added, err := session.AddImages(ctx, colorID, files)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addImagesResponse{Images: added, View: session.View()})
	}
}

// RemoveImage deletes one image from a color gallery.
func RemoveImage(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		if err := session.RemoveImage(chi.URLParam(r, "colorId"), imageNameParam(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}

// ReorderImages moves one gallery entry.
func ReorderImages(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload reorderImagesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.ReorderImages(chi.URLParam(r, "colorId"), *payload.From, *payload.To); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}

// SetCover marks the product's default cover image.
func SetCover(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload setCoverRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.SetDefaultCover(media.SanitizeFileName(payload.FileName)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}
