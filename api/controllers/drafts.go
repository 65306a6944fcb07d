package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-configurator/api/middleware"
	"github.com/angelmondragon/packfinderz-configurator/api/responses"
	"github.com/angelmondragon/packfinderz-configurator/api/validators"
	"github.com/angelmondragon/packfinderz-configurator/internal/configurator"
	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/internal/submission"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
)

// DraftRegistry opens and discards configurator sessions.
type DraftRegistry interface {
	Create(ctx context.Context) (*configurator.Session, error)
	Discard(id string) error
}

type toggleResponse struct {
	Selected bool              `json:"selected"`
	View     configurator.View `json:"view"`
}

type submitResponse struct {
	Product      *submission.Created `json:"product"`
	VariantCount int                 `json:"variant_count"`
}

func sessionFromRequest(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*configurator.Session, bool) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "draft session missing from context"))
		return nil, false
	}
	return session, true
}

// CreateDraft opens a new configurator session.
func CreateDraft(registry DraftRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "draft registry unavailable"))
			return
		}

		session, err := registry.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithDraftID(r.Context(), session.ID()), "draft.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session.View())
	}
}

// GetDraft renders the session view.
func GetDraft(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}

// DiscardDraft drops the session without submitting.
func DiscardDraft(registry DraftRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "draft registry unavailable"))
			return
		}

		draftID := chi.URLParam(r, "draftId")
		if err := registry.Discard(draftID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": draftID, "status": "discarded"})
	}
}

// DraftOptions serves an attribute list through the session's memoized cache.
func DraftOptions(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		kind, err := enums.ParseOptionKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown option kind"))
			return
		}

		options, err := session.Options(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}

// UpdateGeneral applies a partial update to the general section.
func UpdateGeneral(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var patch draft.GeneralPatch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.UpdateGeneral(patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}

// ToggleColor adds or removes a color from the selection.
func ToggleColor(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		selected, err := session.ToggleColor(chi.URLParam(r, "colorId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toggleResponse{Selected: selected, View: session.View()})
	}
}

// ActivateColor switches the active color tab.
func ActivateColor(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		if err := session.SetActiveColor(chi.URLParam(r, "colorId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}

type toggleSizeRequest struct {
	SizeID *string `json:"size_id" validate:"required"`
}

// ToggleSize adds or removes a size under a selected color.
func ToggleSize(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload toggleSizeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selected, err := session.ToggleSize(chi.URLParam(r, "colorId"), *payload.SizeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toggleResponse{Selected: selected, View: session.View()})
	}
}

// Validate runs the submit rules and annotates the draft.
func Validate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, session.Validate())
	}
}

// Submit sends the draft to the product backend.
func Submit(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		result, err := session.Submit(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submitResponse{
			Product:      result.Product,
			VariantCount: result.VariantCount,
		})
	}
}
