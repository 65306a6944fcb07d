package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/angelmondragon/packfinderz-configurator/api/responses"
	"github.com/angelmondragon/packfinderz-configurator/api/validators"
	"github.com/angelmondragon/packfinderz-configurator/internal/export"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
)

type exitRequest struct {
	Kind string `json:"kind" validate:"required,oneof=navigate unload"`
}

type resolveExitRequest struct {
	Choice string `json:"choice" validate:"required,oneof=stay leave"`
}

// RequestExit asks to leave the configurator. Dirty drafts answer
// confirm_required and wait for ResolveExit.
func RequestExit(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload exitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := session.RequestExit(enums.ExitKind(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ResolveExit answers the unsaved-changes prompt.
func ResolveExit(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload resolveExitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := session.ResolveExit(enums.ExitChoice(payload.Choice))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ExportMatrix downloads the variant matrix as a workbook.
func ExportMatrix(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, logg)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := session.Export(&buf); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to export matrix"))
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", session.ID()+".xlsx"))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
