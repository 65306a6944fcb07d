package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-configurator/api/responses"
	"github.com/angelmondragon/packfinderz-configurator/internal/configurator"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
)

// SessionLookup resolves a draft id to its live session.
type SessionLookup interface {
	Get(id string) (*configurator.Session, error)
}

// Draft loads the session named by the {draftId} URL parameter.
func Draft(sessions SessionLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			draftID := chi.URLParam(r, "draftId")
			if draftID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "draft id is required"))
				return
			}
			if logg != nil {
				ctx = logg.WithDraftID(ctx, draftID)
			}

			session, err := sessions.Get(draftID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}
