package middleware

import (
	"context"

	"github.com/angelmondragon/packfinderz-configurator/internal/configurator"
)

type contextKey string

const ctxSession contextKey = "draft_session"

// SessionFromContext returns the session loaded by the Draft middleware.
func SessionFromContext(ctx context.Context) *configurator.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*configurator.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the draft session into the context for downstream handlers.
func WithSession(ctx context.Context, session *configurator.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, session)
}
