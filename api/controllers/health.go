package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/packfinderz-configurator/api/responses"
	"github.com/angelmondragon/packfinderz-configurator/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
)

const envHeader = "X-Configurator-Env"

// Pinger is satisfied by the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the optional option cache answers. A nil
// pinger means redis is disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redis.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
