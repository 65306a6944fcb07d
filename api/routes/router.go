package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-configurator/api/controllers"
	"github.com/angelmondragon/packfinderz-configurator/api/middleware"
	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/configurator"
	"github.com/angelmondragon/packfinderz-configurator/pkg/config"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
)

// Registry is the session store the draft routes operate on.
type Registry interface {
	Create(ctx context.Context) (*configurator.Session, error)
	Get(id string) (*configurator.Session, error)
	Discard(id string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry Registry,
	fetcher catalog.Fetcher,
	redisPinger controllers.Pinger,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/options/{kind}", controllers.Options(fetcher, logg))
		r.Get("/discounts", controllers.Discounts(fetcher, logg))

		r.Post("/drafts", controllers.CreateDraft(registry, logg))
		r.Route("/drafts/{draftId}", func(r chi.Router) {
			r.Use(middleware.Draft(registry, logg))

			r.Get("/", controllers.GetDraft(logg))
			r.Delete("/", controllers.DiscardDraft(registry, logg))
			r.Get("/options/{kind}", controllers.DraftOptions(logg))
			r.Patch("/general", controllers.UpdateGeneral(logg))

			r.Route("/colors/{colorId}", func(r chi.Router) {
				r.Post("/toggle", controllers.ToggleColor(logg))
				r.Post("/activate", controllers.ActivateColor(logg))
				r.Post("/sizes/toggle", controllers.ToggleSize(logg))
				r.Post("/images", controllers.AddImages(cfg.Media.MaxUploadBytes(), logg))
				r.Post("/images/reorder", controllers.ReorderImages(logg))
				r.Delete("/images/{fileName}", controllers.RemoveImage(logg))
			})

			r.Put("/cells", controllers.SetCell(logg))
			r.Post("/cells/discounts", controllers.AddCellDiscount(logg))
			r.Delete("/cells/discounts", controllers.RemoveCellDiscount(logg))
			r.Post("/cover", controllers.SetCover(logg))
			r.Post("/validate", controllers.Validate(logg))
			r.Post("/submit", controllers.Submit(logg))
			r.Post("/exit", controllers.RequestExit(logg))
			r.Post("/exit/resolve", controllers.ResolveExit(logg))
			r.Get("/export.xlsx", controllers.ExportMatrix(logg))
		})
	})

	return r
}
