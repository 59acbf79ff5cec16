package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"survey-service/internal/config"
	"survey-service/internal/middleware"
	"survey-service/internal/store"
	"survey-service/internal/survey/handler"
	"survey-service/internal/survey/importer"
	"survey-service/server/http/handlers"
)

func NewRouter(cfg config.Config, st store.Store, im *importer.Importer, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(cfg.MaxUploadBytes()))

	r.Get("/health", handlers.Health)

	r.Post("/preview", handler.Preview(logger))
	r.Post("/imports", handler.Import(im, logger))

	r.Get("/collections", handler.ListCollections(st, cfg.DefaultCollection, logger))
	r.Route("/collections/{collection}", func(r chi.Router) {
		r.Get("/records", handler.ListRecords(st, logger))
		r.Patch("/records/{id}", handler.UpdateRecord(st, logger))
		r.Delete("/records/{id}", handler.DeleteRecord(st, logger))
		r.Get("/summary", handler.Summary(st, logger))
		r.Get("/export", handler.Export(st, logger))
	})

	return r
}
