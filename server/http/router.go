package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"sheetops/internal/config"
	editHnd "sheetops/internal/edit/handler"
	mapHnd "sheetops/internal/mapping/handler"
	"sheetops/internal/middleware"
	"sheetops/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(cfg.MaxUploadBytes()))

	r.Get("/health", handlers.Health)

	r.Post("/edit", editHnd.Edit(cfg, logger))
	r.Post("/map", mapHnd.Map(cfg, logger))

	return r
}
