package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vaultpass/pwgen/internal/middleware"
)

// RouterConfig wires the companion HTTP surface.
type RouterConfig struct {
	Generator *GeneratorHandler
	Settings  *SettingsHandler
	RPS       float64
	Burst     int
}

// NewRouter builds the chi router. ctx bounds background work started by
// middleware.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/strength", HandleStrength)

		r.Get("/settings", cfg.Settings.HandleGet)
		r.Put("/settings", cfg.Settings.HandlePut)
		r.Delete("/settings", cfg.Settings.HandleDelete)

		r.Group(func(r chi.Router) {
			if cfg.RPS > 0 {
				r.Use(middleware.RateLimit(ctx, cfg.RPS, cfg.Burst))
			}
			r.Post("/generate", cfg.Generator.HandleGenerate)
		})
	})

	return r
}
