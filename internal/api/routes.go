package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", h.ListProjects)
		r.Post("/projects", h.CreateProject)
		r.Get("/projects/{projectID}/imports", h.ListImports)
		r.Post("/projects/{projectID}/imports", h.UploadImport)
		r.Get("/projects/{projectID}/visibility", h.VisibilityTrend)

		r.Get("/imports/{importID}/analysis", h.GetAnalysis)
		r.Get("/imports/{importID}/sov", h.GetSoV)
		r.Get("/imports/{importID}/opportunities", h.GetOpportunities)
		r.Get("/imports/{importID}/keywords", h.GetKeywords)

		r.Post("/intents/validate", h.ValidateIntent)
	})

	return r
}
