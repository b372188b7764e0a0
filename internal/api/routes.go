package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// AuthOptions selects how callers are authenticated.
type AuthOptions struct {
	Enabled       bool
	JWTSecret     string
	DefaultTenant string
}

// NewRouter creates a new router with all routes configured. extra is mounted
// beside the API, e.g. the MCP handler at /mcp.
func NewRouter(h *Handler, auth AuthOptions, extra map[string]http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(h.logger))
	r.Use(RecoveryMiddleware(h.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			if auth.Enabled {
				r.Use(JWTMiddleware(auth.JWTSecret, h.logger))
			} else {
				r.Use(DefaultPrincipalMiddleware(auth.DefaultTenant))
			}

			r.Get("/stages", h.Stages)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.ListProjects)
				r.With(RequirePermission(PermProjectsWrite)).Post("/", h.CreateProject)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetProject)
					r.Get("/activity", h.ProjectActivity)
					r.Group(func(r chi.Router) {
						r.Use(RequirePermission(PermProjectsWrite))
						r.Patch("/", h.UpdateProject)
						r.Delete("/", h.DeleteProject)
						r.Post("/transition", h.TransitionProject)
					})
				})
			})

			r.Get("/companies", h.ListCompanies)
			r.Get("/brands", h.ListBrands)
			r.Get("/categories", h.ListCategories)
			r.Group(func(r chi.Router) {
				r.Use(RequirePermission(PermMasterDataWrite))
				r.Post("/companies", h.CreateCompany)
				r.Post("/brands", h.CreateBrand)
				r.Post("/categories", h.CreateCategory)
			})
		})
	})

	for pattern, handler := range extra {
		r.Handle(pattern, handler)
	}

	return r
}
