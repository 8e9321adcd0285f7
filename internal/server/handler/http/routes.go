package http

import (
	"net/http"

	"github.com/atinyakov/ImpactMatch/internal/middleware"
	"github.com/atinyakov/ImpactMatch/internal/models"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Auth         *AuthHandler
	Projects     *ProjectHandler
	Applications *ApplicationHandler
	// Metrics, when set, is served at /metrics.
	Metrics http.Handler
	// Recorder, when set, observes every request.
	Recorder middleware.HTTPRecorder
}

// NewRouter constructs and returns an HTTP handler that serves
// the ImpactMatch API.
//
// Routes:
//
//	POST  /api/register                 → Auth.Register
//	POST  /api/login                    → Auth.Login
//	POST  /api/logout                   → Auth.Logout
//	GET   /api/session                  → Auth.Session
//	GET   /api/skills                   → Projects.Skills
//	GET   /api/projects                 → Projects.List
//	GET   /api/projects/facets          → Projects.Facets
//	GET   /api/projects/{id}            → Projects.Get
//	POST  /api/projects                 → Projects.Create         (NGO)
//	GET   /api/projects/mine            → Projects.Mine           (NGO)
//	GET   /api/projects/recommended     → Projects.Recommended    (volunteer)
//	POST  /api/projects/{id}/apply      → Projects.Apply          (volunteer)
//	GET   /api/dashboard                → Projects.Dashboard      (volunteer)
//	GET   /api/applications             → Applications.List       (session)
//	PATCH /api/applications/{id}        → Applications.UpdateStatus (NGO)
//	GET   /api/stats                    → Applications.Stats      (NGO)
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json"): rejects non-JSON request bodies
//  2. WithMetrics(recorder): when a recorder is given
//  3. WithRequestLogging(logger): logs incoming requests
//  4. SessionAuth / RequireRole: on protected routes only
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	if h.Recorder != nil {
		r.Use(middleware.WithMetrics(h.Recorder))
	}
	r.Use(middleware.WithRequestLogging(logger))

	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	ngo := middleware.RequireRole(models.RoleNGO)
	volunteer := middleware.RequireRole(models.RoleVolunteer)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
		r.Get("/session", h.Auth.Session)
		r.Get("/skills", h.Projects.Skills)
		r.Get("/projects", h.Projects.List)
		r.Get("/projects/facets", h.Projects.Facets)
		r.Get("/projects/{id}", h.Projects.Get)

		// Protected group: requires an active session
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(h.Auth.AuthService.CurrentUser))

			r.With(ngo).Post("/projects", h.Projects.Create)
			r.With(ngo).Get("/projects/mine", h.Projects.Mine)
			r.With(volunteer).Get("/projects/recommended", h.Projects.Recommended)
			r.With(volunteer).Post("/projects/{id}/apply", h.Projects.Apply)
			r.With(volunteer).Get("/dashboard", h.Projects.Dashboard)

			r.Get("/applications", h.Applications.List)
			r.With(ngo).Patch("/applications/{id}", h.Applications.UpdateStatus)
			r.With(ngo).Get("/stats", h.Applications.Stats)
		})
	})

	return r
}
