package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/ImpactMatch/internal/match"
	"github.com/atinyakov/ImpactMatch/internal/middleware"
	"github.com/atinyakov/ImpactMatch/internal/models"
	"github.com/atinyakov/ImpactMatch/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProjectService defines the project operations required by ProjectHandler.
type ProjectService interface {
	Projects(f match.Filter) []models.Project
	Project(id string) (models.Project, bool)
	ProjectsByOwner(ownerID string) []models.Project
	Recommended() ([]models.Project, error)
	Dashboard() (match.Dashboard, error)
	Facets() match.Facets
	CreateProject(ctx context.Context, in service.ProjectInput) (models.Project, error)
	ApplyToProject(ctx context.Context, projectID string) (models.Application, error)
}

// ProjectHandler serves the project listing and the apply action.
type ProjectHandler struct {
	ProjectService ProjectService
}

// List handles GET /api/projects?q=&skill=&location=&duration=.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := match.Filter{
		Search:   q.Get("q"),
		Skill:    q.Get("skill"),
		Location: q.Get("location"),
		Duration: q.Get("duration"),
	}
	writeJSON(w, http.StatusOK, h.ProjectService.Projects(f))
}

// Get handles GET /api/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ProjectService.Project(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, service.ErrProjectNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.ProjectService.CreateProject(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Mine handles GET /api/projects/mine for the session NGO.
func (h *ProjectHandler) Mine(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.GetUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.ProjectService.ProjectsByOwner(u.ID))
}

// Recommended handles GET /api/projects/recommended for the session volunteer.
func (h *ProjectHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	ps, err := h.ProjectService.Recommended()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// Dashboard handles GET /api/dashboard for the session volunteer.
func (h *ProjectHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.ProjectService.Dashboard()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Project{
		"applied":     d.Applied,
		"recommended": d.Recommended,
		"other":       d.Other,
	})
}

// Facets handles GET /api/projects/facets.
func (h *ProjectHandler) Facets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ProjectService.Facets())
}

// Skills handles GET /api/skills with the form catalogs.
func (h *ProjectHandler) Skills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"skills":    models.SkillOptions,
		"durations": models.DurationBuckets,
	})
}

// Apply handles POST /api/projects/{id}/apply.
func (h *ProjectHandler) Apply(w http.ResponseWriter, r *http.Request) {
	a, err := h.ProjectService.ApplyToProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}
