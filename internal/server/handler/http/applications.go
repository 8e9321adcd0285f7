package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/ImpactMatch/internal/match"
	"github.com/atinyakov/ImpactMatch/internal/middleware"
	"github.com/atinyakov/ImpactMatch/internal/models"
	"github.com/go-chi/chi/v5"
)

// ApplicationService defines the application operations required by ApplicationHandler.
type ApplicationService interface {
	ApplicationsByVolunteer(volunteerID string) []models.Application
	ApplicationsByProject(ownerID string) map[string][]models.Application
	ApplicantSkills(projectID, volunteerID string) ([]match.SkillMatch, error)
	User(id string) (models.User, bool)
	UpdateApplicationStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (models.Application, error)
	Stats() (match.Stats, error)
}

// ApplicationHandler serves application listings and decisions.
type ApplicationHandler struct {
	ApplicationService ApplicationService
}

// Applicant is an application as shown to the owning NGO.
type Applicant struct {
	models.Application
	Volunteer  *models.User        `json:"volunteer,omitempty"`
	SkillMatch []match.SkillMatch `json:"skillMatch"`
}

// StatusRequest is the body of PATCH /api/applications/{id}.
type StatusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

// List handles GET /api/applications.
// Volunteers get their own applications; NGOs get applicants grouped by project id.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.GetUserFromContext(r.Context())
	if u.Role == models.RoleVolunteer {
		writeJSON(w, http.StatusOK, h.ApplicationService.ApplicationsByVolunteer(u.ID))
		return
	}

	groups := h.ApplicationService.ApplicationsByProject(u.ID)
	out := make(map[string][]Applicant, len(groups))
	for projectID, apps := range groups {
		for _, a := range apps {
			entry := Applicant{Application: a}
			if v, ok := h.ApplicationService.User(a.VolunteerID); ok {
				entry.Volunteer = &v
			}
			sm, err := h.ApplicationService.ApplicantSkills(projectID, a.VolunteerID)
			if err != nil {
				writeError(w, err)
				return
			}
			entry.SkillMatch = sm
			out[projectID] = append(out[projectID], entry)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateStatus handles PATCH /api/applications/{id}.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.ApplicationService.UpdateApplicationStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Stats handles GET /api/stats for the session NGO.
func (h *ApplicationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.ApplicationService.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
