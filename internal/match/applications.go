package match

import "github.com/atinyakov/ImpactMatch/internal/models"

// ApplicationsForProjects returns the applications whose project is in projectIDs.
func ApplicationsForProjects(apps []models.Application, projectIDs []string) []models.Application {
	set := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		set[id] = true
	}
	out := []models.Application{}
	for _, a := range apps {
		if set[a.ProjectID] {
			out = append(out, a)
		}
	}
	return out
}

// ApplicationsByVolunteer returns the applications submitted by volunteerID.
func ApplicationsByVolunteer(apps []models.Application, volunteerID string) []models.Application {
	out := []models.Application{}
	for _, a := range apps {
		if a.VolunteerID == volunteerID {
			out = append(out, a)
		}
	}
	return out
}

// GroupByProject buckets applications by project id, keeping input order inside each bucket.
func GroupByProject(apps []models.Application) map[string][]models.Application {
	out := make(map[string][]models.Application)
	for _, a := range apps {
		out[a.ProjectID] = append(out[a.ProjectID], a)
	}
	return out
}

// Stats summarizes an NGO's projects and the applications they received.
type Stats struct {
	Projects     int `json:"projects"`
	Applicants   int `json:"applicants"`
	Applications int `json:"applications"`
	Pending      int `json:"pending"`
	Accepted     int `json:"accepted"`
	Rejected     int `json:"rejected"`
}

// OwnerStats computes Stats for the projects owned by ownerID.
func OwnerStats(projects []models.Project, apps []models.Application, ownerID string) Stats {
	var s Stats
	ids := make([]string, 0)
	for _, p := range projects {
		if p.OwnerID != ownerID {
			continue
		}
		s.Projects++
		s.Applicants += len(p.ApplicantIDs)
		ids = append(ids, p.ID)
	}
	for _, a := range ApplicationsForProjects(apps, ids) {
		s.Applications++
		switch a.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusAccepted:
			s.Accepted++
		case models.StatusRejected:
			s.Rejected++
		}
	}
	return s
}
