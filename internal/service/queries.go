package service

import (
	"github.com/atinyakov/ImpactMatch/internal/match"
	"github.com/atinyakov/ImpactMatch/internal/models"
)

// CurrentUser returns the session user without its password.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.sessionUser()
	if err != nil {
		return models.User{}, false
	}
	return redact(s.data.Users[i]), true
}

// User looks up a user by id. The password is never returned.
func (s *Store) User(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return models.User{}, false
	}
	return redact(s.data.Users[i]), true
}

// Project looks up a project by id.
func (s *Store) Project(id string) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(s.data, id)
	if i < 0 {
		return models.Project{}, false
	}
	return s.data.Projects[i].Clone(), true
}

// Projects lists the projects matching f in creation order.
func (s *Store) Projects(f match.Filter) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return match.Projects(s.data.Projects, f)
}

// ProjectsByOwner lists the projects created by ownerID.
func (s *Store) ProjectsByOwner(ownerID string) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return match.ByOwner(s.data.Projects, ownerID)
}

// Applications returns every application.
func (s *Store) Applications() []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Application{}, s.data.Applications...)
}

// ApplicationsForProjects returns the applications to any of projectIDs.
func (s *Store) ApplicationsForProjects(projectIDs []string) []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return match.ApplicationsForProjects(s.data.Applications, projectIDs)
}

// ApplicationsByVolunteer returns the applications submitted by volunteerID.
func (s *Store) ApplicationsByVolunteer(volunteerID string) []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return match.ApplicationsByVolunteer(s.data.Applications, volunteerID)
}

// ApplicationsByProject groups the applications to ownerID's projects by project id.
func (s *Store) ApplicationsByProject(ownerID string) map[string][]models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, p := range s.data.Projects {
		if p.OwnerID == ownerID {
			ids = append(ids, p.ID)
		}
	}
	return match.GroupByProject(match.ApplicationsForProjects(s.data.Applications, ids))
}

// Recommended returns the projects the session volunteer has not applied to
// whose required skills overlap the volunteer's skills.
func (s *Store) Recommended() ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.sessionUser()
	if err != nil {
		return nil, err
	}
	u := s.data.Users[i]
	return match.Recommended(match.Available(s.data.Projects, u), u.Skills), nil
}

// Dashboard partitions the projects for the session volunteer.
func (s *Store) Dashboard() (match.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.sessionUser()
	if err != nil {
		return match.Dashboard{}, err
	}
	u := s.data.Users[i]
	if u.Role != models.RoleVolunteer {
		return match.Dashboard{}, ErrUnauthorized
	}
	return match.VolunteerDashboard(s.data.Projects, u), nil
}

// Stats summarizes the session NGO's projects.
func (s *Store) Stats() (match.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.sessionUser()
	if err != nil {
		return match.Stats{}, err
	}
	u := s.data.Users[i]
	if u.Role != models.RoleNGO {
		return match.Stats{}, ErrUnauthorized
	}
	return match.OwnerStats(s.data.Projects, s.data.Applications, u.ID), nil
}

// Facets returns the distinct filter values across all projects.
func (s *Store) Facets() match.Facets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return match.BuildFacets(s.data.Projects)
}

// ApplicantSkills reports, for each skill required by projectID, whether volunteerID has it.
func (s *Store) ApplicantSkills(projectID, volunteerID string) ([]match.SkillMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pi := s.projectIndex(s.data, projectID)
	if pi < 0 {
		return nil, ErrProjectNotFound
	}
	var have []string
	if ui := s.userIndex(volunteerID); ui >= 0 {
		have = s.data.Users[ui].Skills
	}
	return match.SkillMatches(s.data.Projects[pi].RequiredSkills, have), nil
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() models.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}
