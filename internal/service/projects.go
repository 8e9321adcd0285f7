package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/ImpactMatch/internal/models"
	"go.uber.org/zap"
)

// ProjectInput holds the caller-supplied fields of a new project.
type ProjectInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
	Location       string   `json:"location,omitempty"`
	Duration       string   `json:"duration,omitempty"`
}

// CreateProject posts a project owned by the session NGO.
func (s *Store) CreateProject(ctx context.Context, in ProjectInput) (p models.Project, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe("create_project", err) }()

	ui, err := s.sessionUser()
	if err != nil {
		return models.Project{}, err
	}
	owner := s.data.Users[ui]
	if owner.Role != models.RoleNGO {
		s.log.Warn("create project denied", zap.String("user_id", owner.ID), zap.String("role", string(owner.Role)))
		return models.Project{}, ErrUnauthorized
	}

	title, desc := cleanText(in.Title), cleanText(in.Description)
	if title == "" {
		return models.Project{}, invalidInput("title is required")
	}
	if desc == "" {
		return models.Project{}, invalidInput("description is required")
	}
	skills := cleanSkills(in.RequiredSkills)
	if skills == nil {
		skills = []string{}
	}

	p = models.Project{
		ID:             s.newID(),
		OwnerID:        owner.ID,
		OwnerName:      owner.Name(),
		Title:          title,
		Description:    desc,
		RequiredSkills: skills,
		ApplicantIDs:   []string{},
		CreatedAt:      s.now().UTC(),
		Location:       cleanText(in.Location),
		Duration:       cleanText(in.Duration),
	}

	next := s.data.Clone()
	next.Projects = append(next.Projects, p)
	if err := s.saveData(ctx, next); err != nil {
		return models.Project{}, err
	}
	s.data = next

	s.log.Info("project created", zap.String("project_id", p.ID), zap.String("owner_id", owner.ID))
	s.notify.Notify(Notification{Title: "Project created!", Description: "Your volunteer opportunity has been posted"})
	return p.Clone(), nil
}

// ApplyToProject records the session volunteer's application to projectID.
// A second call for the same project returns ErrDuplicateApplication and changes nothing.
func (s *Store) ApplyToProject(ctx context.Context, projectID string) (a models.Application, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe("apply", err) }()

	ui, err := s.sessionUser()
	if err != nil {
		return models.Application{}, err
	}
	user := s.data.Users[ui]
	if user.Role != models.RoleVolunteer {
		s.log.Warn("apply denied", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
		return models.Application{}, ErrUnauthorized
	}
	if user.HasApplied(projectID) {
		s.notify.Notify(Notification{Title: "Already applied", Description: "You have already applied to this project", Destructive: true})
		return models.Application{}, ErrDuplicateApplication
	}
	pi := s.projectIndex(s.data, projectID)
	if pi < 0 {
		return models.Application{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	a = models.Application{
		ID:          s.newID(),
		ProjectID:   projectID,
		VolunteerID: user.ID,
		Status:      models.StatusPending,
		AppliedAt:   s.now().UTC(),
	}

	next := s.data.Clone()
	next.Users[ui].AppliedProjectIDs = append(next.Users[ui].AppliedProjectIDs, projectID)
	next.Projects[pi].ApplicantIDs = append(next.Projects[pi].ApplicantIDs, user.ID)
	next.Applications = append(next.Applications, a)
	if err := s.saveData(ctx, next); err != nil {
		return models.Application{}, err
	}
	s.data = next

	s.log.Info("application submitted",
		zap.String("application_id", a.ID),
		zap.String("project_id", projectID),
		zap.String("user_id", user.ID),
	)
	s.notify.Notify(Notification{Title: "Application sent!", Description: "The NGO will review your application"})
	return a, nil
}

// UpdateApplicationStatus moves a pending application to accepted or rejected.
// Only the NGO owning the application's project may do this, and only once.
func (s *Store) UpdateApplicationStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (a models.Application, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe("update_status", err) }()

	switch status {
	case models.StatusAccepted, models.StatusRejected:
	case models.StatusPending:
		return models.Application{}, fmt.Errorf("%w: cannot move back to %s", ErrInvalidTransition, status)
	default:
		return models.Application{}, invalidInput(fmt.Sprintf("unknown status %q", status))
	}

	ui, err := s.sessionUser()
	if err != nil {
		return models.Application{}, err
	}
	user := s.data.Users[ui]

	ai := -1
	for i, app := range s.data.Applications {
		if app.ID == applicationID {
			ai = i
			break
		}
	}
	if ai < 0 {
		return models.Application{}, fmt.Errorf("%w: %s", ErrApplicationNotFound, applicationID)
	}
	current := s.data.Applications[ai]

	pi := s.projectIndex(s.data, current.ProjectID)
	if user.Role != models.RoleNGO || pi < 0 || s.data.Projects[pi].OwnerID != user.ID {
		s.log.Warn("status change denied", zap.String("user_id", user.ID), zap.String("application_id", applicationID))
		return models.Application{}, ErrUnauthorized
	}
	if current.Status != models.StatusPending {
		return current, fmt.Errorf("%w: application is %s", ErrInvalidTransition, current.Status)
	}

	next := s.data.Clone()
	next.Applications[ai].Status = status
	if err := s.saveData(ctx, next); err != nil {
		return models.Application{}, err
	}
	s.data = next

	s.log.Info("application status changed",
		zap.String("application_id", applicationID),
		zap.String("status", string(status)),
	)
	return next.Applications[ai], nil
}
