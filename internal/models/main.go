// Package models defines the core data structures for users, projects and applications.
package models

import "time"

// Role identifies the kind of account a user registered as.
type Role string

const (
	// RoleVolunteer can browse projects and submit applications.
	RoleVolunteer Role = "volunteer"
	// RoleNGO can create projects and decide application outcomes.
	RoleNGO Role = "ngo"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleVolunteer || r == RoleNGO
}

// ApplicationStatus is the decision state of an application.
type ApplicationStatus string

const (
	// StatusPending is the initial state of every application.
	StatusPending ApplicationStatus = "pending"
	// StatusAccepted is a terminal state set by the owning NGO.
	StatusAccepted ApplicationStatus = "accepted"
	// StatusRejected is a terminal state set by the owning NGO.
	StatusRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Password holds the credential (a bcrypt hash for accounts created by this version).
	Password string `json:"password"`
	// Role is fixed at registration.
	Role Role `json:"role"`
	// DisplayName is the optional human-readable name.
	DisplayName string `json:"displayName,omitempty"`
	// Skills lists skill tags; meaningful for volunteers only.
	Skills []string `json:"skills,omitempty"`
	// AppliedProjectIDs lists the projects a volunteer has applied to.
	AppliedProjectIDs []string `json:"appliedProjectIds,omitempty"`
}

// Name returns the display name, falling back to the username.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// HasApplied reports whether the user already applied to projectID.
func (u User) HasApplied(projectID string) bool {
	for _, id := range u.AppliedProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// Project is a volunteering opportunity posted by an NGO.
type Project struct {
	ID string `json:"id"`
	// OwnerID is the id of the NGO that created the project.
	OwnerID string `json:"ownerId"`
	// OwnerName is the NGO's display name at creation time. It is not kept in sync.
	OwnerName      string    `json:"ownerName"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"requiredSkills"`
	ApplicantIDs   []string  `json:"applicantIds"`
	CreatedAt      time.Time `json:"createdAt"`
	Location       string    `json:"location,omitempty"`
	Duration       string    `json:"duration,omitempty"`
}

// Application records one volunteer's request to join one project.
type Application struct {
	ID          string            `json:"id"`
	ProjectID   string            `json:"projectId"`
	VolunteerID string            `json:"volunteerId"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"appliedAt"`
}

// AppData is the persisted document holding every collection.
type AppData struct {
	Users        []User        `json:"users"`
	Projects     []Project     `json:"projects"`
	Applications []Application `json:"applications"`
}

// Clone returns a deep copy of d.
func (d AppData) Clone() AppData {
	out := AppData{
		Users:        make([]User, len(d.Users)),
		Projects:     make([]Project, len(d.Projects)),
		Applications: make([]Application, len(d.Applications)),
	}
	for i, u := range d.Users {
		out.Users[i] = u.Clone()
	}
	for i, p := range d.Projects {
		out.Projects[i] = p.Clone()
	}
	copy(out.Applications, d.Applications)
	return out
}

// Clone returns a copy of u that shares no slices with it.
func (u User) Clone() User {
	u.Skills = cloneStrings(u.Skills)
	u.AppliedProjectIDs = cloneStrings(u.AppliedProjectIDs)
	return u
}

// Clone returns a copy of p that shares no slices with it.
func (p Project) Clone() Project {
	p.RequiredSkills = cloneStrings(p.RequiredSkills)
	p.ApplicantIDs = cloneStrings(p.ApplicantIDs)
	return p
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// SkillOptions is the catalog of skill tags offered by registration and project forms.
var SkillOptions = []string{
	"Web Development",
	"Mobile App Development",
	"Graphic Design",
	"UI/UX Design",
	"Digital Marketing",
	"Content Writing",
	"Social Media Management",
	"Project Management",
	"Data Analysis",
	"Photography",
	"Video Editing",
	"Fundraising",
	"Event Planning",
	"Legal Services",
	"Accounting",
	"Teaching/Training",
	"Translation",
	"Research",
	"Healthcare",
	"Environmental Sciences",
}

// DurationBuckets are the duration values offered by the opportunity filter.
var DurationBuckets = []string{
	"Short-term (< 1 month)",
	"Medium-term (1-3 months)",
	"Long-term (> 3 months)",
	"Ongoing",
}
