// Package match implements the read-only project and application queries:
// text search, exact filters, skill-based recommendation and dashboard stats.
// Every function is pure and returns new slices; inputs are never modified.
package match

import (
	"strings"

	"github.com/atinyakov/ImpactMatch/internal/models"
)

// Any is the filter value that disables an exact-match filter, same as "".
const Any = "all"

// Filter narrows the project listing. Zero-value fields match every project.
type Filter struct {
	// Search is matched case-insensitively as a substring of title, description or owner name.
	Search   string
	Skill    string
	Location string
	Duration string
}

func exact(want, got string) bool {
	return want == "" || want == Any || want == got
}

// Matches reports whether p passes every filter in f.
func (f Filter) Matches(p models.Project) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.OwnerName), q) {
			return false
		}
	}
	if f.Skill != "" && f.Skill != Any && !contains(p.RequiredSkills, f.Skill) {
		return false
	}
	return exact(f.Location, p.Location) && exact(f.Duration, p.Duration)
}

// Projects returns the projects matching f, in input order.
func Projects(projects []models.Project, f Filter) []models.Project {
	return selectProjects(projects, f.Matches)
}

// ByOwner returns the projects created by ownerID.
func ByOwner(projects []models.Project, ownerID string) []models.Project {
	return selectProjects(projects, func(p models.Project) bool { return p.OwnerID == ownerID })
}

// SkillsOverlap reports whether required and have share at least one tag.
func SkillsOverlap(required, have []string) bool {
	for _, s := range required {
		if contains(have, s) {
			return true
		}
	}
	return false
}

// Recommended returns the projects whose required skills intersect skills.
func Recommended(projects []models.Project, skills []string) []models.Project {
	return selectProjects(projects, func(p models.Project) bool { return SkillsOverlap(p.RequiredSkills, skills) })
}

// Applied returns the projects the user has applied to.
func Applied(projects []models.Project, u models.User) []models.Project {
	return selectProjects(projects, func(p models.Project) bool { return u.HasApplied(p.ID) })
}

// Available returns the projects the user has not applied to yet.
func Available(projects []models.Project, u models.User) []models.Project {
	return selectProjects(projects, func(p models.Project) bool { return !u.HasApplied(p.ID) })
}

// Dashboard splits the listing the way the volunteer dashboard shows it.
type Dashboard struct {
	Applied     []models.Project
	Recommended []models.Project
	Other       []models.Project
}

// VolunteerDashboard partitions projects into applied, recommended
// (available with a skill overlap) and other available projects.
func VolunteerDashboard(projects []models.Project, u models.User) Dashboard {
	d := Dashboard{
		Applied:     []models.Project{},
		Recommended: []models.Project{},
		Other:       []models.Project{},
	}
	for _, p := range projects {
		switch {
		case u.HasApplied(p.ID):
			d.Applied = append(d.Applied, p.Clone())
		case SkillsOverlap(p.RequiredSkills, u.Skills):
			d.Recommended = append(d.Recommended, p.Clone())
		default:
			d.Other = append(d.Other, p.Clone())
		}
	}
	return d
}

// SkillMatch tells whether an applicant has one required skill.
type SkillMatch struct {
	Skill string `json:"skill"`
	Has   bool   `json:"has"`
}

// SkillMatches lists every required skill with whether have contains it.
func SkillMatches(required, have []string) []SkillMatch {
	out := make([]SkillMatch, 0, len(required))
	for _, s := range required {
		out = append(out, SkillMatch{Skill: s, Has: contains(have, s)})
	}
	return out
}

// Facets are the distinct values offered by the listing filters.
type Facets struct {
	Skills    []string `json:"skills"`
	Locations []string `json:"locations"`
	Durations []string `json:"durations"`
}

// BuildFacets collects distinct skills and non-empty locations in first-seen order.
func BuildFacets(projects []models.Project) Facets {
	f := Facets{
		Skills:    []string{},
		Locations: []string{},
		Durations: append([]string(nil), models.DurationBuckets...),
	}
	seenSkill := make(map[string]bool)
	seenLoc := make(map[string]bool)
	for _, p := range projects {
		for _, s := range p.RequiredSkills {
			if !seenSkill[s] {
				seenSkill[s] = true
				f.Skills = append(f.Skills, s)
			}
		}
		if p.Location != "" && !seenLoc[p.Location] {
			seenLoc[p.Location] = true
			f.Locations = append(f.Locations, p.Location)
		}
	}
	return f
}

func selectProjects(projects []models.Project, keep func(models.Project) bool) []models.Project {
	out := []models.Project{}
	for _, p := range projects {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
