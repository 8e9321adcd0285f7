package match

import (
	"reflect"
	"testing"

	"github.com/atinyakov/ImpactMatch/internal/models"
)

func sampleProjects() []models.Project {
	return []models.Project{
		{
			ID: "p1", OwnerID: "ngo1", OwnerName: "Green Earth Foundation",
			Title: "Website Redesign", Description: "Rebuild our donation site",
			RequiredSkills: []string{"Web Development", "UI/UX Design"},
			Location:       "Remote", Duration: "Short-term (< 1 month)",
		},
		{
			ID: "p2", OwnerID: "ngo1", OwnerName: "Green Earth Foundation",
			Title: "Social Media Campaign", Description: "Spread the word about tree planting",
			RequiredSkills: []string{"Social Media", "Content Writing"},
			Location:       "Berlin", Duration: "Ongoing",
		},
		{
			ID: "p3", OwnerID: "ngo2", OwnerName: "Food Bank",
			Title: "Volunteer Portal", Description: "Scheduling app",
			RequiredSkills: []string{"Web Development"},
			Location:       "Remote", Duration: "Ongoing",
		},
	}
}

func ids(ps []models.Project) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestProjects_Filter(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter", Filter{}, []string{"p1", "p2", "p3"}},
		{"search title case-insensitive", Filter{Search: "website"}, []string{"p1"}},
		{"search description", Filter{Search: "TREE"}, []string{"p2"}},
		{"search owner name", Filter{Search: "food"}, []string{"p3"}},
		{"search no match", Filter{Search: "kayak"}, []string{}},
		{"skill", Filter{Skill: "Web Development"}, []string{"p1", "p3"}},
		{"skill any", Filter{Skill: Any}, []string{"p1", "p2", "p3"}},
		{"location", Filter{Location: "Berlin"}, []string{"p2"}},
		{"location is exact", Filter{Location: "remote"}, []string{}},
		{"duration", Filter{Duration: "Ongoing"}, []string{"p2", "p3"}},
		{"combined", Filter{Search: "portal", Skill: "Web Development", Location: "Remote", Duration: "Ongoing"}, []string{"p3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Projects(sampleProjects(), tc.filter))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Projects(%+v) = %v; want %v", tc.filter, got, tc.want)
			}
		})
	}
}

func TestRecommended_AnyOverlap(t *testing.T) {
	got := ids(Recommended(sampleProjects(), []string{"Content Writing", "UI/UX Design"}))
	want := []string{"p1", "p2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommended = %v; want %v", got, want)
	}

	if got := Recommended(sampleProjects(), nil); len(got) != 0 {
		t.Errorf("expected no recommendations without skills, got %v", ids(got))
	}
}

func TestAvailableAndApplied(t *testing.T) {
	u := models.User{ID: "v1", Skills: []string{"Web Development"}, AppliedProjectIDs: []string{"p1"}}

	if got := ids(Applied(sampleProjects(), u)); !reflect.DeepEqual(got, []string{"p1"}) {
		t.Errorf("Applied = %v", got)
	}
	if got := ids(Available(sampleProjects(), u)); !reflect.DeepEqual(got, []string{"p2", "p3"}) {
		t.Errorf("Available = %v", got)
	}
	// applied projects are excluded from the available recommendation set
	if got := ids(Recommended(Available(sampleProjects(), u), u.Skills)); !reflect.DeepEqual(got, []string{"p3"}) {
		t.Errorf("Recommended(Available) = %v", got)
	}
}

func TestVolunteerDashboard(t *testing.T) {
	u := models.User{ID: "v1", Skills: []string{"Social Media"}, AppliedProjectIDs: []string{"p3"}}
	d := VolunteerDashboard(sampleProjects(), u)

	if got := ids(d.Applied); !reflect.DeepEqual(got, []string{"p3"}) {
		t.Errorf("Applied = %v", got)
	}
	if got := ids(d.Recommended); !reflect.DeepEqual(got, []string{"p2"}) {
		t.Errorf("Recommended = %v", got)
	}
	if got := ids(d.Other); !reflect.DeepEqual(got, []string{"p1"}) {
		t.Errorf("Other = %v", got)
	}
}

func TestByOwner(t *testing.T) {
	if got := ids(ByOwner(sampleProjects(), "ngo1")); !reflect.DeepEqual(got, []string{"p1", "p2"}) {
		t.Errorf("ByOwner(ngo1) = %v", got)
	}
	if got := ByOwner(sampleProjects(), "nobody"); got == nil || len(got) != 0 {
		t.Errorf("ByOwner(nobody) = %#v; want empty non-nil slice", got)
	}
}

func TestResultsAreCopies(t *testing.T) {
	src := sampleProjects()
	got := Projects(src, Filter{})
	got[0].RequiredSkills[0] = "changed"
	got[0].Title = "changed"
	if src[0].RequiredSkills[0] != "Web Development" || src[0].Title != "Website Redesign" {
		t.Error("mutating a result leaked into the input")
	}
}

func TestSkillMatches(t *testing.T) {
	got := SkillMatches([]string{"Web Development", "UI/UX Design"}, []string{"UI/UX Design"})
	want := []SkillMatch{{"Web Development", false}, {"UI/UX Design", true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SkillMatches = %v; want %v", got, want)
	}
}

func TestBuildFacets(t *testing.T) {
	ps := append(sampleProjects(), models.Project{ID: "p4", RequiredSkills: []string{"Teaching"}})
	f := BuildFacets(ps)

	wantSkills := []string{"Web Development", "UI/UX Design", "Social Media", "Content Writing", "Teaching"}
	if !reflect.DeepEqual(f.Skills, wantSkills) {
		t.Errorf("Skills = %v; want %v", f.Skills, wantSkills)
	}
	if !reflect.DeepEqual(f.Locations, []string{"Remote", "Berlin"}) {
		t.Errorf("Locations = %v", f.Locations)
	}
	if !reflect.DeepEqual(f.Durations, models.DurationBuckets) {
		t.Errorf("Durations = %v", f.Durations)
	}
}
