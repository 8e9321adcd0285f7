package client

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinyakov/ImpactMatch/internal/models"
)

func TestPromptRegistration_Volunteer(t *testing.T) {
	input := "alice\nsecret\nVolunteer\nAlice A\nWriting, Teaching,,\n"
	var out bytes.Buffer

	r := NewPrompter(strings.NewReader(input), &out).PromptRegistration()

	if r.Username != "alice" || r.Password != "secret" {
		t.Errorf("credentials = %q/%q", r.Username, r.Password)
	}
	if r.Role != models.RoleVolunteer {
		t.Errorf("Role = %q; want %q", r.Role, models.RoleVolunteer)
	}
	if r.DisplayName != "Alice A" {
		t.Errorf("DisplayName = %q", r.DisplayName)
	}
	if len(r.Skills) != 2 || r.Skills[0] != "Writing" || r.Skills[1] != "Teaching" {
		t.Errorf("Skills = %v", r.Skills)
	}
	if !strings.Contains(out.String(), "Known skills:") {
		t.Errorf("expected skill catalog in output, got %q", out.String())
	}
}

func TestPromptRegistration_NGOSkipsSkills(t *testing.T) {
	input := "greenorg\npw\nngo\n\n"
	var out bytes.Buffer

	r := NewPrompter(strings.NewReader(input), &out).PromptRegistration()

	if r.Role != models.RoleNGO {
		t.Errorf("Role = %q; want %q", r.Role, models.RoleNGO)
	}
	if r.Skills != nil {
		t.Errorf("Skills = %v; want nil", r.Skills)
	}
	if strings.Contains(out.String(), "Skills") {
		t.Errorf("ngo must not be asked for skills, got %q", out.String())
	}
}

func TestPromptProject_Manual(t *testing.T) {
	input := "Tutoring\n\nMath help\nTeaching\nBerlin\nOngoing\n"
	var out bytes.Buffer

	in, err := NewPrompter(strings.NewReader(input), &out).PromptProject()
	if err != nil {
		t.Fatal(err)
	}
	if in.Title != "Tutoring" || in.Description != "Math help" {
		t.Errorf("got %+v", in)
	}
	if len(in.RequiredSkills) != 1 || in.Location != "Berlin" || in.Duration != "Ongoing" {
		t.Errorf("got %+v", in)
	}
}

func TestPromptProject_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desc.txt")
	if err := os.WriteFile(path, []byte("filecontent"), 0o600); err != nil {
		t.Fatal(err)
	}
	input := "Tutoring\n" + path + "\n\nRemote\n1 month\n"

	in, err := NewPrompter(strings.NewReader(input), &bytes.Buffer{}).PromptProject()
	if err != nil {
		t.Fatal(err)
	}
	if in.Description != "filecontent" {
		t.Errorf("Description = %q; want %q", in.Description, "filecontent")
	}
	if in.RequiredSkills != nil {
		t.Errorf("RequiredSkills = %v; want nil", in.RequiredSkills)
	}
}

func TestPromptProject_FileNotFound(t *testing.T) {
	input := "Tutoring\n/no/such/file\n"

	_, err := NewPrompter(strings.NewReader(input), &bytes.Buffer{}).PromptProject()
	if err == nil || !strings.Contains(err.Error(), "read description") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestAsk_EOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, ok := p.Ask("x: "); ok {
		t.Error("Ask on empty input must report !ok")
	}
}
