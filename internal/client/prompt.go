// Package client implements the interactive ImpactMatch shell.
package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atinyakov/ImpactMatch/internal/models"
	"github.com/atinyakov/ImpactMatch/internal/service"
)

// Prompter reads answers line by line from in and writes questions to out.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter returns a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints question and returns the trimmed answer. ok is false once input is exhausted.
func (p *Prompter) Ask(question string) (answer string, ok bool) {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

// splitList parses a comma separated answer.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// PromptCredentials asks for a username and password.
func (p *Prompter) PromptCredentials() (username, password string) {
	username, _ = p.Ask("Username: ")
	password, _ = p.Ask("Password: ")
	return username, password
}

// PromptRegistration asks for the fields of a new account.
// Skills are only asked for volunteers.
func (p *Prompter) PromptRegistration() service.Registration {
	var r service.Registration
	r.Username, r.Password = p.PromptCredentials()

	role, _ := p.Ask("Role (volunteer/ngo): ")
	r.Role = models.Role(strings.ToLower(role))
	r.DisplayName, _ = p.Ask("Display name (optional): ")

	if r.Role == models.RoleVolunteer {
		fmt.Fprintf(p.out, "Known skills: %s\n", strings.Join(models.SkillOptions, ", "))
		skills, _ := p.Ask("Skills (comma separated): ")
		r.Skills = splitList(skills)
	}
	return r
}

// PromptProject asks for a new project. The description can be loaded from a file.
func (p *Prompter) PromptProject() (service.ProjectInput, error) {
	var in service.ProjectInput
	in.Title, _ = p.Ask("Title: ")

	path, _ := p.Ask("Description file (leave empty for manual input): ")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return service.ProjectInput{}, fmt.Errorf("read description %q: %w", path, err)
		}
		in.Description = string(data)
	} else {
		in.Description, _ = p.Ask("Description: ")
	}

	skills, _ := p.Ask("Required skills (comma separated): ")
	in.RequiredSkills = splitList(skills)
	in.Location, _ = p.Ask("Location: ")
	fmt.Fprintf(p.out, "Durations: %s\n", strings.Join(models.DurationBuckets, ", "))
	in.Duration, _ = p.Ask("Duration: ")
	return in, nil
}
