package client

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/atinyakov/ImpactMatch/internal/match"
	"github.com/atinyakov/ImpactMatch/internal/models"
	"github.com/atinyakov/ImpactMatch/internal/service"
)

// Store is the part of service.Store the shell drives.
type Store interface {
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	Register(ctx context.Context, r service.Registration) (models.User, error)
	Logout(ctx context.Context) error
	CurrentUser() (models.User, bool)
	User(id string) (models.User, bool)

	Projects(f match.Filter) []models.Project
	ProjectsByOwner(ownerID string) []models.Project
	Recommended() ([]models.Project, error)
	Dashboard() (match.Dashboard, error)
	CreateProject(ctx context.Context, in service.ProjectInput) (models.Project, error)
	ApplyToProject(ctx context.Context, projectID string) (models.Application, error)

	ApplicationsByVolunteer(volunteerID string) []models.Application
	ApplicationsByProject(ownerID string) map[string][]models.Application
	ApplicantSkills(projectID, volunteerID string) ([]match.SkillMatch, error)
	UpdateApplicationStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (models.Application, error)
	Stats() (match.Stats, error)
}

const helpText = `Available commands:
  help                               show this help
  register                           create an account and log in
  login                              log in
  logout                             end the session
  whoami                             show the session user
  projects [-skill s] [-location l] [-duration d] [search...]
  recommended                        projects matching your skills (volunteer)
  dashboard                          applied, recommended and other projects (volunteer)
  apply <project-id>                 apply to a project (volunteer)
  mine                               your projects (ngo)
  create                             post a new project (ngo)
  applications                       list applications
  accept <application-id>            accept an application (ngo)
  reject <application-id>            reject an application (ngo)
  stats                              dashboard counters (ngo)
  exit                               leave the shell`

// Shell is a line-oriented command interpreter over a Store.
type Shell struct {
	store  Store
	prompt *Prompter
	out    io.Writer
}

// NewShell returns a Shell reading commands from in and printing to out.
func NewShell(store Store, in io.Reader, out io.Writer) *Shell {
	return &Shell{store: store, prompt: NewPrompter(in, out), out: out}
}

// ToastPrinter returns a notifier printing each notification as one line to out.
func ToastPrinter(out io.Writer) service.Notifier {
	return service.NotifierFunc(func(n service.Notification) {
		mark := "*"
		if n.Destructive {
			mark = "!"
		}
		fmt.Fprintf(out, "%s %s: %s\n", mark, n.Title, n.Description)
	})
}

// Run reads commands until exit, end of input or ctx cancellation.
func (sh *Shell) Run(ctx context.Context) {
	for ctx.Err() == nil {
		line, ok := sh.prompt.Ask("impactmatch> ")
		if !ok {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if quit := sh.Exec(ctx, args); quit {
			return
		}
	}
}

// Exec runs a single command. It reports whether the shell should stop.
func (sh *Shell) Exec(ctx context.Context, args []string) (quit bool) {
	var err error
	switch args[0] {
	case "help":
		fmt.Fprintln(sh.out, helpText)
	case "register":
		_, err = sh.store.Register(ctx, sh.prompt.PromptRegistration())
	case "login":
		u, p := sh.prompt.PromptCredentials()
		_, err = sh.store.Authenticate(ctx, u, p)
	case "logout":
		err = sh.store.Logout(ctx)
	case "whoami":
		sh.whoami()
	case "projects":
		err = sh.projects(args[1:])
	case "recommended":
		var ps []models.Project
		if ps, err = sh.store.Recommended(); err == nil {
			sh.printProjects(ps)
		}
	case "dashboard":
		err = sh.dashboard()
	case "apply":
		if len(args) < 2 {
			fmt.Fprintln(sh.out, "Usage: apply <project-id>")
			return false
		}
		_, err = sh.store.ApplyToProject(ctx, args[1])
	case "mine":
		u, ok := sh.store.CurrentUser()
		if !ok {
			err = service.ErrNotAuthenticated
			break
		}
		sh.printProjects(sh.store.ProjectsByOwner(u.ID))
	case "create":
		var in service.ProjectInput
		if in, err = sh.prompt.PromptProject(); err == nil {
			_, err = sh.store.CreateProject(ctx, in)
		}
	case "applications":
		err = sh.applications()
	case "accept", "reject":
		if len(args) < 2 {
			fmt.Fprintf(sh.out, "Usage: %s <application-id>\n", args[0])
			return false
		}
		status := models.StatusAccepted
		if args[0] == "reject" {
			status = models.StatusRejected
		}
		var a models.Application
		if a, err = sh.store.UpdateApplicationStatus(ctx, args[1], status); err == nil {
			fmt.Fprintf(sh.out, "Application %s is now %s\n", a.ID, a.Status)
		}
	case "stats":
		var st match.Stats
		if st, err = sh.store.Stats(); err == nil {
			fmt.Fprintf(sh.out, "Projects: %d  Applicants: %d  Pending: %d  Accepted: %d  Rejected: %d\n",
				st.Projects, st.Applicants, st.Pending, st.Accepted, st.Rejected)
		}
	case "exit":
		fmt.Fprintln(sh.out, "Bye")
		return true
	default:
		fmt.Fprintln(sh.out, "Unknown command. Type 'help' for a list of commands.")
	}
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
	}
	return false
}

func (sh *Shell) whoami() {
	u, ok := sh.store.CurrentUser()
	if !ok {
		fmt.Fprintln(sh.out, "Not logged in")
		return
	}
	fmt.Fprintf(sh.out, "%s (%s, %s)\n", u.Name(), u.Username, u.Role)
	if len(u.Skills) > 0 {
		fmt.Fprintf(sh.out, "Skills: %s\n", strings.Join(u.Skills, ", "))
	}
}

func (sh *Shell) projects(args []string) error {
	fs := flag.NewFlagSet("projects", flag.ContinueOnError)
	fs.SetOutput(sh.out)
	f := match.Filter{}
	fs.StringVar(&f.Skill, "skill", match.Any, "required skill")
	fs.StringVar(&f.Location, "location", match.Any, "location")
	fs.StringVar(&f.Duration, "duration", match.Any, "duration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.Search = strings.Join(fs.Args(), " ")
	sh.printProjects(sh.store.Projects(f))
	return nil
}

func (sh *Shell) dashboard() error {
	d, err := sh.store.Dashboard()
	if err != nil {
		return err
	}
	for _, section := range []struct {
		title string
		ps    []models.Project
	}{
		{"Applied", d.Applied},
		{"Recommended", d.Recommended},
		{"Other opportunities", d.Other},
	} {
		fmt.Fprintf(sh.out, "== %s (%d)\n", section.title, len(section.ps))
		sh.printProjects(section.ps)
	}
	return nil
}

func (sh *Shell) applications() error {
	u, ok := sh.store.CurrentUser()
	if !ok {
		return service.ErrNotAuthenticated
	}
	if u.Role == models.RoleVolunteer {
		apps := sh.store.ApplicationsByVolunteer(u.ID)
		if len(apps) == 0 {
			fmt.Fprintln(sh.out, "No applications yet")
		}
		for _, a := range apps {
			fmt.Fprintf(sh.out, "%s  project %s  %s  %s\n", a.ID, a.ProjectID, a.Status, a.AppliedAt.Format("2006-01-02"))
		}
		return nil
	}

	groups := sh.store.ApplicationsByProject(u.ID)
	projectIDs := make([]string, 0, len(groups))
	for id := range groups {
		projectIDs = append(projectIDs, id)
	}
	sort.Strings(projectIDs)
	if len(projectIDs) == 0 {
		fmt.Fprintln(sh.out, "No applications yet")
	}
	for _, pid := range projectIDs {
		fmt.Fprintf(sh.out, "== project %s\n", pid)
		for _, a := range groups[pid] {
			name := a.VolunteerID
			if v, ok := sh.store.User(a.VolunteerID); ok {
				name = v.Name()
			}
			skills, err := sh.store.ApplicantSkills(pid, a.VolunteerID)
			if err != nil {
				return err
			}
			fmt.Fprintf(sh.out, "%s  %s  %s  %s\n", a.ID, name, a.Status, formatSkillMatch(skills))
		}
	}
	return nil
}

func formatSkillMatch(sm []match.SkillMatch) string {
	parts := make([]string, 0, len(sm))
	for _, m := range sm {
		mark := "-"
		if m.Has {
			mark = "+"
		}
		parts = append(parts, mark+m.Skill)
	}
	return strings.Join(parts, " ")
}

func (sh *Shell) printProjects(ps []models.Project) {
	if len(ps) == 0 {
		fmt.Fprintln(sh.out, "No projects found")
		return
	}
	for _, p := range ps {
		fmt.Fprintf(sh.out, "%s  %s  by %s\n", p.ID, p.Title, p.OwnerName)
		var meta []string
		if p.Location != "" {
			meta = append(meta, p.Location)
		}
		if p.Duration != "" {
			meta = append(meta, p.Duration)
		}
		meta = append(meta, fmt.Sprintf("%d applicants", len(p.ApplicantIDs)))
		fmt.Fprintf(sh.out, "    %s\n", strings.Join(meta, " | "))
		if len(p.RequiredSkills) > 0 {
			fmt.Fprintf(sh.out, "    skills: %s\n", strings.Join(p.RequiredSkills, ", "))
		}
	}
}
