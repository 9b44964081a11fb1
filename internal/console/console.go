// Package console is the interactive admin surface: a line-based
// command loop over the API client, with the list views and forms
// doing the actual screen work.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/api"
	"github.com/shrimpsizemoose/semla/internal/views"
)

const helpText = `Available commands:
  login [username]       - Log in to the admin API
  logout                 - Revoke the session and forget credentials
  whoami                 - Show who is logged in
  dashboard              - Show the summary numbers
  students <op>          - list | filter <text> | add | edit <id> | delete <id>
  courses <op>           - list | filter <text> | add | edit <id> | delete <id>
  registrations <op>     - list | filter <text> | add | edit <id> | delete <id>
  results <op>           - list | filter <text> | add | edit <id> | delete <id>
  export <entity> <file> - Write an entity list to a CSV file
  help                   - Show this message
  exit                   - Leave the console`

type Console struct {
	client *api.Client
	in     *bufio.Reader
	out    io.Writer
	ctx    context.Context

	students      *views.StudentList
	courses       *views.CourseList
	registrations *views.RegistrationList
	results       *views.ResultList
	dashboard     *views.Dashboard
}

func New(config *Config, in io.Reader, out io.Writer) *Console {
	creds := &api.FileCredentialStore{Path: config.CredentialsFile}

	client := api.NewClient(api.Config{
		BaseURL: config.API.BaseURL,
		Timeout: config.APITimeout(),
	}, creds, func() {
		fmt.Fprintln(out, "Session expired, please login again")
	})

	return &Console{
		client: client,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

type commandFunc func(args []string) error

func (c *Console) route(cmd string) (commandFunc, bool) {
	commands := map[string]commandFunc{
		"login":         c.cmdLogin,
		"logout":        c.cmdLogout,
		"whoami":        c.cmdWhoami,
		"dashboard":     c.cmdDashboard,
		"students":      c.cmdStudents,
		"courses":       c.cmdCourses,
		"registrations": c.cmdRegistrations,
		"results":       c.cmdResults,
		"export":        c.cmdExport,
		"help":          c.cmdHelp,
	}
	handler, found := commands[cmd]
	return handler, found
}

// Run reads commands until exit or EOF.
func (c *Console) Run(ctx context.Context) error {
	c.ctx = ctx

	fmt.Fprintln(c.out, "semla admin console, type help for commands")
	if user := c.client.CurrentUser(); user != nil {
		fmt.Fprintf(c.out, "Logged in as %s\n", user.Username)
	}

	for {
		fmt.Fprint(c.out, "semla> ")

		line, err := c.in.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]
		if cmd == "exit" || cmd == "quit" {
			return nil
		}

		handler, ok := c.route(cmd)
		if !ok {
			fmt.Fprintf(c.out, "Unknown command %q, try help\n", cmd)
			continue
		}

		if err := handler(args); err != nil {
			logger.Error.Printf("Command error: %v", err)
			fmt.Fprintf(c.out, "ERROR: %v\n", err)
		}
	}
}

func (c *Console) cmdHelp(args []string) error {
	fmt.Fprintln(c.out, helpText)
	return nil
}

// prompt reads one line; empty input keeps the shown default.
func (c *Console) prompt(label, def string) string {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", label)
	}

	line, err := c.in.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func (c *Console) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", question)

	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("an id is required, run list to see them")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not an id", args[0])
	}
	return id, nil
}

func (c *Console) studentView() *views.StudentList {
	if c.students == nil {
		c.students = views.NewStudentList(c.client)
	}
	return c.students
}

func (c *Console) courseView() *views.CourseList {
	if c.courses == nil {
		c.courses = views.NewCourseList(c.client)
	}
	return c.courses
}

func (c *Console) registrationView() *views.RegistrationList {
	if c.registrations == nil {
		c.registrations = views.NewRegistrationList(c.client)
	}
	return c.registrations
}

func (c *Console) resultView() *views.ResultList {
	if c.results == nil {
		c.results = views.NewResultList(c.client)
	}
	return c.results
}

func (c *Console) dashboardView() *views.Dashboard {
	if c.dashboard == nil {
		c.dashboard = views.NewDashboard(c.client)
	}
	return c.dashboard
}
