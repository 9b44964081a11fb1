package console

import (
	"fmt"
	"os"
	"strings"

	"github.com/shrimpsizemoose/semla/internal/api"
	"github.com/shrimpsizemoose/semla/internal/export"
	"github.com/shrimpsizemoose/semla/internal/forms"
	"github.com/shrimpsizemoose/semla/internal/grading"
	"github.com/shrimpsizemoose/semla/internal/models"
)

func (c *Console) cmdLogin(args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		username = c.prompt("Username", "")
	}
	password := c.prompt("Password", "")

	user, err := c.client.Login(c.ctx, username, password)
	if api.IsUnauthorized(err) {
		fmt.Fprintln(c.out, "Invalid username or password")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "OK: logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func (c *Console) cmdLogout(args []string) error {
	if err := c.client.Logout(c.ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "OK: logged out")
	return nil
}

func (c *Console) cmdWhoami(args []string) error {
	user := c.client.CurrentUser()
	if user == nil {
		fmt.Fprintln(c.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(c.out, "%s (%s), role %s\n", user.Username, user.Name, user.Role)
	return nil
}

func (c *Console) cmdDashboard(args []string) error {
	view := c.dashboardView()
	if err := view.Load(c.ctx); err != nil {
		return err
	}
	c.renderSummary(view.Summary())
	return nil
}

func (c *Console) cmdStudents(args []string) error {
	view := c.studentView()
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		view.SetFilter("")
		if err := view.Load(c.ctx); err != nil {
			return err
		}
		c.renderStudents(view.Visible())
		return nil

	case "filter":
		if err := view.Load(c.ctx); err != nil {
			return err
		}
		view.SetFilter(strings.Join(args[1:], " "))
		c.renderStudents(view.Visible())
		return nil

	case "add":
		return c.studentAdd()

	case "edit":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		return c.studentEdit(id)

	case "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if !c.confirm(fmt.Sprintf("Delete student %d?", id)) {
			fmt.Fprintln(c.out, "Cancelled")
			return nil
		}
		if err := view.Delete(c.ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "OK: deleted student %d\n", id)
		c.renderStudents(view.Visible())
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q, try: list, filter, add, edit, delete", args[0])
	}
}

func (c *Console) studentAdd() error {
	form := &forms.StudentForm{}
	form.StudentNumber = c.prompt("Student number (empty to auto-generate)", "")
	form.Name = c.prompt("Name", "")
	form.Email = c.prompt("Email", "")
	form.Role = c.prompt("Role", models.RoleStudent)

	req, fields := form.Build()
	if req == nil {
		c.renderFieldErrors(fields)
		return nil
	}

	student, err := c.client.CreateStudent(c.ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "OK: created student %s (id %d)\n", student.StudentNumber, student.ID)
	return nil
}

func (c *Console) studentEdit(id int64) error {
	view := c.studentView()
	view.SetFilter("")
	if err := view.Load(c.ctx); err != nil {
		return err
	}

	var current *models.Student
	visible := view.Visible()
	for i := range visible {
		if visible[i].ID == id {
			current = &visible[i]
		}
	}
	if current == nil {
		return fmt.Errorf("no student with id %d", id)
	}

	form := forms.StudentFormForEdit(*current)
	form.StudentNumber = c.prompt("Student number", form.StudentNumber)
	form.Name = c.prompt("Name", form.Name)
	form.Email = c.prompt("Email", form.Email)
	form.Role = c.prompt("Role", form.Role)

	req, fields := form.Build()
	if req == nil {
		c.renderFieldErrors(fields)
		return nil
	}

	student, err := c.client.UpdateStudent(c.ctx, id, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "OK: updated student %s\n", student.StudentNumber)
	return nil
}

func (c *Console) cmdCourses(args []string) error {
	view := c.courseView()
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		view.SetFilter("")
		if err := view.Load(c.ctx); err != nil {
			return err
		}
		c.renderCourses(view.Visible())
		return nil

	case "filter":
		if err := view.Load(c.ctx); err != nil {
			return err
		}
		view.SetFilter(strings.Join(args[1:], " "))
		c.renderCourses(view.Visible())
		return nil

	case "add":
		return c.courseAdd()

	case "edit":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		return c.courseEdit(id)

	case "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if !c.confirm(fmt.Sprintf("Delete course %d? Registrations and results go with it", id)) {
			fmt.Fprintln(c.out, "Cancelled")
			return nil
		}
		if err := view.Delete(c.ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "OK: deleted course %d\n", id)
		c.renderCourses(view.Visible())
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q, try: list, filter, add, edit, delete", args[0])
	}
}

func (c *Console) courseAdd() error {
	form := &forms.CourseForm{}
	form.Title = c.prompt("Title", "")
	form.Code = c.prompt("Code (like CS101)", "")
	form.Credits = c.prompt("Credits (1-6)", "")
	form.Instructor = c.prompt("Instructor", "")

	req, fields := form.Build()
	if req == nil {
		c.renderFieldErrors(fields)
		return nil
	}

	course, err := c.client.CreateCourse(c.ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "OK: created course %s (id %d)\n", course.Code, course.ID)
	return nil
}

func (c *Console) courseEdit(id int64) error {
	view := c.courseView()
	view.SetFilter("")
	if err := view.Load(c.ctx); err != nil {
		return err
	}

	var current *models.Course
	visible := view.Visible()
	for i := range visible {
		if visible[i].ID == id {
			current = &visible[i]
		}
	}
	if current == nil {
		return fmt.Errorf("no course with id %d", id)
	}

	form := forms.CourseFormForEdit(*current)
	form.Title = c.prompt("Title", form.Title)
	form.Code = c.prompt("Code", form.Code)
	form.Credits = c.prompt("Credits", form.Credits)
	form.Instructor = c.prompt("Instructor", form.Instructor)

	req, fields := form.Build()
	if req == nil {
		c.renderFieldErrors(fields)
		return nil
	}

	course, err := c.client.UpdateCourse(c.ctx, id, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "OK: updated course %s\n", course.Code)
	return nil
}

func (c *Console) cmdRegistrations(args []string) error {
	view := c.registrationView()
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		view.SetFilter("")
		if err := view.Load(c.ctx); err != nil {
			return err
		}
		c.renderRegistrations(view.Visible())
		return nil

	case "filter":
		if err := view.Load(c.ctx); err != nil {
			return err
		}
		view.SetFilter(strings.Join(args[1:], " "))
		c.renderRegistrations(view.Visible())
		return nil

	case "add":
		return c.registrationAdd()

	case "edit":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		return c.registrationEdit(id)

	case "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if !c.confirm(fmt.Sprintf("Delete registration %d?", id)) {
			fmt.Fprintln(c.out, "Cancelled")
			return nil
		}
		if err := view.Delete(c.ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "OK: deleted registration %d\n", id)
		c.renderRegistrations(view.Visible())
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q, try: list, filter, add, edit, delete", args[0])
	}
}

func (c *Console) registrationAdd() error {
	options, err := forms.LoadOptions(c.ctx, c.client)
	if err != nil {
		return err
	}
	if len(options.Students) == 0 || len(options.Courses) == 0 {
		return fmt.Errorf("need at least one student and one course first")
	}

	c.renderStudentOptions(options.Students)
	c.renderCourseOptions(options.Courses)

	form := forms.NewRegistrationForm()
	form.StudentID = c.prompt("Student id", "")
	form.CourseID = c.prompt("Course id", "")
	form.RegistrationDate = c.prompt("Registration date", form.RegistrationDate)

	req, fields := form.Build()
	if req == nil {
		c.renderFieldErrors(fields)
		return nil
	}

	registration, err := c.client.CreateRegistration(c.ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "OK: registered %s for %s\n",
		registration.Student.StudentNumber, registration.Course.Code)
	return nil
}

func (c *Console) registrationEdit(id int64) error {
	view := c.registrationView()
	view.SetFilter("")
	if err := view.Load(c.ctx); err != nil {
		return err
	}

	var current *models.Registration
	visible := view.Visible()
	for i := range visible {
		if visible[i].ID == id {
			current = &visible[i]
		}
	}
	if current == nil {
		return fmt.Errorf("no registration with id %d", id)
	}

	options, err := forms.LoadOptions(c.ctx, c.client)
	if err != nil {
		return err
	}
	c.renderStudentOptions(options.Students)
	c.renderCourseOptions(options.Courses)

	form := forms.RegistrationFormForEdit(*current)
	form.StudentID = c.prompt("Student id", form.StudentID)
	form.CourseID = c.prompt("Course id", form.CourseID)
	form.RegistrationDate = c.prompt("Registration date", form.RegistrationDate)

	req, fields := form.Build()
	if req == nil {
		c.renderFieldErrors(fields)
		return nil
	}

	registration, err := c.client.UpdateRegistration(c.ctx, id, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "OK: updated registration %d (%s in %s)\n",
		registration.ID, registration.Student.StudentNumber, registration.Course.Code)
	return nil
}

func (c *Console) cmdResults(args []string) error {
	view := c.resultView()
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		view.SetFilter("")
		if err := view.Load(c.ctx); err != nil {
			return err
		}
		c.renderResults(view.Visible())
		return nil

	case "filter":
		if err := view.Load(c.ctx); err != nil {
			return err
		}
		view.SetFilter(strings.Join(args[1:], " "))
		c.renderResults(view.Visible())
		return nil

	case "add":
		return c.resultAdd()

	case "edit":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		return c.resultEdit(id)

	case "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if !c.confirm(fmt.Sprintf("Delete result %d?", id)) {
			fmt.Fprintln(c.out, "Cancelled")
			return nil
		}
		if err := view.Delete(c.ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "OK: deleted result %d\n", id)
		c.renderResults(view.Visible())
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q, try: list, filter, add, edit, delete", args[0])
	}
}

func (c *Console) resultAdd() error {
	options, err := forms.LoadOptions(c.ctx, c.client)
	if err != nil {
		return err
	}
	if len(options.Students) == 0 || len(options.Courses) == 0 {
		return fmt.Errorf("need at least one student and one course first")
	}

	c.renderStudentOptions(options.Students)
	c.renderCourseOptions(options.Courses)

	form := &forms.ResultForm{}
	form.StudentID = c.prompt("Student id", "")
	form.CourseID = c.prompt("Course id", "")
	form.Grade = c.prompt("Grade ("+strings.Join(grading.Scale(), " ")+")", "")

	req, fields := form.Build()
	if req == nil {
		c.renderFieldErrors(fields)
		return nil
	}

	result, err := c.client.CreateResult(c.ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "OK: recorded %s for %s in %s\n",
		result.Grade, result.StudentNumber, result.CourseCode)
	return nil
}

// resultEdit has to map the display row back onto ids before the form
// can be shown, and refuses when the underlying records are gone.
func (c *Console) resultEdit(id int64) error {
	view := c.resultView()
	view.SetFilter("")
	if err := view.Load(c.ctx); err != nil {
		return err
	}

	var current *models.Result
	visible := view.Visible()
	for i := range visible {
		if visible[i].ID == id {
			current = &visible[i]
		}
	}
	if current == nil {
		return fmt.Errorf("no result with id %d", id)
	}

	options, err := forms.LoadOptions(c.ctx, c.client)
	if err != nil {
		return err
	}

	form, err := forms.ResultFormForEdit(*current, options)
	if err != nil {
		return err
	}

	c.renderStudentOptions(options.Students)
	c.renderCourseOptions(options.Courses)

	form.StudentID = c.prompt("Student id", form.StudentID)
	form.CourseID = c.prompt("Course id", form.CourseID)
	form.Grade = c.prompt("Grade ("+strings.Join(grading.Scale(), " ")+")", form.Grade)

	req, fields := form.Build()
	if req == nil {
		c.renderFieldErrors(fields)
		return nil
	}

	result, err := c.client.UpdateResult(c.ctx, id, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "OK: updated result for %s in %s\n",
		result.StudentNumber, result.CourseCode)
	return nil
}

func (c *Console) cmdExport(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: export <students|courses|registrations|results> <file>")
	}
	entity, path := args[0], args[1]

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	var count int
	switch entity {
	case "students":
		students, err := c.client.ListStudents(c.ctx)
		if err != nil {
			return err
		}
		if err := export.Students(file, students); err != nil {
			return err
		}
		count = len(students)

	case "courses":
		courses, err := c.client.ListCourses(c.ctx)
		if err != nil {
			return err
		}
		if err := export.Courses(file, courses); err != nil {
			return err
		}
		count = len(courses)

	case "registrations":
		registrations, err := c.client.ListRegistrations(c.ctx)
		if err != nil {
			return err
		}
		if err := export.Registrations(file, registrations); err != nil {
			return err
		}
		count = len(registrations)

	case "results":
		results, err := c.client.ListResults(c.ctx)
		if err != nil {
			return err
		}
		if err := export.Results(file, results); err != nil {
			return err
		}
		count = len(results)

	default:
		return fmt.Errorf("unknown export target %q", entity)
	}

	fmt.Fprintf(c.out, "OK: wrote %d %s to %s\n", count, entity, path)
	return nil
}
