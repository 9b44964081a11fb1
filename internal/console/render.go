package console

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/shrimpsizemoose/semla/internal/grading"
	"github.com/shrimpsizemoose/semla/internal/models"
)

func (c *Console) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

func (c *Console) renderStudents(students []models.Student) {
	if len(students) == 0 {
		fmt.Fprintln(c.out, "No students to show")
		return
	}

	w := c.table()
	fmt.Fprintln(w, "ID\tNUMBER\tNAME\tEMAIL\tROLE")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.StudentNumber, s.Name, s.Email, s.Role)
	}
	w.Flush()
}

func (c *Console) renderCourses(courses []models.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(c.out, "No courses to show")
		return
	}

	w := c.table()
	fmt.Fprintln(w, "ID\tCODE\tTITLE\tCREDITS\tINSTRUCTOR")
	for _, course := range courses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", course.ID, course.Code, course.Title, course.Credits, course.Instructor)
	}
	w.Flush()
}

func (c *Console) renderRegistrations(registrations []models.Registration) {
	if len(registrations) == 0 {
		fmt.Fprintln(c.out, "No registrations to show")
		return
	}

	w := c.table()
	fmt.Fprintln(w, "ID\tSTUDENT\tNAME\tCOURSE\tTITLE\tDATE")
	for _, r := range registrations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Student.StudentNumber, r.Student.Name, r.Course.Code, r.Course.Title, r.RegistrationDate)
	}
	w.Flush()
}

func (c *Console) renderResults(results []models.Result) {
	if len(results) == 0 {
		fmt.Fprintln(c.out, "No results to show")
		return
	}

	w := c.table()
	fmt.Fprintln(w, "ID\tSTUDENT\tCOURSE\tTITLE\tGRADE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.StudentNumber, r.CourseCode, r.CourseName, r.Grade)
	}
	w.Flush()
}

func (c *Console) renderSummary(summary *models.StatsSummary) {
	if summary == nil {
		fmt.Fprintln(c.out, "No summary loaded")
		return
	}

	w := c.table()
	fmt.Fprintln(w, "Students\tCourses\tRegistrations\tResults\tGPA")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.2f\n",
		summary.Students, summary.Courses, summary.Registrations, summary.Results, summary.GradeAverage)
	w.Flush()

	if len(summary.GradeDistribution) > 0 {
		fmt.Fprint(c.out, "Grades:")
		// scale order, then anything historical the scale no longer has
		seen := map[string]bool{}
		for _, grade := range grading.Scale() {
			if count := summary.GradeDistribution[grade]; count > 0 {
				fmt.Fprintf(c.out, " %s=%d", grade, count)
				seen[grade] = true
			}
		}
		var rest []string
		for grade := range summary.GradeDistribution {
			if !seen[grade] {
				rest = append(rest, grade)
			}
		}
		sort.Strings(rest)
		for _, grade := range rest {
			fmt.Fprintf(c.out, " %s=%d", grade, summary.GradeDistribution[grade])
		}
		fmt.Fprintln(c.out)
	}

	if len(summary.RecentActivity) > 0 {
		fmt.Fprintln(c.out, "Recent:")
		for _, entry := range summary.RecentActivity {
			when := time.Unix(entry.CreatedAt, 0).Format("2006-01-02 15:04")
			fmt.Fprintf(c.out, "  %s %s %s (%s)\n", entry.Entity, entry.Action, entry.Label, when)
		}
	}
}

func (c *Console) renderFieldErrors(fields map[string]string) {
	fmt.Fprintln(c.out, "Please fix:")

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(c.out, "  %s: %s\n", name, fields[name])
	}
}

func (c *Console) renderStudentOptions(students []models.Student) {
	fmt.Fprintln(c.out, "Students:")
	for _, s := range students {
		fmt.Fprintf(c.out, "  %d: %s %s\n", s.ID, s.StudentNumber, s.Name)
	}
}

func (c *Console) renderCourseOptions(courses []models.Course) {
	fmt.Fprintln(c.out, "Courses:")
	for _, course := range courses {
		fmt.Fprintf(c.out, "  %d: %s %s\n", course.ID, course.Code, course.Title)
	}
}
