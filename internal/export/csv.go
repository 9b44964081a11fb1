// Package export writes the admin lists out as CSV, one table per
// call. Spreadsheets are still how course admins hand data around.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shrimpsizemoose/semla/internal/models"
)

func Students(w io.Writer, students []models.Student) error {
	records := [][]string{{"id", "student_number", "name", "email", "role"}}
	for _, s := range students {
		records = append(records, []string{
			strconv.FormatInt(s.ID, 10),
			s.StudentNumber,
			s.Name,
			s.Email,
			s.Role,
		})
	}
	return writeAll(w, records)
}

func Courses(w io.Writer, courses []models.Course) error {
	records := [][]string{{"id", "code", "title", "credits", "instructor"}}
	for _, c := range courses {
		records = append(records, []string{
			strconv.FormatInt(c.ID, 10),
			c.Code,
			c.Title,
			strconv.Itoa(c.Credits),
			c.Instructor,
		})
	}
	return writeAll(w, records)
}

func Registrations(w io.Writer, registrations []models.Registration) error {
	records := [][]string{{"id", "student_number", "student_name", "course_code", "course_title", "registration_date"}}
	for _, r := range registrations {
		records = append(records, []string{
			strconv.FormatInt(r.ID, 10),
			r.Student.StudentNumber,
			r.Student.Name,
			r.Course.Code,
			r.Course.Title,
			r.RegistrationDate,
		})
	}
	return writeAll(w, records)
}

func Results(w io.Writer, results []models.Result) error {
	records := [][]string{{"id", "student_number", "course_code", "course_name", "grade"}}
	for _, r := range results {
		records = append(records, []string{
			strconv.FormatInt(r.ID, 10),
			r.StudentNumber,
			r.CourseCode,
			r.CourseName,
			r.Grade,
		})
	}
	return writeAll(w, records)
}

func writeAll(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
