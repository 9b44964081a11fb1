// Package forms turns raw screen input into validated API requests.
// Everything arrives as strings; Build does the trimming, parsing and
// validation in one pass and reports problems per field, keyed by the
// wire name.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/semla/internal/models"
)

type StudentForm struct {
	StudentNumber string
	Name          string
	Email         string
	Role          string
}

func StudentFormForEdit(student models.Student) *StudentForm {
	return &StudentForm{
		StudentNumber: student.StudentNumber,
		Name:          student.Name,
		Email:         student.Email,
		Role:          student.Role,
	}
}

// Build validates the form and produces the request to submit. A nil
// request comes with per-field messages instead.
func (f *StudentForm) Build() (*models.StudentRequest, map[string]string) {
	req := &models.StudentRequest{
		StudentNumber: strings.TrimSpace(f.StudentNumber),
		Name:          strings.TrimSpace(f.Name),
		Email:         strings.TrimSpace(f.Email),
		Role:          strings.TrimSpace(f.Role),
	}
	if req.StudentNumber == "" {
		req.StudentNumber = models.NewStudentNumber()
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}

	if err := req.Validate(); err != nil {
		return nil, validationMessages(err)
	}
	return req, nil
}

type CourseForm struct {
	Title      string
	Code       string
	Credits    string
	Instructor string
}

func CourseFormForEdit(course models.Course) *CourseForm {
	return &CourseForm{
		Title:      course.Title,
		Code:       course.Code,
		Credits:    strconv.Itoa(course.Credits),
		Instructor: course.Instructor,
	}
}

func (f *CourseForm) Build() (*models.CourseRequest, map[string]string) {
	fields := map[string]string{}

	credits, err := strconv.Atoi(strings.TrimSpace(f.Credits))
	if err != nil {
		fields["credits"] = "must be a whole number"
	}

	req := &models.CourseRequest{
		Title:      strings.TrimSpace(f.Title),
		Code:       strings.TrimSpace(f.Code),
		Credits:    credits,
		Instructor: strings.TrimSpace(f.Instructor),
	}

	if err := req.Validate(); err != nil {
		mergeMessages(fields, validationMessages(err))
	}
	if len(fields) > 0 {
		return nil, fields
	}
	return req, nil
}

// parseRef reads a selected option value. Anything that is not a
// positive integer means nothing usable was picked.
func parseRef(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func validationMessages(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = messageFor(fe)
		}
	}
	return fields
}

func mergeMessages(into, from map[string]string) {
	for field, msg := range from {
		if _, taken := into[field]; !taken {
			into[field] = msg
		}
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "course_code":
		return "must look like CS101: capital letters then digits"
	case "grade":
		return "must be a grade on the scale, like B+ or A-"
	case "iso_date":
		return "must be a date in YYYY-MM-DD form"
	case "gt":
		return "pick a value from the list"
	default:
		return "invalid value"
	}
}
