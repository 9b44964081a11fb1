package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/semla/internal/models"
)

var (
	ErrStudentUnresolved = errors.New("student for this result no longer exists")
	ErrCourseUnresolved  = errors.New("course for this result no longer exists")
)

// DefaultRegistrationDate is today in wire form.
func DefaultRegistrationDate() string {
	return time.Now().Format("2006-01-02")
}

type RegistrationForm struct {
	StudentID        string
	CourseID         string
	RegistrationDate string
}

func NewRegistrationForm() *RegistrationForm {
	return &RegistrationForm{RegistrationDate: DefaultRegistrationDate()}
}

// RegistrationFormForEdit prefills from the joined record; the ids are
// right there in the embedded student and course.
func RegistrationFormForEdit(registration models.Registration) *RegistrationForm {
	return &RegistrationForm{
		StudentID:        strconv.FormatInt(registration.Student.ID, 10),
		CourseID:         strconv.FormatInt(registration.Course.ID, 10),
		RegistrationDate: registration.RegistrationDate,
	}
}

func (f *RegistrationForm) Build() (*models.RegistrationRequest, map[string]string) {
	fields := map[string]string{}

	studentID := parseRef(f.StudentID)
	if studentID <= 0 {
		fields["studentId"] = "pick a student"
	}
	courseID := parseRef(f.CourseID)
	if courseID <= 0 {
		fields["courseId"] = "pick a course"
	}

	req := &models.RegistrationRequest{
		StudentID:        studentID,
		CourseID:         courseID,
		RegistrationDate: strings.TrimSpace(f.RegistrationDate),
	}

	if err := req.Validate(); err != nil {
		mergeMessages(fields, validationMessages(err))
	}
	if len(fields) > 0 {
		return nil, fields
	}
	return req, nil
}

type ResultForm struct {
	StudentID string
	CourseID  string
	Grade     string
}

// ResultFormForEdit maps a denormalized result row back onto ids. The
// row only shows student number and course code, so both have to
// resolve against the current options; a dangling reference is an
// explicit error rather than a silently empty selection.
func ResultFormForEdit(result models.Result, options *Options) (*ResultForm, error) {
	student, ok := options.StudentByNumber(result.StudentNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentUnresolved, result.StudentNumber)
	}

	course, ok := options.CourseByCode(result.CourseCode)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCourseUnresolved, result.CourseCode)
	}

	return &ResultForm{
		StudentID: strconv.FormatInt(student.ID, 10),
		CourseID:  strconv.FormatInt(course.ID, 10),
		Grade:     result.Grade,
	}, nil
}

func (f *ResultForm) Build() (*models.ResultRequest, map[string]string) {
	fields := map[string]string{}

	studentID := parseRef(f.StudentID)
	if studentID <= 0 {
		fields["studentId"] = "pick a student"
	}
	courseID := parseRef(f.CourseID)
	if courseID <= 0 {
		fields["courseId"] = "pick a course"
	}

	req := &models.ResultRequest{
		StudentID: studentID,
		CourseID:  courseID,
		Grade:     strings.TrimSpace(f.Grade),
	}

	if err := req.Validate(); err != nil {
		mergeMessages(fields, validationMessages(err))
	}
	if len(fields) > 0 {
		return nil, fields
	}
	return req, nil
}
