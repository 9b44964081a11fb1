package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/models"
)

func TestStudentFormDefaults(t *testing.T) {
	form := &StudentForm{
		Name:  "Alice Meyer",
		Email: "alice@example.edu",
	}

	req, fields := form.Build()
	require.Empty(t, fields)
	require.NotNil(t, req)

	assert.True(t, strings.HasPrefix(req.StudentNumber, "S"))
	assert.Greater(t, len(req.StudentNumber), 1)
	assert.Equal(t, models.RoleStudent, req.Role)
}

func TestStudentFormValidation(t *testing.T) {
	tests := []struct {
		name  string
		form  StudentForm
		field string
	}{
		{"short name", StudentForm{Name: "A", Email: "a@example.edu"}, "name"},
		{"bad email", StudentForm{Name: "Alice Meyer", Email: "not-an-email"}, "email"},
		{"missing email", StudentForm{Name: "Alice Meyer"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, fields := tt.form.Build()
			assert.Nil(t, req)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestStudentFormTrimsInput(t *testing.T) {
	form := &StudentForm{
		StudentNumber: "  S1001 ",
		Name:          " Alice Meyer ",
		Email:         " alice@example.edu ",
		Role:          " STUDENT ",
	}

	req, fields := form.Build()
	require.Empty(t, fields)
	assert.Equal(t, "S1001", req.StudentNumber)
	assert.Equal(t, "Alice Meyer", req.Name)
	assert.Equal(t, "alice@example.edu", req.Email)
}

func TestCourseFormCodeCase(t *testing.T) {
	form := &CourseForm{Title: "Intro to Computing", Code: "CS101", Credits: "5", Instructor: "Prof. Lindqvist"}
	req, fields := form.Build()
	require.Empty(t, fields)
	assert.Equal(t, "CS101", req.Code)
	assert.Equal(t, 5, req.Credits)

	// no silent upcasing: a lowercase code is the user's mistake to fix
	for _, bad := range []string{"cs101", "CS", "101"} {
		form.Code = bad
		req, fields = form.Build()
		assert.Nil(t, req, "code %q", bad)
		assert.Contains(t, fields, "code")
	}
}

func TestCourseFormCredits(t *testing.T) {
	tests := []struct {
		name    string
		credits string
		message string
	}{
		{"not a number", "many", "must be a whole number"},
		{"too high", "9", "must be at most 6"},
		{"zero", "0", "this field is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := &CourseForm{Title: "Intro", Code: "CS101", Credits: tt.credits, Instructor: "Prof. Lindqvist"}
			req, fields := form.Build()
			assert.Nil(t, req)
			assert.Equal(t, tt.message, fields["credits"])
		})
	}
}

func TestRegistrationFormTransformsSelections(t *testing.T) {
	form := &RegistrationForm{
		StudentID:        "3",
		CourseID:         "7",
		RegistrationDate: "2026-02-01",
	}

	req, fields := form.Build()
	require.Empty(t, fields)
	assert.Equal(t, int64(3), req.StudentID)
	assert.Equal(t, int64(7), req.CourseID)
	assert.Equal(t, "2026-02-01", req.RegistrationDate)
}

func TestRegistrationFormRejectsEmptySelections(t *testing.T) {
	form := &RegistrationForm{RegistrationDate: "2026-02-01"}

	req, fields := form.Build()
	assert.Nil(t, req)
	assert.Equal(t, "pick a student", fields["studentId"])
	assert.Equal(t, "pick a course", fields["courseId"])
}

func TestRegistrationFormRejectsBadDate(t *testing.T) {
	form := &RegistrationForm{StudentID: "1", CourseID: "2", RegistrationDate: "01/02/2026"}

	req, fields := form.Build()
	assert.Nil(t, req)
	assert.Contains(t, fields["registrationDate"], "YYYY-MM-DD")
}

func TestNewRegistrationFormDefaultsToToday(t *testing.T) {
	form := NewRegistrationForm()
	assert.Equal(t, DefaultRegistrationDate(), form.RegistrationDate)
	assert.True(t, models.ValidISODate(form.RegistrationDate))
}

func TestRegistrationFormForEdit(t *testing.T) {
	registration := models.Registration{
		ID:               5,
		Student:          models.Student{ID: 3, StudentNumber: "S1001"},
		Course:           models.Course{ID: 7, Code: "CS101"},
		RegistrationDate: "2026-01-15",
	}

	form := RegistrationFormForEdit(registration)
	assert.Equal(t, "3", form.StudentID)
	assert.Equal(t, "7", form.CourseID)
	assert.Equal(t, "2026-01-15", form.RegistrationDate)
}

func TestResultFormGrades(t *testing.T) {
	form := &ResultForm{StudentID: "1", CourseID: "2", Grade: "A-"}
	req, fields := form.Build()
	require.Empty(t, fields)
	assert.Equal(t, "A-", req.Grade)

	form.Grade = "E"
	req, fields = form.Build()
	assert.Nil(t, req)
	assert.Contains(t, fields, "grade")
}
