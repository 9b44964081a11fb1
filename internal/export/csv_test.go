package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/models"
)

func TestStudentsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := Students(&buf, []models.Student{
		{ID: 1, StudentNumber: "S1001", Name: "Meyer, Alice", Email: "alice@example.edu", Role: "STUDENT"},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"id", "student_number", "name", "email", "role"}, records[0])
	// the comma in the name survives quoting
	assert.Equal(t, []string{"1", "S1001", "Meyer, Alice", "alice@example.edu", "STUDENT"}, records[1])
}

func TestRegistrationsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := Registrations(&buf, []models.Registration{
		{
			ID:               5,
			Student:          models.Student{StudentNumber: "S1001", Name: "Alice Meyer"},
			Course:           models.Course{Code: "CS101", Title: "Intro to Computing"},
			RegistrationDate: "2026-01-15",
		},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"5", "S1001", "Alice Meyer", "CS101", "Intro to Computing", "2026-01-15"}, records[1])
}

func TestEmptyTablesStillGetHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Courses(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"id", "code", "title", "credits", "instructor"}, records[0])

	buf.Reset()
	require.NoError(t, Results(&buf, nil))
	records, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "grade", records[0][4])
}
