package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewSQLiteStore(":memory:", "../../migrations")
	require.NoError(t, err)

	config := &app.Config{}
	config.Server.AdminUsername = "admin"
	config.Server.AdminPassword = "hunter22"
	config.Server.AdminName = "Admin"
	config.Sessions.TokenTTL = "1h"
	config.Stats.RecentActivityLimit = 8

	service := &app.Service{
		Config:   config,
		Store:    st,
		Sessions: app.NewMemorySessions(time.Hour),
	}
	require.NoError(t, service.EnsureAdminAccount())

	root := chi.NewRouter()
	root.Mount("/api", New(service).Routes())

	server := httptest.NewServer(root)
	t.Cleanup(func() {
		server.Close()
		service.Close()
	})
	return server
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func login(t *testing.T, server *httptest.Server) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", models.LoginRequest{
		Username: "admin",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.LoginResponse
	decodeInto(t, resp, &out)
	return out.Token
}

func TestLoginFlow(t *testing.T) {
	server := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", models.LoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var errBody map[string]string
	decodeInto(t, resp, &errBody)
	assert.Equal(t, "invalid_credentials", errBody["error"])

	resp = doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", models.LoginRequest{
		Username: "admin",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out models.LoginResponse
	decodeInto(t, resp, &out)
	assert.Contains(t, out.Token, "sk-semla-")
	assert.Equal(t, "admin", out.User.Username)
	assert.Equal(t, models.RoleAdmin, out.User.Role)
}

func TestRequiresAuth(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"bogus token", "sk-semla-deadbeef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, server.URL+"/api/students", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			var errBody map[string]string
			decodeInto(t, resp, &errBody)
			assert.Equal(t, "invalid_token", errBody["error"])
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server := setupTestServer(t)
	token := login(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, server.URL+"/api/students", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestStudentLifecycle(t *testing.T) {
	server := setupTestServer(t)
	token := login(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/students", token, models.StudentRequest{
		StudentNumber: "S1001",
		Name:          "Alice Meyer",
		Email:         "alice@example.edu",
		Role:          models.RoleStudent,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Student
	decodeInto(t, resp, &created)
	assert.Greater(t, created.ID, int64(0))
	assert.Equal(t, "S1001", created.StudentNumber)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/students", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var students []models.Student
	decodeInto(t, resp, &students)
	require.Len(t, students, 1)
	assert.Equal(t, "Alice Meyer", students[0].Name)

	resp = doJSON(t, http.MethodPut, server.URL+"/api/students/"+itoa(created.ID), token, models.StudentRequest{
		StudentNumber: "S1001",
		Name:          "Alice M. Meyer",
		Email:         "alice@example.edu",
		Role:          models.RoleStudent,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Student
	decodeInto(t, resp, &updated)
	assert.Equal(t, "Alice M. Meyer", updated.Name)
	assert.Equal(t, created.ID, updated.ID)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/students/"+itoa(created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/students/"+itoa(created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errBody map[string]string
	decodeInto(t, resp, &errBody)
	assert.Equal(t, "not_found", errBody["error"])
}

func TestCourseValidation(t *testing.T) {
	server := setupTestServer(t)
	token := login(t, server)

	tests := []struct {
		name    string
		request models.CourseRequest
		field   string
	}{
		{
			"lowercase code",
			models.CourseRequest{Title: "Intro", Code: "cs101", Credits: 5, Instructor: "Prof. Lindqvist"},
			"code",
		},
		{
			"credits out of range",
			models.CourseRequest{Title: "Intro", Code: "CS101", Credits: 9, Instructor: "Prof. Lindqvist"},
			"credits",
		},
		{
			"missing instructor",
			models.CourseRequest{Title: "Intro", Code: "CS101", Credits: 5},
			"instructor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, server.URL+"/api/courses", token, tt.request)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errBody struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			decodeInto(t, resp, &errBody)
			assert.Equal(t, "validation_failed", errBody.Error)
			assert.Contains(t, errBody.Fields, tt.field)
		})
	}
}

func TestDuplicateCourseCode(t *testing.T) {
	server := setupTestServer(t)
	token := login(t, server)

	course := models.CourseRequest{Title: "Algorithms", Code: "CS301", Credits: 5, Instructor: "Prof. Tarjan"}

	resp := doJSON(t, http.MethodPost, server.URL+"/api/courses", token, course)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/courses", token, course)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody map[string]string
	decodeInto(t, resp, &errBody)
	assert.Equal(t, "duplicate", errBody["error"])
}

func TestRegistrationFlow(t *testing.T) {
	server := setupTestServer(t)
	token := login(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/registrations", token, models.RegistrationRequest{
		StudentID:        999,
		CourseID:         999,
		RegistrationDate: "2026-01-15",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody map[string]string
	decodeInto(t, resp, &errBody)
	assert.Equal(t, "invalid_reference", errBody["error"])

	student := createStudent(t, server, token, "S2001", "Bruno Okafor")
	course := createCourse(t, server, token, "MATH201", "Linear Algebra")

	resp = doJSON(t, http.MethodPost, server.URL+"/api/registrations", token, models.RegistrationRequest{
		StudentID:        student.ID,
		CourseID:         course.ID,
		RegistrationDate: "2026-01-15",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registration models.Registration
	decodeInto(t, resp, &registration)
	assert.Equal(t, "S2001", registration.Student.StudentNumber)
	assert.Equal(t, "MATH201", registration.Course.Code)
	assert.Equal(t, "2026-01-15", registration.RegistrationDate)
}

func TestResultFlow(t *testing.T) {
	server := setupTestServer(t)
	token := login(t, server)

	student := createStudent(t, server, token, "S3001", "Chiara Rossi")
	course := createCourse(t, server, token, "PHYS101", "Mechanics")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/results", token, models.ResultRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
		Grade:     "X",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/results", token, models.ResultRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
		Grade:     "A-",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var result models.Result
	decodeInto(t, resp, &result)
	assert.Equal(t, "S3001", result.StudentNumber)
	assert.Equal(t, "PHYS101", result.CourseCode)
	assert.Equal(t, "Mechanics", result.CourseName)
	assert.Equal(t, "A-", result.Grade)
}

func TestSummaryEndpoint(t *testing.T) {
	server := setupTestServer(t)
	token := login(t, server)

	student := createStudent(t, server, token, "S4001", "Dana Whitfield")
	course := createCourse(t, server, token, "CHEM110", "General Chemistry")

	for _, grade := range []string{"A", "B"} {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/results", token, models.ResultRequest{
			StudentID: student.ID,
			CourseID:  course.ID,
			Grade:     grade,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/api/stats/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary models.StatsSummary
	decodeInto(t, resp, &summary)
	assert.Equal(t, 1, summary.Students)
	assert.Equal(t, 1, summary.Courses)
	assert.Equal(t, 0, summary.Registrations)
	assert.Equal(t, 2, summary.Results)
	assert.InDelta(t, 3.5, summary.GradeAverage, 0.001)
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, summary.GradeDistribution)
	assert.NotEmpty(t, summary.RecentActivity)
}

func createStudent(t *testing.T, server *httptest.Server, token, number, name string) models.Student {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/students", token, models.StudentRequest{
		StudentNumber: number,
		Name:          name,
		Email:         "student@example.edu",
		Role:          models.RoleStudent,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var student models.Student
	decodeInto(t, resp, &student)
	return student
}

func createCourse(t *testing.T, server *httptest.Server, token, code, title string) models.Course {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/courses", token, models.CourseRequest{
		Title:      title,
		Code:       code,
		Credits:    5,
		Instructor: "Prof. Example",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var course models.Course
	decodeInto(t, resp, &course)
	return course
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
