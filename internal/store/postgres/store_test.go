package postgres

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

// setupTestDB starts a disposable Postgres container and applies the
// real migrations against it.
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn, "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		container.Terminate(ctx)
	}

	return s, cleanup
}

type testData struct {
	store    *PostgresStore
	students []models.Student
	courses  []models.Course
}

func setupTestData(t *testing.T) (*testData, func()) {
	s, cleanup := setupTestDB(t)

	students := []models.Student{
		{StudentNumber: "S1001", Name: "Alice Meyer", Email: "alice@uni.example", Role: models.RoleStudent},
		{StudentNumber: "S1002", Name: "Bruno Okafor", Email: "bruno@uni.example", Role: models.RoleStudent},
	}
	for i := range students {
		require.NoError(t, s.CreateStudent(&students[i]), "Failed to seed student")
	}

	courses := []models.Course{
		{Title: "Intro to Computer Science", Code: "CS101", Credits: 3, Instructor: "Dr. Webb"},
		{Title: "Linear Algebra", Code: "MATH201", Credits: 4, Instructor: "Dr. Chen"},
	}
	for i := range courses {
		require.NoError(t, s.CreateCourse(&courses[i]), "Failed to seed course")
	}

	return &testData{store: s, students: students, courses: courses}, cleanup
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping Postgres integration tests. Use -short=false to run them.")
		os.Exit(0)
	}
	log.Println("Starting Postgres store tests...")
	code := m.Run()
	log.Println("Finished Postgres store tests")
	os.Exit(code)
}

func TestStudentAndCourseCRUD(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	t.Run("insert returning assigns ids", func(t *testing.T) {
		assert.Greater(t, td.students[0].ID, int64(0))
		assert.Greater(t, td.courses[0].ID, int64(0))
	})

	t.Run("get student", func(t *testing.T) {
		got, err := td.store.GetStudent(td.students[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "S1001", got.StudentNumber)
		assert.Equal(t, "Alice Meyer", got.Name)
	})

	t.Run("update course", func(t *testing.T) {
		changed := td.courses[0]
		changed.Credits = 4
		require.NoError(t, td.store.UpdateCourse(&changed))

		got, err := td.store.GetCourse(changed.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Credits)
	})

	t.Run("duplicate course code", func(t *testing.T) {
		dup := models.Course{Title: "CS again", Code: "CS101", Credits: 3, Instructor: "Dr. Webb"}
		err := td.store.CreateCourse(&dup)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("delete student twice", func(t *testing.T) {
		require.NoError(t, td.store.DeleteStudent(td.students[1].ID))
		err := td.store.DeleteStudent(td.students[1].ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRelationOperations(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	regID, err := td.store.CreateRegistration(td.students[0].ID, td.courses[0].ID, "2025-09-01")
	require.NoError(t, err)

	resultID, err := td.store.CreateResult(td.students[0].ID, td.courses[0].ID, "A-")
	require.NoError(t, err)

	t.Run("registration read joins", func(t *testing.T) {
		got, err := td.store.GetRegistration(regID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Meyer", got.Student.Name)
		assert.Equal(t, "CS101", got.Course.Code)
	})

	t.Run("result read is denormalized", func(t *testing.T) {
		got, err := td.store.GetResult(resultID)
		require.NoError(t, err)
		assert.Equal(t, "S1001", got.StudentNumber)
		assert.Equal(t, "CS101", got.CourseCode)
		assert.Equal(t, "Intro to Computer Science", got.CourseName)
	})

	t.Run("unknown course reference", func(t *testing.T) {
		_, err := td.store.CreateResult(td.students[0].ID, 9999, "B")
		assert.ErrorIs(t, err, store.ErrInvalidReference)
	})

	t.Run("deleting student cascades", func(t *testing.T) {
		require.NoError(t, td.store.DeleteStudent(td.students[0].ID))

		regs, err := td.store.ListRegistrations()
		require.NoError(t, err)
		assert.Empty(t, regs)

		results, err := td.store.ListResults()
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSummaryQueries(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	for _, grade := range []string{"A", "B+", "B+"} {
		_, err := td.store.CreateResult(td.students[0].ID, td.courses[0].ID, grade)
		require.NoError(t, err)
	}

	counts, err := td.store.FetchEntityCounts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Students)
	assert.Equal(t, 3, counts.Results)

	dist, err := td.store.FetchGradeDistribution()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 1, "B+": 2}, dist)
}
