package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/semla/internal/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

type Store interface {
	Close() error
	ApplyMigrations(dir string) error

	GetUserByUsername(username string) (*models.UserAccount, error)
	CreateUser(account *models.UserAccount) error

	ListStudents() ([]models.Student, error)
	GetStudent(id int64) (*models.Student, error)
	CreateStudent(student *models.Student) error
	UpdateStudent(student *models.Student) error
	DeleteStudent(id int64) error

	ListCourses() ([]models.Course, error)
	GetCourse(id int64) (*models.Course, error)
	CreateCourse(course *models.Course) error
	UpdateCourse(course *models.Course) error
	DeleteCourse(id int64) error

	ListRegistrations() ([]models.Registration, error)
	GetRegistration(id int64) (*models.Registration, error)
	CreateRegistration(studentID, courseID int64, date string) (int64, error)
	UpdateRegistration(id, studentID, courseID int64, date string) error
	DeleteRegistration(id int64) error

	ListResults() ([]models.Result, error)
	GetResult(id int64) (*models.Result, error)
	CreateResult(studentID, courseID int64, grade string) (int64, error)
	UpdateResult(id, studentID, courseID int64, grade string) error
	DeleteResult(id int64) error

	FetchEntityCounts() (*EntityCounts, error)
	FetchGradeDistribution() (map[string]int, error)
	InsertActivity(entry models.ActivityEntry) error
	FetchRecentActivity(limit int) ([]models.ActivityEntry, error)
}

// BaseStore provides common functionality for different DB implementations.
// The three hooks cover everything the dialects disagree on: placeholder
// syntax, returning ids from inserts, and recognizing constraint errors.
type BaseStore struct {
	DB         *sqlx.DB
	Converter  func(string) string
	InsertID   func(db *sqlx.DB, query string, args ...interface{}) (int64, error)
	Constraint func(error) ConstraintKind
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory in file name
// order, translating dialect if needed.
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

// constraintErr maps driver constraint failures onto the store's
// sentinel errors, leaving everything else untouched.
func (s *BaseStore) constraintErr(err error) error {
	if err == nil || s.Constraint == nil {
		return err
	}
	switch s.Constraint(err) {
	case ConstraintUnique:
		return ErrDuplicate
	case ConstraintForeignKey:
		return ErrInvalidReference
	}
	return err
}

func (s *BaseStore) GetUserByUsername(username string) (*models.UserAccount, error) {
	var account models.UserAccount
	query := s.Converter(`
		SELECT id, username, password_hash, name, role
		FROM users
		WHERE username = ?
	`)

	err := s.DB.Get(&account, query, username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &account, nil
}

func (s *BaseStore) CreateUser(account *models.UserAccount) error {
	id, err := s.InsertID(s.DB, s.Converter(`
		INSERT INTO users (username, password_hash, name, role)
		VALUES (?, ?, ?, ?)
	`), account.Username, account.PasswordHash, account.Name, account.Role)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", s.constraintErr(err))
	}
	account.ID = id
	return nil
}

func (s *BaseStore) ListStudents() ([]models.Student, error) {
	var students []models.Student
	err := s.DB.Select(&students, `
		SELECT id, student_number, name, email, role
		FROM students
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *BaseStore) GetStudent(id int64) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, student_number, name, email, role
		FROM students
		WHERE id = ?
	`)

	err := s.DB.Get(&student, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) CreateStudent(student *models.Student) error {
	id, err := s.InsertID(s.DB, s.Converter(`
		INSERT INTO students (student_number, name, email, role)
		VALUES (?, ?, ?, ?)
	`), student.StudentNumber, student.Name, student.Email, student.Role)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", s.constraintErr(err))
	}
	student.ID = id
	return nil
}

func (s *BaseStore) UpdateStudent(student *models.Student) error {
	query := s.Converter(`
		UPDATE students
		SET student_number = ?, name = ?, email = ?, role = ?
		WHERE id = ?
	`)

	res, err := s.DB.Exec(query, student.StudentNumber, student.Name, student.Email, student.Role, student.ID)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", s.constraintErr(err))
	}
	return rowsAffectedOrNotFound(res)
}

func (s *BaseStore) DeleteStudent(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM students WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

func (s *BaseStore) ListCourses() ([]models.Course, error) {
	var courses []models.Course
	err := s.DB.Select(&courses, `
		SELECT id, title, code, credits, instructor
		FROM courses
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *BaseStore) GetCourse(id int64) (*models.Course, error) {
	var course models.Course
	query := s.Converter(`
		SELECT id, title, code, credits, instructor
		FROM courses
		WHERE id = ?
	`)

	err := s.DB.Get(&course, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

func (s *BaseStore) CreateCourse(course *models.Course) error {
	id, err := s.InsertID(s.DB, s.Converter(`
		INSERT INTO courses (title, code, credits, instructor)
		VALUES (?, ?, ?, ?)
	`), course.Title, course.Code, course.Credits, course.Instructor)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", s.constraintErr(err))
	}
	course.ID = id
	return nil
}

func (s *BaseStore) UpdateCourse(course *models.Course) error {
	query := s.Converter(`
		UPDATE courses
		SET title = ?, code = ?, credits = ?, instructor = ?
		WHERE id = ?
	`)

	res, err := s.DB.Exec(query, course.Title, course.Code, course.Credits, course.Instructor, course.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", s.constraintErr(err))
	}
	return rowsAffectedOrNotFound(res)
}

func (s *BaseStore) DeleteCourse(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM courses WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

const registrationSelect = `
	SELECT
		r.id,
		r.registration_date,
		s.id AS student_id,
		s.student_number,
		s.name AS student_name,
		s.email AS student_email,
		s.role AS student_role,
		c.id AS course_id,
		c.title AS course_title,
		c.code AS course_code,
		c.credits AS course_credits,
		c.instructor AS course_instructor
	FROM registrations r
	JOIN students s ON s.id = r.student_id
	JOIN courses c ON c.id = r.course_id
`

func (s *BaseStore) ListRegistrations() ([]models.Registration, error) {
	var rows []RegistrationRow
	err := s.DB.Select(&rows, registrationSelect+`ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	out := make([]models.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.asRegistration())
	}
	return out, nil
}

func (s *BaseStore) GetRegistration(id int64) (*models.Registration, error) {
	var row RegistrationRow
	query := s.Converter(registrationSelect + `WHERE r.id = ?`)

	err := s.DB.Get(&row, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	registration := row.asRegistration()
	return &registration, nil
}

func (s *BaseStore) CreateRegistration(studentID, courseID int64, date string) (int64, error) {
	id, err := s.InsertID(s.DB, s.Converter(`
		INSERT INTO registrations (student_id, course_id, registration_date)
		VALUES (?, ?, ?)
	`), studentID, courseID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to create registration: %w", s.constraintErr(err))
	}
	return id, nil
}

func (s *BaseStore) UpdateRegistration(id, studentID, courseID int64, date string) error {
	query := s.Converter(`
		UPDATE registrations
		SET student_id = ?, course_id = ?, registration_date = ?
		WHERE id = ?
	`)

	res, err := s.DB.Exec(query, studentID, courseID, date, id)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", s.constraintErr(err))
	}
	return rowsAffectedOrNotFound(res)
}

func (s *BaseStore) DeleteRegistration(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM registrations WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

const resultSelect = `
	SELECT
		r.id,
		s.student_number,
		c.code AS course_code,
		c.title AS course_name,
		r.grade
	FROM results r
	JOIN students s ON s.id = r.student_id
	JOIN courses c ON c.id = r.course_id
`

func (s *BaseStore) ListResults() ([]models.Result, error) {
	var results []models.Result
	err := s.DB.Select(&results, resultSelect+`ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (s *BaseStore) GetResult(id int64) (*models.Result, error) {
	var result models.Result
	query := s.Converter(resultSelect + `WHERE r.id = ?`)

	err := s.DB.Get(&result, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return &result, nil
}

func (s *BaseStore) CreateResult(studentID, courseID int64, grade string) (int64, error) {
	id, err := s.InsertID(s.DB, s.Converter(`
		INSERT INTO results (student_id, course_id, grade)
		VALUES (?, ?, ?)
	`), studentID, courseID, grade)
	if err != nil {
		return 0, fmt.Errorf("failed to create result: %w", s.constraintErr(err))
	}
	return id, nil
}

func (s *BaseStore) UpdateResult(id, studentID, courseID int64, grade string) error {
	query := s.Converter(`
		UPDATE results
		SET student_id = ?, course_id = ?, grade = ?
		WHERE id = ?
	`)

	res, err := s.DB.Exec(query, studentID, courseID, grade, id)
	if err != nil {
		return fmt.Errorf("failed to update result: %w", s.constraintErr(err))
	}
	return rowsAffectedOrNotFound(res)
}

func (s *BaseStore) DeleteResult(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM results WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

func (s *BaseStore) FetchEntityCounts() (*EntityCounts, error) {
	var counts EntityCounts
	err := s.DB.Get(&counts, `
		SELECT
			(SELECT COUNT(*) FROM students) AS students,
			(SELECT COUNT(*) FROM courses) AS courses,
			(SELECT COUNT(*) FROM registrations) AS registrations,
			(SELECT COUNT(*) FROM results) AS results
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity counts: %w", err)
	}
	return &counts, nil
}

func (s *BaseStore) FetchGradeDistribution() (map[string]int, error) {
	var rows []GradeCount
	err := s.DB.Select(&rows, `
		SELECT grade, COUNT(*) AS count
		FROM results
		GROUP BY grade
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grade distribution: %w", err)
	}

	dist := make(map[string]int, len(rows))
	for _, row := range rows {
		dist[row.Grade] = row.Count
	}
	return dist, nil
}

func (s *BaseStore) InsertActivity(entry models.ActivityEntry) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO activity_log (entity, action, label, created_at)
		VALUES (:entity, :action, :label, :created_at)
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (s *BaseStore) FetchRecentActivity(limit int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	query := s.Converter(`
		SELECT entity, action, label, created_at
		FROM activity_log
		ORDER BY id DESC
		LIMIT ?
	`)

	err := s.DB.Select(&entries, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent activity: %w", err)
	}
	return entries, nil
}

func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
