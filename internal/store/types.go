package store

import "github.com/shrimpsizemoose/semla/internal/models"

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintUnique
	ConstraintForeignKey
)

// RegistrationRow is the flat scan target for the registrations join.
type RegistrationRow struct {
	ID               int64  `db:"id"`
	RegistrationDate string `db:"registration_date"`
	StudentID        int64  `db:"student_id"`
	StudentNumber    string `db:"student_number"`
	StudentName      string `db:"student_name"`
	StudentEmail     string `db:"student_email"`
	StudentRole      string `db:"student_role"`
	CourseID         int64  `db:"course_id"`
	CourseTitle      string `db:"course_title"`
	CourseCode       string `db:"course_code"`
	CourseCredits    int    `db:"course_credits"`
	CourseInstructor string `db:"course_instructor"`
}

func (r RegistrationRow) asRegistration() models.Registration {
	return models.Registration{
		ID:               r.ID,
		RegistrationDate: r.RegistrationDate,
		Student: models.Student{
			ID:            r.StudentID,
			StudentNumber: r.StudentNumber,
			Name:          r.StudentName,
			Email:         r.StudentEmail,
			Role:          r.StudentRole,
		},
		Course: models.Course{
			ID:         r.CourseID,
			Title:      r.CourseTitle,
			Code:       r.CourseCode,
			Credits:    r.CourseCredits,
			Instructor: r.CourseInstructor,
		},
	}
}

type EntityCounts struct {
	Students      int `db:"students"`
	Courses       int `db:"courses"`
	Registrations int `db:"registrations"`
	Results       int `db:"results"`
}

type GradeCount struct {
	Grade string `db:"grade"`
	Count int    `db:"count"`
}
