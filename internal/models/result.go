package models

// Result reads denormalized: the backend resolves the student and
// course into display fields. Edits have to map them back to ids.
type Result struct {
	ID            int64  `db:"id" json:"id"`
	StudentNumber string `db:"student_number" json:"studentNumber"`
	CourseCode    string `db:"course_code" json:"courseCode"`
	CourseName    string `db:"course_name" json:"courseName"`
	Grade         string `db:"grade" json:"grade"`
}

type ResultRequest struct {
	StudentID int64  `json:"studentId" validate:"required,gt=0"`
	CourseID  int64  `json:"courseId" validate:"required,gt=0"`
	Grade     string `json:"grade" validate:"required,grade"`
}

func (r *ResultRequest) Validate() error {
	return validate.Struct(r)
}
