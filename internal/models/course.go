package models

type Course struct {
	ID         int64  `db:"id" json:"id"`
	Title      string `db:"title" json:"title"`
	Code       string `db:"code" json:"code"`
	Credits    int    `db:"credits" json:"credits"`
	Instructor string `db:"instructor" json:"instructor"`
}

type CourseRequest struct {
	Title      string `json:"title" validate:"required,min=2"`
	Code       string `json:"code" validate:"required,course_code"`
	Credits    int    `json:"credits" validate:"required,min=1,max=6"`
	Instructor string `json:"instructor" validate:"required"`
}

func (r *CourseRequest) Validate() error {
	return validate.Struct(r)
}
