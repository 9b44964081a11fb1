package models

import (
	"fmt"
	"time"
)

type Student struct {
	ID            int64  `db:"id" json:"id"`
	StudentNumber string `db:"student_number" json:"studentNumber"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	Role          string `db:"role" json:"role"`
}

type StudentRequest struct {
	StudentNumber string `json:"studentNumber" validate:"required"`
	Name          string `json:"name" validate:"required,min=2"`
	Email         string `json:"email" validate:"required,email"`
	Role          string `json:"role" validate:"required"`
}

func (r *StudentRequest) Validate() error {
	return validate.Struct(r)
}

// NewStudentNumber mints a fallback student number for records that
// arrive without one. Millisecond timestamps keep it unique enough
// for a single admin session.
func NewStudentNumber() string {
	return fmt.Sprintf("S%d", time.Now().UnixMilli())
}
