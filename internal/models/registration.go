package models

// Registration embeds full student and course records on the way out;
// the write shape only carries their ids.
type Registration struct {
	ID               int64   `json:"id"`
	Student          Student `json:"student"`
	Course           Course  `json:"course"`
	RegistrationDate string  `json:"registrationDate"`
}

type RegistrationRequest struct {
	StudentID        int64  `json:"studentId" validate:"required,gt=0"`
	CourseID         int64  `json:"courseId" validate:"required,gt=0"`
	RegistrationDate string `json:"registrationDate" validate:"required,iso_date"`
}

func (r *RegistrationRequest) Validate() error {
	return validate.Struct(r)
}
