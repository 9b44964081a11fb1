package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// StudentAPI is the slice of the API client the student list needs.
type StudentAPI interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type StudentList struct {
	api StudentAPI

	mu       sync.Mutex
	state    State
	err      error
	students []models.Student
	filter   string

	closed atomic.Bool
}

func NewStudentList(api StudentAPI) *StudentList {
	return &StudentList{api: api}
}

// Load fetches the list. A response that lands after Close is dropped,
// the screen it belonged to is already gone.
func (v *StudentList) Load(ctx context.Context) error {
	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	v.state = StateLoading
	v.mu.Unlock()

	students, err := v.api.ListStudents(ctx)

	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		logger.Error.Printf("Failed to load students: %v", err)
		v.state = StateFailed
		v.err = err
		return err
	}

	// records that arrive without a student number still need one on
	// screen
	for i := range students {
		if students[i].StudentNumber == "" {
			students[i].StudentNumber = models.NewStudentNumber()
		}
	}

	v.state = StateReady
	v.err = nil
	v.students = students
	return nil
}

func (v *StudentList) SetFilter(filter string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
}

func (v *StudentList) Filter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Visible returns the loaded students that match the current filter.
func (v *StudentList) Visible() []models.Student {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]models.Student, 0, len(v.students))
	for _, s := range v.students {
		if matches(v.filter, s.StudentNumber, s.Name, s.Email) {
			out = append(out, s)
		}
	}
	return out
}

// Delete removes the student server-side and reloads the list.
func (v *StudentList) Delete(ctx context.Context, id int64) error {
	if err := v.api.DeleteStudent(ctx, id); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *StudentList) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *StudentList) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *StudentList) Close() {
	v.closed.Store(true)
}
