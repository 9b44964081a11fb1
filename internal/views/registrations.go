package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

type RegistrationAPI interface {
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
	DeleteRegistration(ctx context.Context, id int64) error
}

type RegistrationList struct {
	api RegistrationAPI

	mu            sync.Mutex
	state         State
	err           error
	registrations []models.Registration
	filter        string

	closed atomic.Bool
}

func NewRegistrationList(api RegistrationAPI) *RegistrationList {
	return &RegistrationList{api: api}
}

func (v *RegistrationList) Load(ctx context.Context) error {
	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	v.state = StateLoading
	v.mu.Unlock()

	registrations, err := v.api.ListRegistrations(ctx)

	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		logger.Error.Printf("Failed to load registrations: %v", err)
		v.state = StateFailed
		v.err = err
		return err
	}

	v.state = StateReady
	v.err = nil
	v.registrations = registrations
	return nil
}

func (v *RegistrationList) SetFilter(filter string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
}

// Visible matches against the joined student and course fields, since
// that is what the screen shows.
func (v *RegistrationList) Visible() []models.Registration {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]models.Registration, 0, len(v.registrations))
	for _, r := range v.registrations {
		if matches(v.filter, r.Student.StudentNumber, r.Student.Name, r.Course.Code, r.Course.Title, r.RegistrationDate) {
			out = append(out, r)
		}
	}
	return out
}

func (v *RegistrationList) Delete(ctx context.Context, id int64) error {
	if err := v.api.DeleteRegistration(ctx, id); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *RegistrationList) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *RegistrationList) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *RegistrationList) Close() {
	v.closed.Store(true)
}
