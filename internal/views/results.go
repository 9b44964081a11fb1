package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

type ResultAPI interface {
	ListResults(ctx context.Context) ([]models.Result, error)
	DeleteResult(ctx context.Context, id int64) error
}

type ResultList struct {
	api ResultAPI

	mu      sync.Mutex
	state   State
	err     error
	results []models.Result
	filter  string

	closed atomic.Bool
}

func NewResultList(api ResultAPI) *ResultList {
	return &ResultList{api: api}
}

func (v *ResultList) Load(ctx context.Context) error {
	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	v.state = StateLoading
	v.mu.Unlock()

	results, err := v.api.ListResults(ctx)

	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		logger.Error.Printf("Failed to load results: %v", err)
		v.state = StateFailed
		v.err = err
		return err
	}

	v.state = StateReady
	v.err = nil
	v.results = results
	return nil
}

func (v *ResultList) SetFilter(filter string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
}

func (v *ResultList) Visible() []models.Result {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]models.Result, 0, len(v.results))
	for _, r := range v.results {
		if matches(v.filter, r.StudentNumber, r.CourseCode, r.CourseName, r.Grade) {
			out = append(out, r)
		}
	}
	return out
}

func (v *ResultList) Delete(ctx context.Context, id int64) error {
	if err := v.api.DeleteResult(ctx, id); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *ResultList) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *ResultList) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *ResultList) Close() {
	v.closed.Store(true)
}
