package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

type SummaryAPI interface {
	Summary(ctx context.Context) (*models.StatsSummary, error)
}

// Dashboard holds the aggregate numbers shown on the landing screen.
type Dashboard struct {
	api SummaryAPI

	mu      sync.Mutex
	state   State
	err     error
	summary *models.StatsSummary

	closed atomic.Bool
}

func NewDashboard(api SummaryAPI) *Dashboard {
	return &Dashboard{api: api}
}

func (v *Dashboard) Load(ctx context.Context) error {
	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	v.state = StateLoading
	v.mu.Unlock()

	summary, err := v.api.Summary(ctx)

	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		logger.Error.Printf("Failed to load summary: %v", err)
		v.state = StateFailed
		v.err = err
		return err
	}

	v.state = StateReady
	v.err = nil
	v.summary = summary
	return nil
}

// Summary is nil until the first successful Load.
func (v *Dashboard) Summary() *models.StatsSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary
}

func (v *Dashboard) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Dashboard) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *Dashboard) Close() {
	v.closed.Store(true)
}
