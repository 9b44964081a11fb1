package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

type CourseAPI interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

type CourseList struct {
	api CourseAPI

	mu      sync.Mutex
	state   State
	err     error
	courses []models.Course
	filter  string

	closed atomic.Bool
}

func NewCourseList(api CourseAPI) *CourseList {
	return &CourseList{api: api}
}

func (v *CourseList) Load(ctx context.Context) error {
	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	v.state = StateLoading
	v.mu.Unlock()

	courses, err := v.api.ListCourses(ctx)

	if v.closed.Load() {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		logger.Error.Printf("Failed to load courses: %v", err)
		v.state = StateFailed
		v.err = err
		return err
	}

	v.state = StateReady
	v.err = nil
	v.courses = courses
	return nil
}

func (v *CourseList) SetFilter(filter string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
}

func (v *CourseList) Visible() []models.Course {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]models.Course, 0, len(v.courses))
	for _, c := range v.courses {
		if matches(v.filter, c.Title, c.Code, c.Instructor) {
			out = append(out, c)
		}
	}
	return out
}

func (v *CourseList) Delete(ctx context.Context, id int64) error {
	if err := v.api.DeleteCourse(ctx, id); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *CourseList) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *CourseList) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *CourseList) Close() {
	v.closed.Store(true)
}
