package forms

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// OptionsAPI is what the enrollment forms need for their dropdowns.
type OptionsAPI interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
}

// Options carries the selectable students and courses for the
// registration and result forms.
type Options struct {
	Students []models.Student
	Courses  []models.Course
}

// LoadOptions fetches both lists concurrently, the forms always need
// them together.
func LoadOptions(ctx context.Context, api OptionsAPI) (*Options, error) {
	options := &Options{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		students, err := api.ListStudents(ctx)
		if err != nil {
			return fmt.Errorf("failed to load students: %w", err)
		}
		options.Students = students
		return nil
	})
	g.Go(func() error {
		courses, err := api.ListCourses(ctx)
		if err != nil {
			return fmt.Errorf("failed to load courses: %w", err)
		}
		options.Courses = courses
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return options, nil
}

func (o *Options) StudentByNumber(number string) (*models.Student, bool) {
	for i := range o.Students {
		if o.Students[i].StudentNumber == number {
			return &o.Students[i], true
		}
	}
	return nil, false
}

func (o *Options) CourseByCode(code string) (*models.Course, bool) {
	for i := range o.Courses {
		if o.Courses[i].Code == code {
			return &o.Courses[i], true
		}
	}
	return nil, false
}
