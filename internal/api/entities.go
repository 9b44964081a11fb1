package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shrimpsizemoose/semla/internal/models"
)

func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := c.do(ctx, http.MethodGet, "/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) CreateStudent(ctx context.Context, req models.StudentRequest) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPost, "/students", req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id int64, req models.StudentRequest) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/students/%d", id), req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), nil, nil)
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) CreateCourse(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPost, "/courses", req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id int64, req models.CourseRequest) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/courses/%d", id), req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d", id), nil, nil)
}

func (c *Client) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	var registrations []models.Registration
	if err := c.do(ctx, http.MethodGet, "/registrations", nil, &registrations); err != nil {
		return nil, err
	}
	return registrations, nil
}

func (c *Client) CreateRegistration(ctx context.Context, req models.RegistrationRequest) (*models.Registration, error) {
	var registration models.Registration
	if err := c.do(ctx, http.MethodPost, "/registrations", req, &registration); err != nil {
		return nil, err
	}
	return &registration, nil
}

func (c *Client) UpdateRegistration(ctx context.Context, id int64, req models.RegistrationRequest) (*models.Registration, error) {
	var registration models.Registration
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/registrations/%d", id), req, &registration); err != nil {
		return nil, err
	}
	return &registration, nil
}

func (c *Client) DeleteRegistration(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/registrations/%d", id), nil, nil)
}

func (c *Client) ListResults(ctx context.Context) ([]models.Result, error) {
	var results []models.Result
	if err := c.do(ctx, http.MethodGet, "/results", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) CreateResult(ctx context.Context, req models.ResultRequest) (*models.Result, error) {
	var result models.Result
	if err := c.do(ctx, http.MethodPost, "/results", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateResult(ctx context.Context, id int64, req models.ResultRequest) (*models.Result, error) {
	var result models.Result
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/results/%d", id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteResult(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/results/%d", id), nil, nil)
}
