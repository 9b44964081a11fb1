// Package handlers exposes the course-management REST surface under /api.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type Handler struct {
	service *app.Service
}

func New(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the full API surface. Everything except login sits
// behind the bearer-token check.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.observe)

	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Post("/auth/logout", h.handleLogout)

		r.Route("/students", func(r chi.Router) {
			r.Get("/", h.handleListStudents)
			r.Post("/", h.handleCreateStudent)
			r.Put("/{id}", h.handleUpdateStudent)
			r.Delete("/{id}", h.handleDeleteStudent)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", h.handleListCourses)
			r.Post("/", h.handleCreateCourse)
			r.Put("/{id}", h.handleUpdateCourse)
			r.Delete("/{id}", h.handleDeleteCourse)
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Get("/", h.handleListRegistrations)
			r.Post("/", h.handleCreateRegistration)
			r.Put("/{id}", h.handleUpdateRegistration)
			r.Delete("/{id}", h.handleDeleteRegistration)
		})

		r.Route("/results", func(r chi.Router) {
			r.Get("/", h.handleListResults)
			r.Post("/", h.handleCreateResult)
			r.Put("/{id}", h.handleUpdateResult)
			r.Delete("/{id}", h.handleDeleteResult)
		})

		r.Get("/stats/summary", h.handleSummary)
	})

	return r
}

func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// the route pattern keeps metric cardinality flat
		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = r.URL.Path
		}
		metrics.APIRequestDuration.WithLabelValues(
			path,
			r.Method,
			strconv.Itoa(ww.Status()),
		).Observe(time.Since(start).Seconds())

		logger.Debug.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func writeValidationError(w http.ResponseWriter, err error) {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "validation_failed",
		"fields": fields,
	})
}

// storeError maps store sentinels onto HTTP statuses.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "duplicate")
	case errors.Is(err, store.ErrInvalidReference):
		writeError(w, http.StatusConflict, "invalid_reference")
	default:
		logger.Error.Printf("Store error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
