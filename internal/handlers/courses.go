package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.Store.ListCourses()
	if err != nil {
		storeError(w, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	course := models.Course{
		Title:      req.Title,
		Code:       req.Code,
		Credits:    req.Credits,
		Instructor: req.Instructor,
	}
	if err := h.service.Store.CreateCourse(&course); err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("course", "created").Inc()
	h.service.RecordActivity("course", "created", fmt.Sprintf("%s %s", course.Code, course.Title))
	writeJSON(w, http.StatusCreated, course)
}

func (h *Handler) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	course := models.Course{
		ID:         id,
		Title:      req.Title,
		Code:       req.Code,
		Credits:    req.Credits,
		Instructor: req.Instructor,
	}
	if err := h.service.Store.UpdateCourse(&course); err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("course", "updated").Inc()
	h.service.RecordActivity("course", "updated", fmt.Sprintf("%s %s", course.Code, course.Title))
	writeJSON(w, http.StatusOK, course)
}

func (h *Handler) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if err := h.service.Store.DeleteCourse(id); err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("course", "deleted").Inc()
	h.service.RecordActivity("course", "deleted", strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusNoContent)
}
