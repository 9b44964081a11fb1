package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.Store.ListStudents()
	if err != nil {
		storeError(w, err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *Handler) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	student := models.Student{
		StudentNumber: req.StudentNumber,
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
	}
	if err := h.service.Store.CreateStudent(&student); err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("student", "created").Inc()
	h.service.RecordActivity("student", "created", fmt.Sprintf("%s %s", student.StudentNumber, student.Name))
	writeJSON(w, http.StatusCreated, student)
}

func (h *Handler) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req models.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	student := models.Student{
		ID:            id,
		StudentNumber: req.StudentNumber,
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
	}
	if err := h.service.Store.UpdateStudent(&student); err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("student", "updated").Inc()
	h.service.RecordActivity("student", "updated", fmt.Sprintf("%s %s", student.StudentNumber, student.Name))
	writeJSON(w, http.StatusOK, student)
}

func (h *Handler) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if err := h.service.Store.DeleteStudent(id); err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("student", "deleted").Inc()
	h.service.RecordActivity("student", "deleted", strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusNoContent)
}
