package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	registrations, err := h.service.Store.ListRegistrations()
	if err != nil {
		storeError(w, err)
		return
	}
	if registrations == nil {
		registrations = []models.Registration{}
	}
	writeJSON(w, http.StatusOK, registrations)
}

func (h *Handler) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	id, err := h.service.Store.CreateRegistration(req.StudentID, req.CourseID, req.RegistrationDate)
	if err != nil {
		storeError(w, err)
		return
	}

	registration, err := h.service.Store.GetRegistration(id)
	if err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("registration", "created").Inc()
	h.service.RecordActivity("registration", "created",
		fmt.Sprintf("%s -> %s", registration.Student.StudentNumber, registration.Course.Code))
	writeJSON(w, http.StatusCreated, registration)
}

func (h *Handler) handleUpdateRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.Store.UpdateRegistration(id, req.StudentID, req.CourseID, req.RegistrationDate); err != nil {
		storeError(w, err)
		return
	}

	registration, err := h.service.Store.GetRegistration(id)
	if err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("registration", "updated").Inc()
	h.service.RecordActivity("registration", "updated",
		fmt.Sprintf("%s -> %s", registration.Student.StudentNumber, registration.Course.Code))
	writeJSON(w, http.StatusOK, registration)
}

func (h *Handler) handleDeleteRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if err := h.service.Store.DeleteRegistration(id); err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("registration", "deleted").Inc()
	h.service.RecordActivity("registration", "deleted", strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusNoContent)
}
