package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) handleListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Store.ListResults()
	if err != nil {
		storeError(w, err)
		return
	}
	if results == nil {
		results = []models.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) handleCreateResult(w http.ResponseWriter, r *http.Request) {
	var req models.ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	id, err := h.service.Store.CreateResult(req.StudentID, req.CourseID, req.Grade)
	if err != nil {
		storeError(w, err)
		return
	}

	result, err := h.service.Store.GetResult(id)
	if err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("result", "created").Inc()
	h.service.RecordActivity("result", "created",
		fmt.Sprintf("%s %s %s", result.StudentNumber, result.CourseCode, result.Grade))
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleUpdateResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req models.ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.Store.UpdateResult(id, req.StudentID, req.CourseID, req.Grade); err != nil {
		storeError(w, err)
		return
	}

	result, err := h.service.Store.GetResult(id)
	if err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("result", "updated").Inc()
	h.service.RecordActivity("result", "updated",
		fmt.Sprintf("%s %s %s", result.StudentNumber, result.CourseCode, result.Grade))
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if err := h.service.Store.DeleteResult(id); err != nil {
		storeError(w, err)
		return
	}

	metrics.EntityMutationsTotal.WithLabelValues("result", "deleted").Inc()
	h.service.RecordActivity("result", "deleted", strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusNoContent)
}
