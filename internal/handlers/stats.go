package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"
)

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary()
	if err != nil {
		logger.Error.Printf("Failed to build summary: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
