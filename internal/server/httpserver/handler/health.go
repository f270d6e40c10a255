package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"time":           time.Now().UTC().Format(time.RFC3339),
		"activeSessions": h.accounts.ActiveTokens(),
		"teaCategories":  len(h.catalog.Categories()),
	})
}
