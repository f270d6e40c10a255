package handler

import "net/http"

// handleTeaCategories handles GET /tea-categories.
func (h *Handler) handleTeaCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.catalog.Categories())
}
