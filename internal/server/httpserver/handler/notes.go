package handler

import (
	"net/http"
	"strconv"

	"github.com/yndnr/teataster-go/internal/core/domain"
)

// handleListNotes handles GET /user-tasting-notes.
func (h *Handler) handleListNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	notes, err := h.notes.List(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, notes)
}

// handleCreateNote handles POST /user-tasting-notes. Any id in the body is
// ignored.
func (h *Handler) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	var note domain.TastingNote
	if !h.decode(w, r, &note) {
		return
	}
	note.ID = 0
	h.saveNote(w, r, user, note)
}

// handleUpdateNote handles POST /user-tasting-notes/{id}.
func (h *Handler) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	var note domain.TastingNote
	if !h.decode(w, r, &note) {
		return
	}
	note.ID = id
	h.saveNote(w, r, user, note)
}

func (h *Handler) saveNote(w http.ResponseWriter, r *http.Request, user domain.User, note domain.TastingNote) {
	saved, err := h.notes.Save(r.Context(), user.ID, note)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "note saved", "user_id", user.ID, "note_id", saved.ID)
	h.writeJSON(w, http.StatusOK, saved)
}

// handleDeleteNote handles DELETE /user-tasting-notes/{id}.
func (h *Handler) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	if err := h.notes.Delete(r.Context(), user.ID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func noteID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		WriteError(w, domain.ErrInvalidArgument.Code, "invalid note id: "+r.PathValue("id"))
		return 0, false
	}
	return id, true
}
