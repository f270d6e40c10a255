package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/core/service"
)

// Handler serves the data service API.
type Handler struct {
	accounts *service.AccountService
	catalog  *service.CatalogService
	notes    *service.NotesService
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a Handler on the given services.
func New(accounts *service.AccountService, catalog *service.CatalogService, notes *service.NotesService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		accounts: accounts,
		catalog:  catalog,
		notes:    notes,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)

	h.mux.HandleFunc("POST /login", h.handleLogin)
	h.mux.HandleFunc("POST /logout", h.handleLogout)
	h.mux.HandleFunc("GET /users/current", h.handleCurrentUser)

	h.mux.HandleFunc("GET /tea-categories", h.handleTeaCategories)

	h.mux.HandleFunc("GET /user-tasting-notes", h.handleListNotes)
	h.mux.HandleFunc("POST /user-tasting-notes", h.handleCreateNote)
	h.mux.HandleFunc("POST /user-tasting-notes/{id}", h.handleUpdateNote)
	h.mux.HandleFunc("DELETE /user-tasting-notes/{id}", h.handleDeleteNote)
}

type userKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey{}).(domain.User)
	return user, ok
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes data as the raw response body.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// WriteError writes an error body with the status its code maps to.
func WriteError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(HTTPStatus(code))
	json.NewEncoder(w).Encode(ErrorBody{Code: code, Message: message})
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		if HTTPStatus(de.Code) >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		}
		message := de.Message
		if de.Details != "" {
			message += ": " + de.Details
		}
		WriteError(w, de.Code, message)
		return
	}

	h.logger.ErrorContext(r.Context(), "internal error", "path", r.URL.Path, "error", err)
	WriteError(w, domain.ErrInternal.Code, "internal server error")
}

// HTTPStatus maps an error code to its HTTP status. The last four digits
// of a code carry the status family, so TT-DATA-4041 is a 404.
func HTTPStatus(code string) int {
	if strings.HasPrefix(code, "TT-ARG-") {
		return http.StatusBadRequest
	}
	idx := strings.LastIndex(code, "-")
	if idx < 0 {
		return http.StatusInternalServerError
	}
	n, err := strconv.Atoi(code[idx+1:])
	if err != nil {
		return http.StatusInternalServerError
	}
	if status := n / 10; status >= 400 && status < 600 {
		return status
	}
	return http.StatusInternalServerError
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		WriteError(w, domain.ErrBadRequest.Code, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// requireUser returns the authenticated user or writes a 401.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteError(w, domain.ErrUnauthenticated.Code, domain.ErrUnauthenticated.Message)
	}
	return user, ok
}
