package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/internal/services"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
)

// UserHandler provides HTTP handlers for user management.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers user routes on the given router. All routes assume
// RequireAuth already ran.
func UserRouter(r chi.Router, userService *services.UserService) {
	handler := NewUserHandler(userService)

	r.Get("/me", handler.Me)
	r.With(RequireManager).Get("/", handler.List)
	r.With(RequireManager).Put("/{userID}/status", handler.UpdateStatus)
}

// Me returns the calling user's profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// List returns a paginated, filterable user listing for managers.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.UserFilter{}
	if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
		role, ok := types.ParseRole(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		filter.Role = &role
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("isActive")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid isActive")
			return
		}
		filter.IsActive = &active
	}

	page, err := h.userService.List(r.Context(), filter, parsePagination(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	page.AttachLinks(r.URL)

	writeJSON(w, http.StatusOK, page)
}

// UpdateStatus toggles an account's active flag.
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.userService.SetActive(r.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive"`
}
