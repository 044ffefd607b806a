package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/internal/services"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
)

// AssessmentHandler provides HTTP handlers for self-assessments.
type AssessmentHandler struct {
	assessmentService *services.AssessmentService
}

func NewAssessmentHandler(assessmentService *services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// AssessmentRouter registers self-assessment routes on the given router.
// All routes assume RequireAuth already ran.
func AssessmentRouter(r chi.Router, assessmentService *services.AssessmentService) {
	handler := NewAssessmentHandler(assessmentService)

	r.Post("/", handler.Create)
	r.Get("/my", handler.ListMine)
	r.Route("/{assessmentID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Put("/", handler.Update)
		r.Delete("/", handler.Delete)
	})
}

func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.assessmentService.Create(r.Context(), types.SelfAssessment{
		UserID:   claims.UserID,
		Mood:     req.Mood,
		Stress:   req.Stress,
		Workload: req.Workload,
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidLevel) || errors.Is(err, services.ErrNotesTooLong) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create assessment")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/selfassessments/%s", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// ListMine returns the caller's own assessments, newest first.
func (h *AssessmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, err := h.assessmentService.ListMine(r.Context(), claims.UserID, parsePagination(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assessments")
		return
	}
	page.AttachLinks(r.URL)

	writeJSON(w, http.StatusOK, page)
}

// Get returns one owned assessment. Records owned by someone else are
// reported as not found, never as forbidden.
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.authorizeRecord(w, r)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.Get(r.Context(), id, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "assessment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch assessment")
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

func (h *AssessmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.authorizeRecord(w, r)
	if !ok {
		return
	}

	var req AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.assessmentService.Update(r.Context(), types.SelfAssessment{
		ID:       id,
		UserID:   claims.UserID,
		Mood:     req.Mood,
		Stress:   req.Stress,
		Workload: req.Workload,
		Notes:    req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLevel), errors.Is(err, services.ErrNotesTooLong):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "assessment not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update assessment")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AssessmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.authorizeRecord(w, r)
	if !ok {
		return
	}

	if err := h.assessmentService.Delete(r.Context(), id, claims.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "assessment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete assessment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AssessmentHandler) authorizeRecord(w http.ResponseWriter, r *http.Request) (AuthClaims, uuid.UUID, bool) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return AuthClaims{}, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "assessmentID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "assessment not found")
		return AuthClaims{}, uuid.Nil, false
	}
	return claims, id, true
}

type AssessmentRequest struct {
	Mood     types.Level `json:"mood"`
	Stress   types.Level `json:"stress"`
	Workload types.Level `json:"workload"`
	Notes    string      `json:"notes,omitempty"`
}
