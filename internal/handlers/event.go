package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/internal/services"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
)

// EventHandler provides HTTP handlers for wellness events.
type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventRouter registers wellness-event routes on the given router.
// All routes assume RequireAuth already ran; listing and single fetch are
// manager-only because they expose owning user identifiers.
func EventRouter(r chi.Router, eventService *services.EventService) {
	handler := NewEventHandler(eventService)

	r.Post("/", handler.Create)
	r.With(RequireManager).Get("/", handler.List)
	r.With(RequireManager).Get("/{eventID}", handler.Get)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	event := types.WellnessEvent{
		EventType: req.EventType,
		Source:    req.Source,
		Value:     req.Value,
		Metadata:  req.Metadata,
	}
	if req.OccurredAt != nil {
		event.OccurredAt = *req.OccurredAt
	}
	switch {
	case req.UserID != nil:
		event.UserID = req.UserID
	default:
		// Attribute to the caller when no explicit owner is given.
		id := claims.UserID
		event.UserID = &id
	}

	created, err := h.eventService.Create(r.Context(), event)
	if err != nil {
		if errors.Is(err, services.ErrEventTypeRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/wellnessevents/%s", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// List returns a paginated, filterable event listing for managers.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.EventFilter{
		EventType: strings.TrimSpace(r.URL.Query().Get("eventType")),
		Source:    strings.TrimSpace(r.URL.Query().Get("source")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("userId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		filter.UserID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("occurredFrom")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid occurredFrom")
			return
		}
		filter.OccurredFrom = &from
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("occurredTo")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid occurredTo")
			return
		}
		filter.OccurredTo = &to
	}

	page, err := h.eventService.List(r.Context(), filter, parsePagination(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	page.AttachLinks(r.URL)

	writeJSON(w, http.StatusOK, page)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	event, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

type EventRequest struct {
	UserID     *uuid.UUID      `json:"userId,omitempty"`
	EventType  string          `json:"eventType"`
	OccurredAt *time.Time      `json:"occurredAt,omitempty"`
	Source     string          `json:"source,omitempty"`
	Value      *float64        `json:"value,omitempty"`
	Metadata   json.RawMessage `json:"metadataJson,omitempty"`
}
