package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wellbeam-hq/apiserver/internal/pagination"
	"github.com/wellbeam-hq/apiserver/internal/services"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
)

type memoryEventRepo struct {
	events map[uuid.UUID]types.WellnessEvent
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{events: map[uuid.UUID]types.WellnessEvent{}}
}

func (m *memoryEventRepo) Create(ctx context.Context, e types.WellnessEvent) (types.WellnessEvent, error) {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.events[e.ID] = e
	return e, nil
}

func (m *memoryEventRepo) GetByID(ctx context.Context, id uuid.UUID) (types.WellnessEvent, error) {
	event, ok := m.events[id]
	if !ok {
		return types.WellnessEvent{}, store.ErrNotFound
	}
	return event, nil
}

func (m *memoryEventRepo) List(ctx context.Context, filter store.EventFilter, offset, limit int) ([]types.WellnessEvent, int, error) {
	var matched []types.WellnessEvent
	for _, event := range m.events {
		if filter.UserID != nil && (event.UserID == nil || *event.UserID != *filter.UserID) {
			continue
		}
		if filter.EventType != "" && event.EventType != filter.EventType {
			continue
		}
		if filter.Source != "" && event.Source != filter.Source {
			continue
		}
		matched = append(matched, event)
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func newEventServer(t *testing.T, repo *memoryEventRepo) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	router.Route("/api/v1/wellnessevents", func(r chi.Router) {
		r.Use(RequireAuth(testAuthConfig()))
		EventRouter(r, services.NewEventService(repo, nil, zerolog.Nop()))
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestEventCreateAttributesCaller(t *testing.T) {
	t.Parallel()

	repo := newMemoryEventRepo()
	server := newEventServer(t, repo)
	callerID := uuid.New()
	token := tokenFor(t, callerID, types.RoleCollaborator)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/wellnessevents/", token, EventRequest{
		EventType: "overtime",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created types.WellnessEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.UserID == nil || *created.UserID != callerID {
		t.Fatalf("event not attributed to caller: %v", created.UserID)
	}
	if created.Source != types.DefaultEventSource {
		t.Fatalf("source = %q, want default", created.Source)
	}
	if created.OccurredAt.IsZero() {
		t.Fatal("occurredAt was not defaulted")
	}
}

func TestEventCreateExplicitOwner(t *testing.T) {
	t.Parallel()

	repo := newMemoryEventRepo()
	server := newEventServer(t, repo)
	token := tokenFor(t, uuid.New(), types.RoleCollaborator)

	subjectID := uuid.New()
	occurred := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/wellnessevents/", token, EventRequest{
		UserID:     &subjectID,
		EventType:  "pto",
		Source:     "hr-system",
		OccurredAt: &occurred,
		Metadata:   json.RawMessage(`{"days":3}`),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created types.WellnessEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.UserID == nil || *created.UserID != subjectID {
		t.Fatalf("owner = %v, want %s", created.UserID, subjectID)
	}
	if created.Source != "hr-system" || !created.OccurredAt.Equal(occurred) {
		t.Fatalf("explicit fields overwritten: %+v", created)
	}
	if string(created.Metadata) != `{"days":3}` {
		t.Fatalf("metadata = %s", created.Metadata)
	}
}

func TestEventCreateRequiresType(t *testing.T) {
	t.Parallel()

	server := newEventServer(t, newMemoryEventRepo())
	token := tokenFor(t, uuid.New(), types.RoleCollaborator)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/wellnessevents/", token, EventRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestEventListManagerOnly(t *testing.T) {
	t.Parallel()

	server := newEventServer(t, newMemoryEventRepo())

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/wellnessevents/", tokenFor(t, uuid.New(), types.RoleCollaborator), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("collaborator list status = %d, want 403", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/wellnessevents/", tokenFor(t, uuid.New(), types.RoleManager), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("manager list status = %d, want 200", resp.StatusCode)
	}
}

func TestEventListFilters(t *testing.T) {
	t.Parallel()

	repo := newMemoryEventRepo()
	server := newEventServer(t, repo)
	managerToken := tokenFor(t, uuid.New(), types.RoleManager)

	subjectID := uuid.New()
	seed := []types.WellnessEvent{
		{UserID: &subjectID, EventType: "overtime", Source: "hr-system", OccurredAt: time.Now()},
		{UserID: &subjectID, EventType: "pto", Source: "hr-system", OccurredAt: time.Now()},
		{EventType: "overtime", Source: "calendar", OccurredAt: time.Now()},
	}
	for _, event := range seed {
		if _, err := repo.Create(context.Background(), event); err != nil {
			t.Fatal(err)
		}
	}

	listURL := fmt.Sprintf("%s/api/v1/wellnessevents/?userId=%s&eventType=overtime", server.URL, subjectID)
	resp := doJSON(t, http.MethodGet, listURL, managerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var page pagination.Page[types.WellnessEvent]
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("totalCount = %d, want 1", page.TotalCount)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/wellnessevents/?userId=not-a-uuid", managerToken, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad userId status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/wellnessevents/?occurredFrom=yesterday", managerToken, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad occurredFrom status = %d, want 400", resp.StatusCode)
	}
}

func TestEventGetManagerOnly(t *testing.T) {
	t.Parallel()

	repo := newMemoryEventRepo()
	server := newEventServer(t, repo)

	event, err := repo.Create(context.Background(), types.WellnessEvent{EventType: "overtime", Source: "x", OccurredAt: time.Now()})
	if err != nil {
		t.Fatal(err)
	}
	eventURL := fmt.Sprintf("%s/api/v1/wellnessevents/%s", server.URL, event.ID)

	if resp := doJSON(t, http.MethodGet, eventURL, tokenFor(t, uuid.New(), types.RoleCollaborator), nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("collaborator get status = %d, want 403", resp.StatusCode)
	}

	managerToken := tokenFor(t, uuid.New(), types.RoleManager)
	if resp := doJSON(t, http.MethodGet, eventURL, managerToken, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("manager get status = %d, want 200", resp.StatusCode)
	}

	missingURL := fmt.Sprintf("%s/api/v1/wellnessevents/%s", server.URL, uuid.New())
	if resp := doJSON(t, http.MethodGet, missingURL, managerToken, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing event status = %d, want 404", resp.StatusCode)
	}
}
