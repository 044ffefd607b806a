package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/internal/pagination"
	"github.com/wellbeam-hq/apiserver/internal/services"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
)

type memoryAssessmentRepo struct {
	records map[uuid.UUID]types.SelfAssessment
}

func newMemoryAssessmentRepo() *memoryAssessmentRepo {
	return &memoryAssessmentRepo{records: map[uuid.UUID]types.SelfAssessment{}}
}

func (m *memoryAssessmentRepo) Create(ctx context.Context, a types.SelfAssessment) (types.SelfAssessment, error) {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.records[a.ID] = a
	return a, nil
}

func (m *memoryAssessmentRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (types.SelfAssessment, error) {
	record, ok := m.records[id]
	if !ok || record.UserID != userID {
		return types.SelfAssessment{}, store.ErrNotFound
	}
	return record, nil
}

func (m *memoryAssessmentRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]types.SelfAssessment, int, error) {
	var owned []types.SelfAssessment
	for _, record := range m.records {
		if record.UserID == userID {
			owned = append(owned, record)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (m *memoryAssessmentRepo) RecentByUser(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]types.SelfAssessment, error) {
	items, _, err := m.ListByUser(ctx, userID, 0, limit)
	return items, err
}

func (m *memoryAssessmentRepo) UpdateForUser(ctx context.Context, a types.SelfAssessment) (types.SelfAssessment, error) {
	record, ok := m.records[a.ID]
	if !ok || record.UserID != a.UserID {
		return types.SelfAssessment{}, store.ErrNotFound
	}
	record.Mood = a.Mood
	record.Stress = a.Stress
	record.Workload = a.Workload
	record.Notes = a.Notes
	record.UpdatedAt = time.Now()
	m.records[a.ID] = record
	return record, nil
}

func (m *memoryAssessmentRepo) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	record, ok := m.records[id]
	if !ok || record.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// newAssessmentServer mounts the assessment routes the way the server does,
// behind the real token middleware.
func newAssessmentServer(t *testing.T, repo *memoryAssessmentRepo) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	router.Route("/api/v1/selfassessments", func(r chi.Router) {
		r.Use(RequireAuth(testAuthConfig()))
		AssessmentRouter(r, services.NewAssessmentService(repo))
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func tokenFor(t *testing.T, userID uuid.UUID, role types.Role) string {
	t.Helper()
	token, err := IssueToken(types.User{
		ID:       userID,
		FullName: "Test User",
		Email:    "test@example.com",
		Role:     role,
	}, testAuthConfig())
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestAssessmentCreateAndFetch(t *testing.T) {
	t.Parallel()

	repo := newMemoryAssessmentRepo()
	server := newAssessmentServer(t, repo)
	userID := uuid.New()
	token := tokenFor(t, userID, types.RoleCollaborator)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/selfassessments/", token, AssessmentRequest{
		Mood: 4, Stress: 2, Workload: 3, Notes: "good sprint",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	var created types.SelfAssessment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.UserID != userID {
		t.Fatalf("owner = %s, want caller %s", created.UserID, userID)
	}
	wantLocation := fmt.Sprintf("/api/v1/selfassessments/%s", created.ID)
	if got := resp.Header.Get("Location"); got != wantLocation {
		t.Fatalf("Location = %q, want %q", got, wantLocation)
	}

	resp = doJSON(t, http.MethodGet, server.URL+wantLocation, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
}

func TestAssessmentCreateRejectsInvalidLevels(t *testing.T) {
	t.Parallel()

	server := newAssessmentServer(t, newMemoryAssessmentRepo())
	token := tokenFor(t, uuid.New(), types.RoleCollaborator)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/selfassessments/", token, AssessmentRequest{
		Mood: 0, Stress: 2, Workload: 3,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAssessmentOwnershipBoundary(t *testing.T) {
	t.Parallel()

	repo := newMemoryAssessmentRepo()
	server := newAssessmentServer(t, repo)

	owner := uuid.New()
	record, err := repo.Create(context.Background(), types.SelfAssessment{
		UserID: owner, Mood: 3, Stress: 3, Workload: 3,
	})
	if err != nil {
		t.Fatal(err)
	}

	intruderToken := tokenFor(t, uuid.New(), types.RoleCollaborator)
	recordURL := fmt.Sprintf("%s/api/v1/selfassessments/%s", server.URL, record.ID)

	// Someone else's record is indistinguishable from a missing one.
	if resp := doJSON(t, http.MethodGet, recordURL, intruderToken, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get status = %d, want 404", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodPut, recordURL, intruderToken, AssessmentRequest{Mood: 1, Stress: 1, Workload: 1}); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("put status = %d, want 404", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodDelete, recordURL, intruderToken, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete status = %d, want 404", resp.StatusCode)
	}

	ownerToken := tokenFor(t, owner, types.RoleCollaborator)
	if resp := doJSON(t, http.MethodGet, recordURL, ownerToken, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("owner get status = %d, want 200", resp.StatusCode)
	}
}

func TestAssessmentMalformedIDIsNotFound(t *testing.T) {
	t.Parallel()

	server := newAssessmentServer(t, newMemoryAssessmentRepo())
	token := tokenFor(t, uuid.New(), types.RoleCollaborator)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/selfassessments/not-a-uuid", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAssessmentUpdateAndDelete(t *testing.T) {
	t.Parallel()

	repo := newMemoryAssessmentRepo()
	server := newAssessmentServer(t, repo)
	userID := uuid.New()
	token := tokenFor(t, userID, types.RoleCollaborator)

	record, err := repo.Create(context.Background(), types.SelfAssessment{
		UserID: userID, Mood: 3, Stress: 3, Workload: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	recordURL := fmt.Sprintf("%s/api/v1/selfassessments/%s", server.URL, record.ID)

	resp := doJSON(t, http.MethodPut, recordURL, token, AssessmentRequest{
		Mood: 5, Stress: 1, Workload: 2, Notes: "rested",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}
	var updated types.SelfAssessment
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatal(err)
	}
	if updated.Mood != types.LevelVeryHigh || updated.Notes != "rested" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if resp := doJSON(t, http.MethodDelete, recordURL, token, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodGet, recordURL, token, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestAssessmentListMinePagination(t *testing.T) {
	t.Parallel()

	repo := newMemoryAssessmentRepo()
	server := newAssessmentServer(t, repo)
	userID := uuid.New()
	token := tokenFor(t, userID, types.RoleCollaborator)

	for i := 0; i < 7; i++ {
		if _, err := repo.Create(context.Background(), types.SelfAssessment{
			UserID: userID, Mood: 3, Stress: 3, Workload: 3,
		}); err != nil {
			t.Fatal(err)
		}
	}
	// Another user's records must never show up.
	if _, err := repo.Create(context.Background(), types.SelfAssessment{
		UserID: uuid.New(), Mood: 1, Stress: 5, Workload: 5,
	}); err != nil {
		t.Fatal(err)
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/selfassessments/my?pageNumber=1&pageSize=5", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}

	var page pagination.Page[types.SelfAssessment]
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 7 {
		t.Fatalf("totalCount = %d, want 7", page.TotalCount)
	}
	if page.TotalPages != 2 || !page.HasNext || page.HasPrevious {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
	if len(page.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(page.Items))
	}
	for _, item := range page.Items {
		if item.UserID != userID {
			t.Fatalf("foreign record leaked into listing: %s", item.UserID)
		}
	}

	var hasSelf, hasNext, hasPrevious bool
	for _, link := range page.Links {
		switch link.Rel {
		case pagination.RelSelf:
			hasSelf = true
		case pagination.RelNext:
			hasNext = true
		case pagination.RelPrevious:
			hasPrevious = true
		}
	}
	if !hasSelf || !hasNext {
		t.Fatalf("expected self and next links, got %+v", page.Links)
	}
	if hasPrevious {
		t.Fatal("first page must not carry a previous link")
	}
}

func TestAssessmentRoutesRequireToken(t *testing.T) {
	t.Parallel()

	server := newAssessmentServer(t, newMemoryAssessmentRepo())

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/selfassessments/my", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
