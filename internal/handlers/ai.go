package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wellbeam-hq/apiserver/internal/ai"
	"github.com/wellbeam-hq/apiserver/internal/services"
	"github.com/wellbeam-hq/apiserver/internal/store"
)

// AIHandler exposes the recommendation gateway and the monthly report.
type AIHandler struct {
	advisor          ai.Advisor
	userService      *services.UserService
	dashboardService *services.DashboardService
}

func NewAIHandler(advisor ai.Advisor, userService *services.UserService, dashboardService *services.DashboardService) *AIHandler {
	return &AIHandler{
		advisor:          advisor,
		userService:      userService,
		dashboardService: dashboardService,
	}
}

// AIRouter registers AI routes on the given router. All routes assume
// RequireAuth already ran.
func AIRouter(r chi.Router, advisor ai.Advisor, userService *services.UserService, dashboardService *services.DashboardService) {
	handler := NewAIHandler(advisor, userService, dashboardService)

	r.Get("/recommendations/me", handler.RecommendationsMe)
	r.With(RequireManager).Get("/monthly-report", handler.MonthlyReport)
}

// RecommendationsMe returns personalized recommendations for the caller.
func (h *AIHandler) RecommendationsMe(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	recommendations, err := h.advisor.RecommendationsFor(r.Context(), user, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build recommendations")
		return
	}

	writeJSON(w, http.StatusOK, RecommendationsResponse{Recommendations: recommendations})
}

// MonthlyReport aggregates one calendar month for managers.
func (h *AIHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("month")))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	report, err := h.dashboardService.MonthlyReport(r.Context(), year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// RecommendationsResponse wraps the recommendation list.
type RecommendationsResponse struct {
	Recommendations []ai.Recommendation `json:"recommendations"`
}
