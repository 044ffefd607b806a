package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wellbeam-hq/apiserver/internal/services"
)

// DashboardHandler provides manager-facing aggregate endpoints.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardRouter registers dashboard routes on the given router.
// All routes assume RequireAuth already ran; everything here is
// manager-only.
func DashboardRouter(r chi.Router, dashboardService *services.DashboardService) {
	handler := NewDashboardHandler(dashboardService)

	r.With(RequireManager).Get("/summary", handler.Summary)
}

// Summary aggregates the trailing lookback window. Invalid day counts are
// normalized, not rejected.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("days")))

	summary, err := h.dashboardService.Summary(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
