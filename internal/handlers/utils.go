package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/internal/pagination"
	"github.com/wellbeam-hq/apiserver/types"
)

type contextKey string

const (
	contextClaimsKey        contextKey = "claims"
	contextCorrelationIDKey contextKey = "correlation_id"
)

// AuthClaims carries the verified identity and role of the caller.
type AuthClaims struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   types.Role
}

func claimsFromContext(ctx context.Context) (AuthClaims, error) {
	claims, ok := ctx.Value(contextClaimsKey).(AuthClaims)
	if !ok || claims.UserID == uuid.Nil {
		return AuthClaims{}, errors.New("missing identity")
	}
	return claims, nil
}

func correlationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextCorrelationIDKey).(string)
	return id
}

// parsePagination reads pageNumber/pageSize, silently normalizing invalid
// or missing values.
func parsePagination(r *http.Request) pagination.Params {
	number, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return pagination.Normalize(number, size)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeProblem emits the uniform 500 body. Internal detail stays in the
// server log; clients only get a safe summary plus the trace identifier.
func writeProblem(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusInternalServerError, ProblemResponse{
		Type:    "about:blank",
		Title:   "Internal Server Error",
		Status:  http.StatusInternalServerError,
		TraceID: correlationIDFromContext(r.Context()),
		Detail:  "an unexpected error occurred",
	})
}

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProblemResponse is the structured body for unhandled failures.
type ProblemResponse struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	TraceID string `json:"traceId"`
	Detail  string `json:"detail"`
}
