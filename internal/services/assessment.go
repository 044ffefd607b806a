package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/internal/pagination"
	"github.com/wellbeam-hq/apiserver/types"
)

// ErrInvalidLevel is returned when a submitted level is outside the
// five-point scale.
var ErrInvalidLevel = errors.New("level must be between 1 and 5")

// ErrNotesTooLong is returned when the notes field exceeds the bound.
var ErrNotesTooLong = errors.New("notes exceed maximum length")

// AssessmentRepository defines persistence operations for self-assessments.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment types.SelfAssessment) (types.SelfAssessment, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (types.SelfAssessment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]types.SelfAssessment, int, error)
	RecentByUser(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]types.SelfAssessment, error)
	UpdateForUser(ctx context.Context, assessment types.SelfAssessment) (types.SelfAssessment, error)
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) error
}

// AssessmentService encapsulates self-assessment use-cases.
type AssessmentService struct {
	repo AssessmentRepository
}

func NewAssessmentService(repo AssessmentRepository) *AssessmentService {
	return &AssessmentService{repo: repo}
}

func (s *AssessmentService) Create(ctx context.Context, assessment types.SelfAssessment) (types.SelfAssessment, error) {
	if err := validateAssessment(assessment); err != nil {
		return types.SelfAssessment{}, err
	}
	return s.repo.Create(ctx, assessment)
}

// Get fetches an assessment owned by the given user. Records owned by other
// users surface as not found.
func (s *AssessmentService) Get(ctx context.Context, id, userID uuid.UUID) (types.SelfAssessment, error) {
	return s.repo.GetForUser(ctx, id, userID)
}

// ListMine returns one page of the user's own assessments, newest first.
func (s *AssessmentService) ListMine(ctx context.Context, userID uuid.UUID, page pagination.Params) (pagination.Page[types.SelfAssessment], error) {
	items, total, err := s.repo.ListByUser(ctx, userID, page.Offset(), page.Size)
	if err != nil {
		return pagination.Page[types.SelfAssessment]{}, err
	}
	return pagination.NewPage(items, page, total), nil
}

// Recent returns up to limit assessments created on or after since.
func (s *AssessmentService) Recent(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]types.SelfAssessment, error) {
	return s.repo.RecentByUser(ctx, userID, since, limit)
}

func (s *AssessmentService) Update(ctx context.Context, assessment types.SelfAssessment) (types.SelfAssessment, error) {
	if err := validateAssessment(assessment); err != nil {
		return types.SelfAssessment{}, err
	}
	return s.repo.UpdateForUser(ctx, assessment)
}

func (s *AssessmentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.DeleteForUser(ctx, id, userID)
}

func validateAssessment(assessment types.SelfAssessment) error {
	if !assessment.Mood.Valid() || !assessment.Stress.Valid() || !assessment.Workload.Valid() {
		return ErrInvalidLevel
	}
	if len(assessment.Notes) > types.MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}
