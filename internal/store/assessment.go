package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/types"
)

// AssessmentRepository handles persistence for self-assessments.
// All single-record operations are owner-scoped: a record owned by another
// user is indistinguishable from a missing one.
type AssessmentRepository struct {
	db *sql.DB
}

func NewAssessmentRepository(db *sql.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) Create(ctx context.Context, assessment types.SelfAssessment) (types.SelfAssessment, error) {
	assessment.ID = uuid.New()
	now := time.Now()
	assessment.CreatedAt = now
	assessment.UpdatedAt = now

	const query = `
		INSERT INTO self_assessments (id, user_id, mood, stress, workload, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		assessment.ID,
		assessment.UserID,
		assessment.Mood,
		assessment.Stress,
		assessment.Workload,
		assessment.Notes,
		assessment.CreatedAt,
		assessment.UpdatedAt,
	)
	if err != nil {
		return types.SelfAssessment{}, err
	}
	return assessment, nil
}

func (r *AssessmentRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (types.SelfAssessment, error) {
	const query = `
		SELECT id, user_id, mood, stress, workload, notes, created_at, updated_at
		FROM self_assessments
		WHERE id = $1 AND user_id = $2`
	var assessment types.SelfAssessment
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&assessment.ID,
		&assessment.UserID,
		&assessment.Mood,
		&assessment.Stress,
		&assessment.Workload,
		&assessment.Notes,
		&assessment.CreatedAt,
		&assessment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SelfAssessment{}, ErrNotFound
		}
		return types.SelfAssessment{}, err
	}
	return assessment, nil
}

// ListByUser returns one page of the user's assessments, newest first, plus
// the total count. Ties on created_at break on id to keep the order total.
func (r *AssessmentRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]types.SelfAssessment, int, error) {
	var total int
	if err := r.db.QueryRowContext(
		ctx, `SELECT COUNT(1) FROM self_assessments WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT id, user_id, mood, stress, workload, notes, created_at, updated_at
		FROM self_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assessments := make([]types.SelfAssessment, 0, limit)
	for rows.Next() {
		var assessment types.SelfAssessment
		if err := rows.Scan(
			&assessment.ID,
			&assessment.UserID,
			&assessment.Mood,
			&assessment.Stress,
			&assessment.Workload,
			&assessment.Notes,
			&assessment.CreatedAt,
			&assessment.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return assessments, total, nil
}

// RecentByUser returns up to limit of the user's assessments created on or
// after since, newest first.
func (r *AssessmentRepository) RecentByUser(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]types.SelfAssessment, error) {
	const query = `
		SELECT id, user_id, mood, stress, workload, notes, created_at, updated_at
		FROM self_assessments
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, userID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := make([]types.SelfAssessment, 0, limit)
	for rows.Next() {
		var assessment types.SelfAssessment
		if err := rows.Scan(
			&assessment.ID,
			&assessment.UserID,
			&assessment.Mood,
			&assessment.Stress,
			&assessment.Workload,
			&assessment.Notes,
			&assessment.CreatedAt,
			&assessment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}
	return assessments, rows.Err()
}

// SamplesSince returns the score triples of every assessment created on or
// after since, for aggregation.
func (r *AssessmentRepository) SamplesSince(ctx context.Context, since time.Time) ([]types.ScoreSample, error) {
	const query = `
		SELECT mood, stress, workload
		FROM self_assessments
		WHERE created_at >= $1`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSamples(rows)
}

// SamplesBetween returns the score triples of every assessment created in
// the half-open range [from, to), for aggregation.
func (r *AssessmentRepository) SamplesBetween(ctx context.Context, from, to time.Time) ([]types.ScoreSample, error) {
	const query = `
		SELECT mood, stress, workload
		FROM self_assessments
		WHERE created_at >= $1 AND created_at < $2`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSamples(rows)
}

func collectSamples(rows *sql.Rows) ([]types.ScoreSample, error) {
	var samples []types.ScoreSample
	for rows.Next() {
		var sample types.ScoreSample
		if err := rows.Scan(&sample.Mood, &sample.Stress, &sample.Workload); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// UpdateForUser rewrites the mutable fields of an owned assessment.
func (r *AssessmentRepository) UpdateForUser(ctx context.Context, assessment types.SelfAssessment) (types.SelfAssessment, error) {
	assessment.UpdatedAt = time.Now()

	const query = `
		UPDATE self_assessments
		SET mood = $1,
			stress = $2,
			workload = $3,
			notes = $4,
			updated_at = $5
		WHERE id = $6 AND user_id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		assessment.Mood,
		assessment.Stress,
		assessment.Workload,
		assessment.Notes,
		assessment.UpdatedAt,
		assessment.ID,
		assessment.UserID,
	)
	if err != nil {
		return types.SelfAssessment{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.SelfAssessment{}, err
	}
	if affected == 0 {
		return types.SelfAssessment{}, ErrNotFound
	}
	return assessment, nil
}

func (r *AssessmentRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	const query = `DELETE FROM self_assessments WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
