package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/types"
)

// EventRepository handles persistence for wellness events. Events are
// append-only; there are no update or delete operations.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventFilter narrows List results. Zero-valued fields match everything.
type EventFilter struct {
	UserID       *uuid.UUID
	EventType    string
	Source       string
	OccurredFrom *time.Time
	OccurredTo   *time.Time
}

func (r *EventRepository) Create(ctx context.Context, event types.WellnessEvent) (types.WellnessEvent, error) {
	event.ID = uuid.New()
	event.CreatedAt = time.Now()

	const query = `
		INSERT INTO wellness_events (id, user_id, event_type, occurred_at, source, value, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.UserID,
		event.EventType,
		event.OccurredAt,
		event.Source,
		event.Value,
		nullableJSON(event.Metadata),
		event.CreatedAt,
	)
	if err != nil {
		return types.WellnessEvent{}, err
	}
	return event, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (types.WellnessEvent, error) {
	const query = `
		SELECT id, user_id, event_type, occurred_at, source, value, metadata, created_at
		FROM wellness_events
		WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.WellnessEvent{}, ErrNotFound
		}
		return types.WellnessEvent{}, err
	}
	return event, nil
}

// List returns one page of events matching the filter, newest occurrence
// first, plus the total matching count.
func (r *EventRepository) List(ctx context.Context, filter EventFilter, offset, limit int) ([]types.WellnessEvent, int, error) {
	where := ""
	args := []any{}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = appendCondition(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.EventType != "" {
		args = append(args, filter.EventType)
		where = appendCondition(where, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		where = appendCondition(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if filter.OccurredFrom != nil {
		args = append(args, *filter.OccurredFrom)
		where = appendCondition(where, fmt.Sprintf("occurred_at >= $%d", len(args)))
	}
	if filter.OccurredTo != nil {
		args = append(args, *filter.OccurredTo)
		where = appendCondition(where, fmt.Sprintf("occurred_at <= $%d", len(args)))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM wellness_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `
		SELECT id, user_id, event_type, occurred_at, source, value, metadata, created_at
		FROM wellness_events` + where + fmt.Sprintf(`
		ORDER BY occurred_at DESC, id DESC
		OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, listQuery, append(args, offset, limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]types.WellnessEvent, 0, limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (types.WellnessEvent, error) {
	var event types.WellnessEvent
	var userID uuid.NullUUID
	var value sql.NullFloat64
	var metadata []byte
	if err := row.Scan(
		&event.ID,
		&userID,
		&event.EventType,
		&event.OccurredAt,
		&event.Source,
		&value,
		&metadata,
		&event.CreatedAt,
	); err != nil {
		return types.WellnessEvent{}, err
	}
	if userID.Valid {
		id := userID.UUID
		event.UserID = &id
	}
	if value.Valid {
		v := value.Float64
		event.Value = &v
	}
	event.Metadata = metadata
	return event, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
