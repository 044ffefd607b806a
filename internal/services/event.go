package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wellbeam-hq/apiserver/internal/mq"
	"github.com/wellbeam-hq/apiserver/internal/pagination"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
)

// ErrEventTypeRequired is returned when an event carries no type label.
var ErrEventTypeRequired = errors.New("event type is required")

// EventsChannel is the fan-out channel accepted wellness events are
// published to when a broker is configured.
const EventsChannel = "wellness.events"

// EventRepository defines persistence operations for wellness events.
type EventRepository interface {
	Create(ctx context.Context, event types.WellnessEvent) (types.WellnessEvent, error)
	GetByID(ctx context.Context, id uuid.UUID) (types.WellnessEvent, error)
	List(ctx context.Context, filter store.EventFilter, offset, limit int) ([]types.WellnessEvent, int, error)
}

// EventService encapsulates wellness-event use-cases. Accepted events are
// fanned out to the configured broker best-effort; publish failures are
// logged and never fail the ingestion.
type EventService struct {
	repo      EventRepository
	publisher mq.Publisher
	logger    zerolog.Logger
}

func NewEventService(repo EventRepository, publisher mq.Publisher, logger zerolog.Logger) *EventService {
	if publisher == nil {
		publisher = mq.Noop{}
	}
	return &EventService{repo: repo, publisher: publisher, logger: logger}
}

// Create validates defaults and persists the event, then publishes it.
func (s *EventService) Create(ctx context.Context, event types.WellnessEvent) (types.WellnessEvent, error) {
	event.EventType = strings.TrimSpace(event.EventType)
	if event.EventType == "" {
		return types.WellnessEvent{}, ErrEventTypeRequired
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if strings.TrimSpace(event.Source) == "" {
		event.Source = types.DefaultEventSource
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return types.WellnessEvent{}, err
	}

	s.publish(ctx, created)
	return created, nil
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (types.WellnessEvent, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of events matching the filter.
func (s *EventService) List(ctx context.Context, filter store.EventFilter, page pagination.Params) (pagination.Page[types.WellnessEvent], error) {
	events, total, err := s.repo.List(ctx, filter, page.Offset(), page.Size)
	if err != nil {
		return pagination.Page[types.WellnessEvent]{}, err
	}
	return pagination.NewPage(events, page, total), nil
}

func (s *EventService) publish(ctx context.Context, event types.WellnessEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("marshal wellness event")
		return
	}
	attrs := map[string]string{"event_type": event.EventType, "source": event.Source}
	if _, err := s.publisher.Publish(ctx, EventsChannel, payload, attrs); err != nil {
		s.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("publish wellness event")
	}
}
