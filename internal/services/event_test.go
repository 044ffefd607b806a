package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
)

type fakeEventRepo struct {
	created *types.WellnessEvent
}

func (f *fakeEventRepo) Create(ctx context.Context, e types.WellnessEvent) (types.WellnessEvent, error) {
	e.ID = uuid.New()
	f.created = &e
	return e, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (types.WellnessEvent, error) {
	return types.WellnessEvent{}, store.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter store.EventFilter, offset, limit int) ([]types.WellnessEvent, int, error) {
	return nil, 0, nil
}

type fakePublisher struct {
	channel string
	data    []byte
	attrs   map[string]string
	err     error
	calls   int
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.calls++
	f.channel = channel
	f.data = data
	f.attrs = attrs
	return "msg-1", f.err
}

func (f *fakePublisher) Close() error { return nil }

func TestEventCreateAppliesDefaults(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	svc := NewEventService(repo, nil, zerolog.Nop())

	before := time.Now()
	created, err := svc.Create(context.Background(), types.WellnessEvent{EventType: "meeting_overload"})
	require.NoError(t, err)

	assert.Equal(t, "meeting_overload", created.EventType)
	assert.Equal(t, types.DefaultEventSource, created.Source)
	assert.False(t, created.OccurredAt.Before(before))
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestEventCreateKeepsExplicitFields(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	svc := NewEventService(repo, nil, zerolog.Nop())

	occurred := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), types.WellnessEvent{
		EventType:  "overtime",
		Source:     "calendar-sync",
		OccurredAt: occurred,
	})
	require.NoError(t, err)

	assert.Equal(t, "calendar-sync", created.Source)
	assert.True(t, created.OccurredAt.Equal(occurred))
}

func TestEventCreateRequiresType(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	svc := NewEventService(repo, nil, zerolog.Nop())

	_, err := svc.Create(context.Background(), types.WellnessEvent{EventType: "   "})
	require.ErrorIs(t, err, ErrEventTypeRequired)
	assert.Nil(t, repo.created)
}

func TestEventCreatePublishesToBroker(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	pub := &fakePublisher{}
	svc := NewEventService(repo, pub, zerolog.Nop())

	created, err := svc.Create(context.Background(), types.WellnessEvent{
		EventType: "break_skipped",
		Source:    "mobile-app",
	})
	require.NoError(t, err)

	require.Equal(t, 1, pub.calls)
	assert.Equal(t, EventsChannel, pub.channel)
	assert.Equal(t, "break_skipped", pub.attrs["event_type"])
	assert.Equal(t, "mobile-app", pub.attrs["source"])

	var published types.WellnessEvent
	require.NoError(t, json.Unmarshal(pub.data, &published))
	assert.Equal(t, created.ID, published.ID)
}

func TestEventCreateSurvivesPublishFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewEventService(repo, pub, zerolog.Nop())

	created, err := svc.Create(context.Background(), types.WellnessEvent{EventType: "overtime"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 1, pub.calls)
}
