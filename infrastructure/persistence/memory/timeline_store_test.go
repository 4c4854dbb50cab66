package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/application/ports"
	"cortex/domain/config"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

func timelinePolicy(maxEvents int) ports.StaticPolicy {
	cfg := config.DefaultDomainConfig()
	cfg.MaxTimelineEvents = maxEvents
	return ports.StaticPolicy{Config: cfg}
}

func newEvent(t *testing.T, description string, related ...valueobjects.EventID) *entities.TimelineEvent {
	t.Helper()
	event, err := entities.NewTimelineEvent(
		entities.EventContentAnalyzed,
		description,
		nil,
		nil,
		entities.ImpactLearned,
		valueobjects.MustConfidence(0.5),
		related...,
	)
	require.NoError(t, err)
	return event
}

func TestTimelineRecordKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewTimelineStore(timelinePolicy(100), nil, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, newEvent(t, fmt.Sprintf("event %d", i))))
	}

	events, err := store.Recent(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 5)

	for i, event := range events {
		assert.Equal(t, fmt.Sprintf("event %d", i), event.Description)
		if i > 0 {
			assert.True(t, event.Timestamp.After(events[i-1].Timestamp),
				"timestamps must be strictly increasing")
		}
	}
}

func TestTimelineRecordRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewTimelineStore(timelinePolicy(100), nil, nil)

	event := newEvent(t, "first")
	require.NoError(t, store.Record(ctx, event))
	require.Error(t, store.Record(ctx, event))
}

func TestTimelineRecentSince(t *testing.T) {
	ctx := context.Background()
	store := NewTimelineStore(timelinePolicy(100), nil, nil)

	require.NoError(t, store.Record(ctx, newEvent(t, "old")))
	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Record(ctx, newEvent(t, "new")))

	events, err := store.Recent(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Description)
}

func TestTimelineRetentionEvictsOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewTimelineStore(timelinePolicy(3), nil, nil)

	var first *entities.TimelineEvent
	for i := 0; i < 5; i++ {
		event := newEvent(t, fmt.Sprintf("event %d", i))
		if i == 0 {
			first = event
		}
		require.NoError(t, store.Record(ctx, event))
	}

	events, err := store.Recent(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "event 2", events[0].Description)
	assert.Equal(t, "event 4", events[2].Description)

	_, err = store.GetByID(ctx, first.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

type capturingArchive struct {
	archived []*entities.TimelineEvent
}

func (a *capturingArchive) Archive(ctx context.Context, events []*entities.TimelineEvent) error {
	a.archived = append(a.archived, events...)
	return nil
}

func (a *capturingArchive) Query(ctx context.Context, from, to time.Time, limit int) ([]*entities.TimelineEvent, error) {
	return nil, nil
}

func TestTimelineEvictionFeedsArchive(t *testing.T) {
	ctx := context.Background()
	archive := &capturingArchive{}
	store := NewTimelineStore(timelinePolicy(2), archive, nil)

	for i := 0; i < 4; i++ {
		require.NoError(t, store.Record(ctx, newEvent(t, fmt.Sprintf("event %d", i))))
	}

	require.Len(t, archive.archived, 2)
	assert.Equal(t, "event 0", archive.archived[0].Description)
	assert.Equal(t, "event 1", archive.archived[1].Description)
}

func TestTimelineRelatedToBothDirections(t *testing.T) {
	ctx := context.Background()
	store := NewTimelineStore(timelinePolicy(100), nil, nil)

	parent := newEvent(t, "analysis")
	require.NoError(t, store.Record(ctx, parent))

	child := newEvent(t, "knowledge", parent.ID)
	require.NoError(t, store.Record(ctx, child))

	unrelated := newEvent(t, "unrelated")
	require.NoError(t, store.Record(ctx, unrelated))

	// Forward: the child names its parent.
	related, err := store.RelatedTo(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, parent.ID, related[0].ID)

	// Backward: the parent finds events pointing at it.
	related, err = store.RelatedTo(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, child.ID, related[0].ID)

	_, err = store.RelatedTo(ctx, valueobjects.NewEventID())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}
