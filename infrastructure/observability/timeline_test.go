package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/infrastructure/persistence/memory"
)

func recordedEvent(t *testing.T, eventType entities.TimelineEventType) *entities.TimelineEvent {
	t.Helper()
	event, err := entities.NewTimelineEvent(
		eventType,
		"observed something",
		nil,
		nil,
		entities.ImpactLearned,
		valueobjects.MustConfidence(0.5),
	)
	require.NoError(t, err)
	return event
}

func TestInstrumentedTimelineCountsRecordedEvents(t *testing.T) {
	ctx := context.Background()
	metrics := NewCollector("cortex_test")
	timeline := NewInstrumentedTimeline(memory.NewTimelineStore(ports.StaticPolicy{}, nil, nil), metrics)

	require.NoError(t, timeline.Record(ctx, recordedEvent(t, entities.EventContentAnalyzed)))
	require.NoError(t, timeline.Record(ctx, recordedEvent(t, entities.EventContentAnalyzed)))
	require.NoError(t, timeline.Record(ctx, recordedEvent(t, entities.EventKnowledgeCreated)))

	analyzed := string(entities.EventContentAnalyzed)
	created := string(entities.EventKnowledgeCreated)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.TimelineEvents.WithLabelValues(analyzed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TimelineEvents.WithLabelValues(created)))

	// Refused events are not counted.
	duplicate := recordedEvent(t, entities.EventContentAnalyzed)
	require.NoError(t, timeline.Record(ctx, duplicate))
	require.Error(t, timeline.Record(ctx, duplicate))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.TimelineEvents.WithLabelValues(analyzed)))

	// Reads pass through.
	events, err := timeline.Recent(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, events, 4)
}
