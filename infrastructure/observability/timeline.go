package observability

import (
	"context"
	"time"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
)

// InstrumentedTimeline decorates a TimelineStore, counting recorded events
// by type. Reads pass through untouched.
type InstrumentedTimeline struct {
	next    ports.TimelineStore
	metrics *Collector
}

// NewInstrumentedTimeline wraps next with metric counting
func NewInstrumentedTimeline(next ports.TimelineStore, metrics *Collector) *InstrumentedTimeline {
	return &InstrumentedTimeline{next: next, metrics: metrics}
}

// Record counts and forwards a timeline event. Events the store refuses
// are not counted.
func (t *InstrumentedTimeline) Record(ctx context.Context, event *entities.TimelineEvent) error {
	if err := t.next.Record(ctx, event); err != nil {
		return err
	}
	t.metrics.TimelineEvents.WithLabelValues(string(event.Type)).Inc()
	return nil
}

// Recent forwards to the underlying store
func (t *InstrumentedTimeline) Recent(ctx context.Context, since time.Time) ([]*entities.TimelineEvent, error) {
	return t.next.Recent(ctx, since)
}

// RelatedTo forwards to the underlying store
func (t *InstrumentedTimeline) RelatedTo(ctx context.Context, id valueobjects.EventID) ([]*entities.TimelineEvent, error) {
	return t.next.RelatedTo(ctx, id)
}

// GetByID forwards to the underlying store
func (t *InstrumentedTimeline) GetByID(ctx context.Context, id valueobjects.EventID) (*entities.TimelineEvent, error) {
	return t.next.GetByID(ctx, id)
}
