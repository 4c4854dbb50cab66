package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// TimelineStore is the in-memory append-only activity log. Events keep
// strictly increasing timestamps and the oldest events are evicted once
// the retention bound is exceeded. Evicted events are handed to the
// archive when one is configured; archival failure never blocks a write.
type TimelineStore struct {
	mu      sync.RWMutex
	events  []*entities.TimelineEvent
	byID    map[valueobjects.EventID]*entities.TimelineEvent
	policy  ports.PolicyProvider
	archive ports.TimelineArchive
	logger  *zap.Logger
}

// NewTimelineStore creates an empty timeline. archive may be nil.
func NewTimelineStore(policy ports.PolicyProvider, archive ports.TimelineArchive, logger *zap.Logger) *TimelineStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineStore{
		byID:    make(map[valueobjects.EventID]*entities.TimelineEvent),
		policy:  policy,
		archive: archive,
		logger:  logger,
	}
}

// Record appends an event to the timeline
func (s *TimelineStore) Record(ctx context.Context, event *entities.TimelineEvent) error {
	if event == nil {
		return pkgerrors.NewValidationError("timeline event is required")
	}
	if err := event.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[event.ID]; exists {
		return pkgerrors.NewValidationError("timeline event already recorded: " + event.ID.String())
	}

	// Wall clocks can stand still or step backwards between events
	// created in the same mutation; nudge the timestamp so ordering by
	// timestamp matches insertion order.
	if n := len(s.events); n > 0 {
		last := s.events[n-1].Timestamp
		if !event.Timestamp.After(last) {
			event.Timestamp = last.Add(time.Nanosecond)
		}
	}

	s.events = append(s.events, event)
	s.byID[event.ID] = event
	s.evictLocked(ctx)
	return nil
}

// Recent returns events at or after since, oldest first
func (s *TimelineStore) Recent(ctx context.Context, since time.Time) ([]*entities.TimelineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Events are timestamp-ordered, so scan from the tail.
	start := len(s.events)
	for start > 0 && !s.events[start-1].Timestamp.Before(since) {
		start--
	}

	out := make([]*entities.TimelineEvent, len(s.events)-start)
	copy(out, s.events[start:])
	return out, nil
}

// GetByID returns the event with the given ID
func (s *TimelineStore) GetByID(ctx context.Context, id valueobjects.EventID) (*entities.TimelineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.byID[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("timeline event " + id.String())
	}
	return event, nil
}

// RelatedTo returns events linked to id in either direction: events the
// given event points at, and events that point back at it.
func (s *TimelineStore) RelatedTo(ctx context.Context, id valueobjects.EventID) ([]*entities.TimelineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	root, ok := s.byID[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("timeline event " + id.String())
	}

	seen := make(map[valueobjects.EventID]bool)
	var related []*entities.TimelineEvent

	for _, ref := range root.RelatedEvents {
		if event, ok := s.byID[ref]; ok && !seen[ref] {
			seen[ref] = true
			related = append(related, event)
		}
	}
	for _, event := range s.events {
		if event.ID == id || seen[event.ID] {
			continue
		}
		for _, ref := range event.RelatedEvents {
			if ref == id {
				seen[event.ID] = true
				related = append(related, event)
				break
			}
		}
	}
	return related, nil
}

// evictLocked trims the timeline to the retention bound, oldest first
func (s *TimelineStore) evictLocked(ctx context.Context) {
	max := s.policy.Policy().MaxTimelineEvents
	if max <= 0 || len(s.events) <= max {
		return
	}

	evicted := s.events[:len(s.events)-max]
	for _, event := range evicted {
		delete(s.byID, event.ID)
	}
	s.events = append([]*entities.TimelineEvent(nil), s.events[len(s.events)-max:]...)

	if s.archive != nil {
		if err := s.archive.Archive(ctx, evicted); err != nil {
			s.logger.Warn("timeline archive failed, evicted events dropped",
				zap.Int("count", len(evicted)), zap.Error(err))
		}
	}
}
