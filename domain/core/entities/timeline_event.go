package entities

import (
	"time"

	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// TimelineEventType enumerates the kinds of auditable activity
type TimelineEventType string

const (
	EventContentAnalyzed         TimelineEventType = "contentAnalyzed"
	EventPatternDetected         TimelineEventType = "patternDetected"
	EventKnowledgeCreated        TimelineEventType = "knowledgeCreated"
	EventKnowledgeUpdated        TimelineEventType = "knowledgeUpdated"
	EventInferenceMade           TimelineEventType = "inferenceMade"
	EventRecommendationGenerated TimelineEventType = "recommendationGenerated"
	EventContradictionDetected   TimelineEventType = "contradictionDetected"
	EventExportTriggered         TimelineEventType = "exportTriggered"
	EventSuppressionApplied      TimelineEventType = "suppressionApplied"
	EventUserCorrection          TimelineEventType = "userCorrection"
)

// ValidTimelineEventType reports whether t is one of the ten event kinds
func ValidTimelineEventType(t TimelineEventType) bool {
	switch t {
	case EventContentAnalyzed, EventPatternDetected, EventKnowledgeCreated,
		EventKnowledgeUpdated, EventInferenceMade, EventRecommendationGenerated,
		EventContradictionDetected, EventExportTriggered, EventSuppressionApplied,
		EventUserCorrection:
		return true
	}
	return false
}

// EventImpact describes what the system did with the analyzed signal
type EventImpact string

const (
	ImpactLearned    EventImpact = "learned"
	ImpactIgnored    EventImpact = "ignored"
	ImpactExported   EventImpact = "exported"
	ImpactInfluenced EventImpact = "influenced"
)

// ValidEventImpact reports whether i is a known impact value
func ValidEventImpact(i EventImpact) bool {
	switch i {
	case ImpactLearned, ImpactIgnored, ImpactExported, ImpactInfluenced:
		return true
	}
	return false
}

// TimelineEvent is an immutable audit record of a significant graph or
// profile mutation. The timeline is append-only and ordered by timestamp.
type TimelineEvent struct {
	ID            valueobjects.EventID        `json:"id"`
	Timestamp     time.Time                   `json:"timestamp"`
	Type          TimelineEventType           `json:"type"`
	Description   string                      `json:"description"`
	Details       map[string]string           `json:"details,omitempty"`
	Sources       []string                    `json:"sources,omitempty"`
	Impact        EventImpact                 `json:"impact"`
	Confidence    valueobjects.Confidence     `json:"confidence"`
	RelatedEvents []valueobjects.EventID      `json:"related_events,omitempty"`
}

// NewTimelineEvent creates a validated timeline event
func NewTimelineEvent(
	eventType TimelineEventType,
	description string,
	details map[string]string,
	sources []string,
	impact EventImpact,
	confidence valueobjects.Confidence,
	related ...valueobjects.EventID,
) (*TimelineEvent, error) {
	event := &TimelineEvent{
		ID:            valueobjects.NewEventID(),
		Timestamp:     time.Now(),
		Type:          eventType,
		Description:   description,
		Details:       details,
		Sources:       sources,
		Impact:        impact,
		Confidence:    confidence,
		RelatedEvents: related,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

// Validate rejects malformed events before they reach the timeline
func (e *TimelineEvent) Validate() error {
	if !ValidTimelineEventType(e.Type) {
		return pkgerrors.NewInvalidEventError("unrecognized event type: " + string(e.Type))
	}
	if !ValidEventImpact(e.Impact) {
		return pkgerrors.NewInvalidEventError("unrecognized event impact: " + string(e.Impact))
	}
	if e.Description == "" {
		return pkgerrors.NewInvalidEventError("event description is required")
	}
	return nil
}
