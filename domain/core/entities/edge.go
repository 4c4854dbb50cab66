package entities

import (
	"time"

	"cortex/domain/core/valueobjects"
)

// KnowledgeEdge is a typed relationship between two knowledge nodes.
// Uniqueness is on the (source, target, relationship) triple; repeated
// observation strengthens the existing edge instead of duplicating it.
type KnowledgeEdge struct {
	ID            valueobjects.EdgeID
	SourceID      valueobjects.NodeID
	TargetID      valueobjects.NodeID
	Relationship  string
	Weight        float64
	Confidence    valueobjects.Confidence
	Sources       []string
	Bidirectional bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewKnowledgeEdge creates an edge from a first observation
func NewKnowledgeEdge(
	sourceID, targetID valueobjects.NodeID,
	relationship string,
	weight float64,
	confidence valueobjects.Confidence,
	sources []string,
	bidirectional bool,
) *KnowledgeEdge {
	now := time.Now()
	if weight < 0 {
		weight = 0
	}
	return &KnowledgeEdge{
		ID:            valueobjects.NewEdgeID(),
		SourceID:      sourceID,
		TargetID:      targetID,
		Relationship:  relationship,
		Weight:        weight,
		Confidence:    confidence,
		Sources:       dedupeSources(sources),
		Bidirectional: bidirectional,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Strengthen folds a repeated observation into the edge. Weight is
// monotonically non-decreasing, capped at maxWeight; confidence is
// reconciled the same way as node merging, weighting the edge's own
// provenance against the new observation's. Observation sources are
// unioned into the edge.
func (e *KnowledgeEdge) Strengthen(
	observedWeight float64,
	observedConfidence valueobjects.Confidence,
	decay, maxWeight float64,
	ownTrust, observedTrust float64,
	observedSources []string,
) {
	if observedWeight > 0 {
		e.Weight += observedWeight * decay
		if e.Weight > maxWeight {
			e.Weight = maxWeight
		}
	}
	e.Confidence = e.Confidence.Reconcile(observedConfidence, ownTrust, observedTrust)
	e.Sources = dedupeSources(append(e.Sources, observedSources...))

	now := time.Now()
	if now.After(e.UpdatedAt) {
		e.UpdatedAt = now
	}
}

// Connects reports whether the edge touches the node in the given direction,
// honoring the bidirectional flag for reverse traversal.
func (e *KnowledgeEdge) Connects(id valueobjects.NodeID, outgoing bool) (valueobjects.NodeID, bool) {
	if outgoing {
		if e.SourceID.Equals(id) {
			return e.TargetID, true
		}
		if e.Bidirectional && e.TargetID.Equals(id) {
			return e.SourceID, true
		}
		return valueobjects.NodeID{}, false
	}

	if e.TargetID.Equals(id) {
		return e.SourceID, true
	}
	if e.Bidirectional && e.SourceID.Equals(id) {
		return e.TargetID, true
	}
	return valueobjects.NodeID{}, false
}
