package events

import (
	"time"

	"cortex/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func base(aggregateID, eventType string) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   time.Now(),
		Version:     1,
	}
}

// Node Events

// NodeCreated is raised when an observation produces a new knowledge node
type NodeCreated struct {
	BaseEvent
	NodeID     valueobjects.NodeID `json:"node_id"`
	NodeType   string              `json:"node_type"`
	Confidence float64             `json:"confidence"`
	Sources    []string            `json:"sources"`
}

// NewNodeCreated creates a NodeCreated event
func NewNodeCreated(nodeID valueobjects.NodeID, nodeType string, confidence float64, sources []string) NodeCreated {
	return NodeCreated{
		BaseEvent:  base(nodeID.String(), "node.created"),
		NodeID:     nodeID,
		NodeType:   nodeType,
		Confidence: confidence,
		Sources:    sources,
	}
}

// NodeMerged is raised when an observation merges into an existing node
type NodeMerged struct {
	BaseEvent
	NodeID         valueobjects.NodeID `json:"node_id"`
	ContentChanged bool                `json:"content_changed"`
	Confidence     float64             `json:"confidence"`
	Sources        []string            `json:"sources"`
}

// NewNodeMerged creates a NodeMerged event
func NewNodeMerged(nodeID valueobjects.NodeID, contentChanged bool, confidence float64, sources []string) NodeMerged {
	return NodeMerged{
		BaseEvent:      base(nodeID.String(), "node.merged"),
		NodeID:         nodeID,
		ContentChanged: contentChanged,
		Confidence:     confidence,
		Sources:        sources,
	}
}

// NodeEdited is raised when the user rewrites a node's claim
type NodeEdited struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
}

// NewNodeEdited creates a NodeEdited event
func NewNodeEdited(nodeID valueobjects.NodeID) NodeEdited {
	return NodeEdited{
		BaseEvent: base(nodeID.String(), "node.edited"),
		NodeID:    nodeID,
	}
}

// NodeApproved is raised when the user approves a pending node
type NodeApproved struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
}

// NewNodeApproved creates a NodeApproved event
func NewNodeApproved(nodeID valueobjects.NodeID) NodeApproved {
	return NodeApproved{
		BaseEvent: base(nodeID.String(), "node.approved"),
		NodeID:    nodeID,
	}
}

// NodeRejected is raised when a node is soft-deleted
type NodeRejected struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
	Reason string              `json:"reason"`
}

// NewNodeRejected creates a NodeRejected event
func NewNodeRejected(nodeID valueobjects.NodeID, reason string) NodeRejected {
	return NodeRejected{
		BaseEvent: base(nodeID.String(), "node.rejected"),
		NodeID:    nodeID,
		Reason:    reason,
	}
}

// Edge Events

// EdgeUpserted is raised when an edge is created or strengthened
type EdgeUpserted struct {
	BaseEvent
	EdgeID       valueobjects.EdgeID `json:"edge_id"`
	SourceID     valueobjects.NodeID `json:"source_id"`
	TargetID     valueobjects.NodeID `json:"target_id"`
	Relationship string              `json:"relationship"`
	Weight       float64             `json:"weight"`
	Created      bool                `json:"created"`
}

// NewEdgeUpserted creates an EdgeUpserted event
func NewEdgeUpserted(edgeID valueobjects.EdgeID, sourceID, targetID valueobjects.NodeID, relationship string, weight float64, created bool) EdgeUpserted {
	return EdgeUpserted{
		BaseEvent:    base(string(edgeID), "edge.upserted"),
		EdgeID:       edgeID,
		SourceID:     sourceID,
		TargetID:     targetID,
		Relationship: relationship,
		Weight:       weight,
		Created:      created,
	}
}

// Contradiction Events

// ContradictionDetected is raised when two claims conflict
type ContradictionDetected struct {
	BaseEvent
	ContradictionID valueobjects.ContradictionID `json:"contradiction_id"`
	NodeID          valueobjects.NodeID          `json:"node_id"`
	ClaimA          string                       `json:"claim_a"`
	ClaimB          string                       `json:"claim_b"`
	AutoResolved    bool                         `json:"auto_resolved"`
}

// NewContradictionDetected creates a ContradictionDetected event
func NewContradictionDetected(id valueobjects.ContradictionID, nodeID valueobjects.NodeID, claimA, claimB string, autoResolved bool) ContradictionDetected {
	return ContradictionDetected{
		BaseEvent:       base(string(id), "contradiction.detected"),
		ContradictionID: id,
		NodeID:          nodeID,
		ClaimA:          claimA,
		ClaimB:          claimB,
		AutoResolved:    autoResolved,
	}
}

// ContradictionResolved is raised when a contradiction is settled
type ContradictionResolved struct {
	BaseEvent
	ContradictionID valueobjects.ContradictionID `json:"contradiction_id"`
	Resolution      string                       `json:"resolution"`
}

// NewContradictionResolved creates a ContradictionResolved event
func NewContradictionResolved(id valueobjects.ContradictionID, resolution string) ContradictionResolved {
	return ContradictionResolved{
		BaseEvent:       base(string(id), "contradiction.resolved"),
		ContradictionID: id,
		Resolution:      resolution,
	}
}

// Suppression Events

// SuppressionApplied is raised when a rule blocks an ingestion candidate
type SuppressionApplied struct {
	BaseEvent
	RuleID   valueobjects.RuleID `json:"rule_id"`
	RuleType string              `json:"rule_type"`
	Source   string              `json:"source"`
}

// NewSuppressionApplied creates a SuppressionApplied event
func NewSuppressionApplied(ruleID valueobjects.RuleID, ruleType, source string) SuppressionApplied {
	return SuppressionApplied{
		BaseEvent: base(string(ruleID), "suppression.applied"),
		RuleID:    ruleID,
		RuleType:  ruleType,
		Source:    source,
	}
}

// Profile Events

// ProfileUpdated is raised after the profiler absorbs a behavioral sample
type ProfileUpdated struct {
	BaseEvent
	UserID       string `json:"user_id"`
	FatigueLevel string `json:"fatigue_level"`
}

// NewProfileUpdated creates a ProfileUpdated event
func NewProfileUpdated(userID, fatigueLevel string) ProfileUpdated {
	return ProfileUpdated{
		BaseEvent:    base(userID, "profile.updated"),
		UserID:       userID,
		FatigueLevel: fatigueLevel,
	}
}
