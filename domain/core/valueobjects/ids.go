package valueobjects

import "github.com/google/uuid"

// EdgeID identifies a knowledge edge
type EdgeID string

// NewEdgeID creates a new random EdgeID
func NewEdgeID() EdgeID {
	return EdgeID(uuid.New().String())
}

// String returns the string representation
func (id EdgeID) String() string { return string(id) }

// ContradictionID identifies a contradiction record
type ContradictionID string

// NewContradictionID creates a new random ContradictionID
func NewContradictionID() ContradictionID {
	return ContradictionID(uuid.New().String())
}

// String returns the string representation
func (id ContradictionID) String() string { return string(id) }

// RuleID identifies a suppression rule
type RuleID string

// NewRuleID creates a new random RuleID
func NewRuleID() RuleID {
	return RuleID(uuid.New().String())
}

// String returns the string representation
func (id RuleID) String() string { return string(id) }

// EventID identifies a timeline event
type EventID string

// NewEventID creates a new random EventID
func NewEventID() EventID {
	return EventID(uuid.New().String())
}

// String returns the string representation
func (id EventID) String() string { return string(id) }
