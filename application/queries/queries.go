package queries

import (
	"errors"
	"time"

	"cortex/pkg/common"
)

// GetGraphSnapshotQuery requests a consistent read-only copy of the graph
type GetGraphSnapshotQuery struct {
	UserID string
}

// Validate validates the query
func (q GetGraphSnapshotQuery) Validate() error {
	return requireUser(q.UserID)
}

// GetStatisticsQuery requests the current graph statistics
type GetStatisticsQuery struct {
	UserID string
}

// Validate validates the query
func (q GetStatisticsQuery) Validate() error {
	return requireUser(q.UserID)
}

// GetNeighborsQuery requests the (edge, node) pairs around a node
type GetNeighborsQuery struct {
	UserID    string
	NodeID    string
	Direction string
}

// Validate validates the query
func (q GetNeighborsQuery) Validate() error {
	if err := requireUser(q.UserID); err != nil {
		return err
	}
	if q.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// ListPendingNodesQuery requests nodes awaiting user review
type ListPendingNodesQuery struct {
	UserID string
	Page   common.PageRequest
}

// Validate validates the query
func (q ListPendingNodesQuery) Validate() error {
	return requireUser(q.UserID)
}

// ListContradictionsQuery requests contradiction records
type ListContradictionsQuery struct {
	UserID         string
	UnresolvedOnly bool
	Page           common.PageRequest
}

// Validate validates the query
func (q ListContradictionsQuery) Validate() error {
	return requireUser(q.UserID)
}

// ListSuppressionRulesQuery requests all rules in evaluation order
type ListSuppressionRulesQuery struct {
	UserID string
}

// Validate validates the query
func (q ListSuppressionRulesQuery) Validate() error {
	return requireUser(q.UserID)
}

// GetTimelineQuery requests timeline events at or after Since
type GetTimelineQuery struct {
	UserID string
	Since  time.Time
	Page   common.PageRequest
}

// Validate validates the query
func (q GetTimelineQuery) Validate() error {
	return requireUser(q.UserID)
}

// GetRelatedEventsQuery traverses an event's back-links
type GetRelatedEventsQuery struct {
	UserID  string
	EventID string
}

// Validate validates the query
func (q GetRelatedEventsQuery) Validate() error {
	if err := requireUser(q.UserID); err != nil {
		return err
	}
	if q.EventID == "" {
		return errors.New("event ID is required")
	}
	return nil
}

// GetProfileQuery requests the user's cognitive profile
type GetProfileQuery struct {
	UserID string
}

// Validate validates the query
func (q GetProfileQuery) Validate() error {
	return requireUser(q.UserID)
}

func requireUser(userID string) error {
	if userID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
