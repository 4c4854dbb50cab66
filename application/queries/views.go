package queries

import (
	"time"

	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/pkg/common"
)

// NeighborView is one (edge, node) pair of a traversal
type NeighborView struct {
	Edge aggregates.EdgeSnapshot `json:"edge"`
	Node aggregates.NodeSnapshot `json:"node"`
}

// ContradictionView is the caller-facing form of a contradiction record
type ContradictionView struct {
	ID          string    `json:"id"`
	NodeID      string    `json:"node_id"`
	ClaimA      string    `json:"claim_a"`
	ClaimB      string    `json:"claim_b"`
	SourceA     string    `json:"source_a,omitempty"`
	SourceB     string    `json:"source_b,omitempty"`
	DetectedAt  time.Time `json:"detected_at"`
	Resolved    bool      `json:"resolved"`
	Resolution  string    `json:"resolution,omitempty"`
	NeedsReview bool      `json:"needs_review"`
}

// NewContradictionView builds a view from a contradiction entity
func NewContradictionView(c *entities.Contradiction) ContradictionView {
	return ContradictionView{
		ID:          c.ID().String(),
		NodeID:      c.NodeID().String(),
		ClaimA:      c.ClaimA(),
		ClaimB:      c.ClaimB(),
		SourceA:     c.SourceA(),
		SourceB:     c.SourceB(),
		DetectedAt:  c.DetectedAt(),
		Resolved:    c.Resolved(),
		Resolution:  c.Resolution(),
		NeedsReview: c.NeedsReview(),
	}
}

// ProfileView is the caller-facing form of a cognitive profile
type ProfileView struct {
	UserID      string                     `json:"user_id"`
	Attention   entities.AttentionMetrics  `json:"attention"`
	Curiosity   entities.CuriosityMetrics  `json:"curiosity"`
	Learning    entities.LearningMetrics   `json:"learning"`
	Fatigue     entities.FatigueState      `json:"fatigue"`
	Bias        entities.BiasMetrics       `json:"bias"`
	SampleCount int                        `json:"sample_count"`
	LastUpdated time.Time                  `json:"last_updated"`
}

// NewProfileView builds a view from a profile entity
func NewProfileView(p *entities.CognitiveProfile) ProfileView {
	return ProfileView{
		UserID:      p.UserID(),
		Attention:   p.Attention(),
		Curiosity:   p.Curiosity(),
		Learning:    p.Learning(),
		Fatigue:     p.Fatigue(),
		Bias:        p.Bias(),
		SampleCount: p.SampleCount(),
		LastUpdated: p.LastUpdated(),
	}
}

// StatisticsView combines the graph summary with the contradiction backlog
type StatisticsView struct {
	aggregates.GraphStatistics
	UnresolvedContradictions int `json:"unresolved_contradictions"`
}

// Paged wraps a page of items with pagination info
type Paged struct {
	Items      interface{}            `json:"items"`
	Pagination *common.PaginationInfo `json:"pagination"`
}
