package entities

import (
	"time"

	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// Contradiction records a detected conflict between two claims about the
// same subject. Created only by the contradiction detector; never deleted,
// only resolved.
type Contradiction struct {
	id          valueobjects.ContradictionID
	claimA      string
	claimB      string
	sourceA     string
	sourceB     string
	nodeID      valueobjects.NodeID
	detectedAt  time.Time
	resolved    bool
	resolution  string
	needsReview bool
}

// NewContradiction records a fresh conflict affecting the given node
func NewContradiction(nodeID valueobjects.NodeID, claimA, claimB, sourceA, sourceB string) *Contradiction {
	return &Contradiction{
		id:         valueobjects.NewContradictionID(),
		claimA:     claimA,
		claimB:     claimB,
		sourceA:    sourceA,
		sourceB:    sourceB,
		nodeID:     nodeID,
		detectedAt: time.Now(),
	}
}

// ReconstructContradiction rebuilds a contradiction from persisted data
func ReconstructContradiction(
	id valueobjects.ContradictionID,
	nodeID valueobjects.NodeID,
	claimA, claimB, sourceA, sourceB string,
	detectedAt time.Time,
	resolved bool,
	resolution string,
	needsReview bool,
) *Contradiction {
	return &Contradiction{
		id:          id,
		claimA:      claimA,
		claimB:      claimB,
		sourceA:     sourceA,
		sourceB:     sourceB,
		nodeID:      nodeID,
		detectedAt:  detectedAt,
		resolved:    resolved,
		resolution:  resolution,
		needsReview: needsReview,
	}
}

// ID returns the contradiction's identifier
func (c *Contradiction) ID() valueobjects.ContradictionID { return c.id }

// NodeID returns the affected node
func (c *Contradiction) NodeID() valueobjects.NodeID { return c.nodeID }

// ClaimA returns the first conflicting claim
func (c *Contradiction) ClaimA() string { return c.claimA }

// ClaimB returns the second conflicting claim
func (c *Contradiction) ClaimB() string { return c.claimB }

// SourceA returns the provenance of claim A
func (c *Contradiction) SourceA() string { return c.sourceA }

// SourceB returns the provenance of claim B
func (c *Contradiction) SourceB() string { return c.sourceB }

// DetectedAt returns when the conflict was detected
func (c *Contradiction) DetectedAt() time.Time { return c.detectedAt }

// Resolved reports whether the contradiction has been settled
func (c *Contradiction) Resolved() bool { return c.resolved }

// Resolution returns the resolution note, set only when resolved
func (c *Contradiction) Resolution() string { return c.resolution }

// NeedsReview reports whether a referenced node was rejected after detection
func (c *Contradiction) NeedsReview() bool { return c.needsReview }

// Resolve settles the contradiction. The resolution note is mandatory;
// resolved contradictions stay resolved.
func (c *Contradiction) Resolve(resolution string) error {
	if c.resolved {
		return pkgerrors.NewConflictError("contradiction already resolved")
	}
	if resolution == "" {
		return pkgerrors.NewValidationError("resolution note is required")
	}
	c.resolved = true
	c.resolution = resolution
	return nil
}

// MarkForReview flags the contradiction after its node was rejected.
// The record itself is preserved for audit.
func (c *Contradiction) MarkForReview() {
	c.needsReview = true
}
