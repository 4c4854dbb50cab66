package entities

import (
	"sort"
	"time"

	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// NodeType classifies what kind of knowledge a node carries
type NodeType string

const (
	NodeTypeEntity     NodeType = "entity"
	NodeTypeConcept    NodeType = "concept"
	NodeTypeBelief     NodeType = "belief"
	NodeTypeFact       NodeType = "fact"
	NodeTypeQuestion   NodeType = "question"
	NodeTypePreference NodeType = "preference"
)

// ValidNodeType reports whether t is one of the known node types
func ValidNodeType(t NodeType) bool {
	switch t {
	case NodeTypeEntity, NodeTypeConcept, NodeTypeBelief, NodeTypeFact,
		NodeTypeQuestion, NodeTypePreference:
		return true
	}
	return false
}

// ApprovalStatus is the user-facing review state of a node
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalEdited   ApprovalStatus = "edited"
)

// KnowledgeNode is the main entity representing a learned unit of knowledge.
// Rejected nodes are soft-deleted: excluded from statistics and traversal
// but retained so contradiction history stays intact.
type KnowledgeNode struct {
	id             valueobjects.NodeID
	nodeType       NodeType
	claim          valueobjects.Claim
	confidence     valueobjects.Confidence
	createdAt      time.Time
	updatedAt      time.Time
	sources        []string
	contradictions []valueobjects.ContradictionID
	userEdited     bool
	metadata       map[string]string
	approval       ApprovalStatus
	rejectReason   string
	version        int
}

// NewKnowledgeNode creates a pending node from an observed claim
func NewKnowledgeNode(nodeType NodeType, claim valueobjects.Claim, confidence valueobjects.Confidence, sources []string) (*KnowledgeNode, error) {
	if !ValidNodeType(nodeType) {
		return nil, pkgerrors.NewValidationError("unknown node type: " + string(nodeType))
	}
	if claim.IsZero() {
		return nil, pkgerrors.NewValidationError("claim cannot be empty")
	}

	now := time.Now()
	return &KnowledgeNode{
		id:         valueobjects.NewNodeID(),
		nodeType:   nodeType,
		claim:      claim,
		confidence: confidence,
		createdAt:  now,
		updatedAt:  now,
		sources:    dedupeSources(sources),
		metadata:   make(map[string]string),
		approval:   ApprovalPending,
		version:    1,
	}, nil
}

// ReconstructKnowledgeNode rebuilds a node from persisted data with
// preserved timestamps and state
func ReconstructKnowledgeNode(
	id valueobjects.NodeID,
	nodeType NodeType,
	claim valueobjects.Claim,
	confidence valueobjects.Confidence,
	createdAt, updatedAt time.Time,
	sources []string,
	contradictions []valueobjects.ContradictionID,
	userEdited bool,
	metadata map[string]string,
	approval ApprovalStatus,
	rejectReason string,
	version int,
) (*KnowledgeNode, error) {
	if !ValidNodeType(nodeType) {
		return nil, pkgerrors.NewValidationError("unknown node type: " + string(nodeType))
	}
	if metadata == nil {
		metadata = make(map[string]string)
	}
	if version < 1 {
		version = 1
	}
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}
	return &KnowledgeNode{
		id:             id,
		nodeType:       nodeType,
		claim:          claim,
		confidence:     confidence,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		sources:        append([]string(nil), sources...),
		contradictions: append([]valueobjects.ContradictionID(nil), contradictions...),
		userEdited:     userEdited,
		metadata:       metadata,
		approval:       approval,
		rejectReason:   rejectReason,
		version:        version,
	}, nil
}

// ID returns the node's unique identifier
func (n *KnowledgeNode) ID() valueobjects.NodeID { return n.id }

// Type returns the node's knowledge type
func (n *KnowledgeNode) Type() NodeType { return n.nodeType }

// Claim returns the node's current claim
func (n *KnowledgeNode) Claim() valueobjects.Claim { return n.claim }

// Confidence returns the node's current confidence
func (n *KnowledgeNode) Confidence() valueobjects.Confidence { return n.confidence }

// CreatedAt returns when the node was created
func (n *KnowledgeNode) CreatedAt() time.Time { return n.createdAt }

// UpdatedAt returns when the node was last updated
func (n *KnowledgeNode) UpdatedAt() time.Time { return n.updatedAt }

// UserEdited reports whether the user has taken ownership of the content
func (n *KnowledgeNode) UserEdited() bool { return n.userEdited }

// Approval returns the node's review state
func (n *KnowledgeNode) Approval() ApprovalStatus { return n.approval }

// Rejected reports whether the node has been soft-deleted
func (n *KnowledgeNode) Rejected() bool { return n.approval == ApprovalRejected }

// RejectReason returns the recorded rejection reason, if any
func (n *KnowledgeNode) RejectReason() string { return n.rejectReason }

// Version returns the node's version for stale-edit detection
func (n *KnowledgeNode) Version() int { return n.version }

// Sources returns the ordered provenance identifiers
func (n *KnowledgeNode) Sources() []string {
	return append([]string(nil), n.sources...)
}

// Contradictions returns ids of contradictions affecting this node
func (n *KnowledgeNode) Contradictions() []valueobjects.ContradictionID {
	return append([]valueobjects.ContradictionID(nil), n.contradictions...)
}

// Metadata returns a copy of the node's metadata
func (n *KnowledgeNode) Metadata() map[string]string {
	out := make(map[string]string, len(n.metadata))
	for k, v := range n.metadata {
		out[k] = v
	}
	return out
}

// MergeObservation folds an automated observation of the same subject into
// this node. Content is replaced only when the observation's confidence is
// strictly higher and the user has not edited the node; sources are always
// unioned and confidence reconciled by trust-weighted average.
// Returns whether the content changed.
func (n *KnowledgeNode) MergeObservation(
	claim valueobjects.Claim,
	confidence valueobjects.Confidence,
	sources []string,
	ownTrust, observedTrust float64,
) bool {
	contentChanged := false
	if !n.userEdited && confidence.GreaterThan(n.confidence) && !claim.Equals(n.claim) {
		n.claim = claim
		contentChanged = true
	}

	n.confidence = n.confidence.Reconcile(confidence, ownTrust, observedTrust)
	n.sources = dedupeSources(append(n.sources, sources...))
	n.touch()

	return contentChanged
}

// ApplyUserEdit replaces the node content on behalf of the user. The
// submitted version must match the current one or the edit is stale.
// A user-edited node never receives automated content overwrites afterward.
func (n *KnowledgeNode) ApplyUserEdit(claim valueobjects.Claim, submittedVersion int) error {
	if n.approval == ApprovalRejected {
		return pkgerrors.NewValidationError("cannot edit rejected node")
	}
	if claim.IsZero() {
		return pkgerrors.NewValidationError("claim cannot be empty")
	}
	if submittedVersion != n.version {
		return pkgerrors.NewStaleEditError(n.id.String(), submittedVersion, n.version)
	}

	n.claim = claim
	n.userEdited = true
	n.approval = ApprovalEdited
	n.touch()
	return nil
}

// Approve marks the node as user-approved
func (n *KnowledgeNode) Approve() error {
	if n.approval == ApprovalRejected {
		return pkgerrors.NewValidationError("cannot approve rejected node")
	}
	if n.approval == ApprovalApproved {
		return nil
	}
	n.approval = ApprovalApproved
	n.touch()
	return nil
}

// Reject soft-deletes the node. Idempotent; edges and contradiction
// references are intentionally left in place.
func (n *KnowledgeNode) Reject(reason string) {
	if n.approval == ApprovalRejected {
		return
	}
	n.approval = ApprovalRejected
	n.rejectReason = reason
	n.touch()
}

// AddContradictionRef records a weak back-reference to a contradiction
// affecting this node
func (n *KnowledgeNode) AddContradictionRef(id valueobjects.ContradictionID) {
	for _, existing := range n.contradictions {
		if existing == id {
			return
		}
	}
	n.contradictions = append(n.contradictions, id)
}

// SetMetadata sets a metadata entry
func (n *KnowledgeNode) SetMetadata(key, value string) {
	n.metadata[key] = value
}

// touch advances updatedAt monotonically and bumps the version
func (n *KnowledgeNode) touch() {
	now := time.Now()
	if now.After(n.updatedAt) {
		n.updatedAt = now
	}
	n.version++
}

// dedupeSources unions provenance identifiers preserving first-seen order
func dedupeSources(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// SortNodesByUpdatedAt orders nodes newest-first, for stable listings
func SortNodesByUpdatedAt(nodes []*KnowledgeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].updatedAt.After(nodes[j].updatedAt)
	})
}
