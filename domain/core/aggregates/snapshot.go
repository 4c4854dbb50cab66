package aggregates

import (
	"time"

	"cortex/domain/config"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// GraphSnapshot is the serializable read-model of a graph. It is what
// presentation collaborators render and what snapshot stores persist.
type GraphSnapshot struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Nodes      []NodeSnapshot  `json:"nodes"`
	Edges      []EdgeSnapshot  `json:"edges"`
	Statistics GraphStatistics `json:"statistics"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// NodeSnapshot is the serialized form of a knowledge node
type NodeSnapshot struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Claim          string            `json:"claim"`
	Confidence     float64           `json:"confidence"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Sources        []string          `json:"sources,omitempty"`
	Contradictions []string          `json:"contradictions,omitempty"`
	UserEdited     bool              `json:"user_edited"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Approval       string            `json:"approval"`
	RejectReason   string            `json:"reject_reason,omitempty"`
	Version        int               `json:"version"`
}

// EdgeSnapshot is the serialized form of a knowledge edge
type EdgeSnapshot struct {
	ID            string    `json:"id"`
	SourceID      string    `json:"source_id"`
	TargetID      string    `json:"target_id"`
	Relationship  string    `json:"relationship"`
	Weight        float64   `json:"weight"`
	Confidence    float64   `json:"confidence"`
	Sources       []string  `json:"sources,omitempty"`
	Bidirectional bool      `json:"bidirectional"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot captures the full graph state. The caller must hold at least a
// read lock for the duration of the call; the returned value shares nothing
// with the live aggregate.
func (g *KnowledgeGraph) Snapshot() GraphSnapshot {
	snap := GraphSnapshot{
		ID:        g.id.String(),
		UserID:    g.userID,
		Nodes:     make([]NodeSnapshot, 0, len(g.nodes)),
		Edges:     make([]EdgeSnapshot, 0, len(g.edges)),
		CreatedAt: g.createdAt,
		UpdatedAt: g.updatedAt,
		Version:   g.version,
	}

	for _, node := range g.nodes {
		snap.Nodes = append(snap.Nodes, NewNodeSnapshot(node))
	}
	for _, edge := range g.edges {
		snap.Edges = append(snap.Edges, NewEdgeSnapshot(edge))
	}
	snap.Statistics = g.Statistics(time.Now())
	return snap
}

// ReconstructGraph rebuilds an aggregate from a snapshot. Used by
// persistence on load and by repositories to roll back a failed mutation.
func ReconstructGraph(snap GraphSnapshot, cfg *config.DomainConfig) (*KnowledgeGraph, error) {
	if snap.ID == "" || snap.UserID == "" {
		return nil, pkgerrors.NewValidationError("snapshot missing required fields")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	graph := &KnowledgeGraph{
		id:        GraphID(snap.ID),
		userID:    snap.UserID,
		nodes:     make(map[valueobjects.NodeID]*entities.KnowledgeNode, len(snap.Nodes)),
		edges:     make(map[string]*entities.KnowledgeEdge, len(snap.Edges)),
		cfg:       cfg,
		createdAt: snap.CreatedAt,
		updatedAt: snap.UpdatedAt,
		version:   snap.Version,
	}
	if graph.version < 1 {
		graph.version = 1
	}

	for _, ns := range snap.Nodes {
		node, err := reconstructNode(ns)
		if err != nil {
			return nil, err
		}
		graph.nodes[node.ID()] = node
	}

	for _, es := range snap.Edges {
		edge, err := reconstructEdge(es)
		if err != nil {
			return nil, err
		}
		if !graph.HasNode(edge.SourceID) {
			return nil, pkgerrors.NewDanglingReferenceError(es.SourceID)
		}
		if !graph.HasNode(edge.TargetID) {
			return nil, pkgerrors.NewDanglingReferenceError(es.TargetID)
		}
		graph.edges[edgeKey(edge.SourceID, edge.TargetID, edge.Relationship)] = edge
	}

	return graph, nil
}

// NewNodeSnapshot serializes a single node
func NewNodeSnapshot(node *entities.KnowledgeNode) NodeSnapshot {
	contradictions := node.Contradictions()
	ids := make([]string, len(contradictions))
	for i, c := range contradictions {
		ids[i] = c.String()
	}
	return NodeSnapshot{
		ID:             node.ID().String(),
		Type:           string(node.Type()),
		Claim:          node.Claim().Text(),
		Confidence:     node.Confidence().Value(),
		CreatedAt:      node.CreatedAt(),
		UpdatedAt:      node.UpdatedAt(),
		Sources:        node.Sources(),
		Contradictions: ids,
		UserEdited:     node.UserEdited(),
		Metadata:       node.Metadata(),
		Approval:       string(node.Approval()),
		RejectReason:   node.RejectReason(),
		Version:        node.Version(),
	}
}

func reconstructNode(ns NodeSnapshot) (*entities.KnowledgeNode, error) {
	id, err := valueobjects.NewNodeIDFromString(ns.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("snapshot node id: " + err.Error())
	}
	claim, err := valueobjects.NewClaim(ns.Claim)
	if err != nil {
		return nil, err
	}
	confidence, err := valueobjects.NewConfidence(ns.Confidence)
	if err != nil {
		return nil, err
	}
	contradictions := make([]valueobjects.ContradictionID, len(ns.Contradictions))
	for i, c := range ns.Contradictions {
		contradictions[i] = valueobjects.ContradictionID(c)
	}
	return entities.ReconstructKnowledgeNode(
		id,
		entities.NodeType(ns.Type),
		claim,
		confidence,
		ns.CreatedAt, ns.UpdatedAt,
		ns.Sources,
		contradictions,
		ns.UserEdited,
		ns.Metadata,
		entities.ApprovalStatus(ns.Approval),
		ns.RejectReason,
		ns.Version,
	)
}

// NewEdgeSnapshot serializes a single edge
func NewEdgeSnapshot(edge *entities.KnowledgeEdge) EdgeSnapshot {
	return EdgeSnapshot{
		ID:            edge.ID.String(),
		SourceID:      edge.SourceID.String(),
		TargetID:      edge.TargetID.String(),
		Relationship:  edge.Relationship,
		Weight:        edge.Weight,
		Confidence:    edge.Confidence.Value(),
		Sources:       edge.Sources,
		Bidirectional: edge.Bidirectional,
		CreatedAt:     edge.CreatedAt,
		UpdatedAt:     edge.UpdatedAt,
	}
}

func reconstructEdge(es EdgeSnapshot) (*entities.KnowledgeEdge, error) {
	sourceID, err := valueobjects.NewNodeIDFromString(es.SourceID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("snapshot edge source id: " + err.Error())
	}
	targetID, err := valueobjects.NewNodeIDFromString(es.TargetID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("snapshot edge target id: " + err.Error())
	}
	confidence, err := valueobjects.NewConfidence(es.Confidence)
	if err != nil {
		return nil, err
	}
	return &entities.KnowledgeEdge{
		ID:            valueobjects.EdgeID(es.ID),
		SourceID:      sourceID,
		TargetID:      targetID,
		Relationship:  es.Relationship,
		Weight:        es.Weight,
		Confidence:    confidence,
		Sources:       es.Sources,
		Bidirectional: es.Bidirectional,
		CreatedAt:     es.CreatedAt,
		UpdatedAt:     es.UpdatedAt,
	}, nil
}
