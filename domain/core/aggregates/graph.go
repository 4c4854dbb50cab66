package aggregates

import (
	"time"

	"github.com/google/uuid"

	"cortex/domain/config"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/domain/events"
	pkgerrors "cortex/pkg/errors"
)

// GraphID represents a unique graph identifier
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// MergeOutcome describes what an upsert did
type MergeOutcome string

const (
	OutcomeCreated MergeOutcome = "created"
	OutcomeMerged  MergeOutcome = "merged"
)

// NodeCandidate is an ingestion candidate that survived suppression
type NodeCandidate struct {
	Type       entities.NodeType
	Claim      valueobjects.Claim
	Confidence valueobjects.Confidence
	Sources    []string
	Metadata   map[string]string
}

// MergeResult reports the effect of upserting a candidate. It carries the
// claims before and after the merge so the contradiction detector can
// compare them even when the stored content did not change.
type MergeResult struct {
	NodeID             valueobjects.NodeID
	Outcome            MergeOutcome
	PreviousClaim      valueobjects.Claim
	IncomingClaim      valueobjects.Claim
	CurrentClaim       valueobjects.Claim
	PreviousConfidence valueobjects.Confidence
	IncomingConfidence valueobjects.Confidence
	PreviousSources    []string
	IncomingSources    []string
	ContentChanged     bool
	Node               *entities.KnowledgeNode
}

// NeighborPair is one step of a neighbor traversal
type NeighborPair struct {
	Edge *entities.KnowledgeEdge
	Node *entities.KnowledgeNode
}

// Direction selects which edges a neighbor traversal follows
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// GraphStatistics is a point-in-time summary of the graph
type GraphStatistics struct {
	TotalNodes       int            `json:"total_nodes"`
	TotalEdges       int            `json:"total_edges"`
	RejectedNodes    int            `json:"rejected_nodes"`
	PendingNodes     int            `json:"pending_nodes"`
	NodesByType      map[string]int `json:"nodes_by_type"`
	AverageDegree    float64        `json:"average_degree"`
	NodesLast24Hours int            `json:"nodes_last_24_hours"`
	EdgesLast24Hours int            `json:"edges_last_24_hours"`
	ComputedAt       time.Time      `json:"computed_at"`
}

// KnowledgeGraph is the aggregate root for one user's knowledge graph.
// It is the single consistency boundary: all node and edge mutations go
// through it and callers serialize access (one writer at a time).
type KnowledgeGraph struct {
	id        GraphID
	userID    string
	nodes     map[valueobjects.NodeID]*entities.KnowledgeNode
	edges     map[string]*entities.KnowledgeEdge
	cfg       *config.DomainConfig
	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []events.DomainEvent
}

// NewKnowledgeGraph creates an empty graph for a user
func NewKnowledgeGraph(userID string, cfg *config.DomainConfig) (*KnowledgeGraph, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID required")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	now := time.Now()
	return &KnowledgeGraph{
		id:        NewGraphID(),
		userID:    userID,
		nodes:     make(map[valueobjects.NodeID]*entities.KnowledgeNode),
		edges:     make(map[string]*entities.KnowledgeEdge),
		cfg:       cfg,
		createdAt: now,
		updatedAt: now,
		version:   1,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the graph's unique identifier
func (g *KnowledgeGraph) ID() GraphID { return g.id }

// UserID returns the owner's ID
func (g *KnowledgeGraph) UserID() string { return g.userID }

// CreatedAt returns when the graph was created
func (g *KnowledgeGraph) CreatedAt() time.Time { return g.createdAt }

// UpdatedAt returns when the graph was last mutated
func (g *KnowledgeGraph) UpdatedAt() time.Time { return g.updatedAt }

// Version returns the aggregate version, bumped on every mutation
func (g *KnowledgeGraph) Version() int { return g.version }

// Config returns the learning policy the graph operates under
func (g *KnowledgeGraph) Config() *config.DomainConfig { return g.cfg }

// UpsertNode folds a candidate into the graph. The candidate merges into
// an existing live node of the same type when claim similarity crosses the
// configured threshold; otherwise a new pending node is created.
func (g *KnowledgeGraph) UpsertNode(candidate NodeCandidate) (*MergeResult, error) {
	if candidate.Claim.IsZero() {
		return nil, pkgerrors.NewValidationError("candidate claim cannot be empty")
	}

	if target := g.findMergeTarget(candidate); target != nil {
		previous := target.Claim()
		previousConfidence := target.Confidence()
		previousSources := target.Sources()
		ownTrust := g.trustOf(previousSources)
		observedTrust := g.trustOf(candidate.Sources)
		changed := target.MergeObservation(candidate.Claim, candidate.Confidence, candidate.Sources, ownTrust, observedTrust)
		for k, v := range candidate.Metadata {
			target.SetMetadata(k, v)
		}
		g.touch()
		g.addEvent(events.NewNodeMerged(target.ID(), changed, target.Confidence().Value(), target.Sources()))

		return &MergeResult{
			NodeID:             target.ID(),
			Outcome:            OutcomeMerged,
			PreviousClaim:      previous,
			IncomingClaim:      candidate.Claim,
			CurrentClaim:       target.Claim(),
			PreviousConfidence: previousConfidence,
			IncomingConfidence: candidate.Confidence,
			PreviousSources:    previousSources,
			IncomingSources:    candidate.Sources,
			ContentChanged:     changed,
			Node:               target,
		}, nil
	}

	if g.cfg.MaxNodesPerGraph > 0 && len(g.nodes) >= g.cfg.MaxNodesPerGraph {
		return nil, pkgerrors.NewValidationError("graph node limit reached")
	}

	node, err := entities.NewKnowledgeNode(candidate.Type, candidate.Claim, candidate.Confidence, candidate.Sources)
	if err != nil {
		return nil, err
	}
	for k, v := range candidate.Metadata {
		node.SetMetadata(k, v)
	}

	g.nodes[node.ID()] = node
	g.touch()
	g.addEvent(events.NewNodeCreated(node.ID(), string(node.Type()), node.Confidence().Value(), node.Sources()))

	return &MergeResult{
		NodeID:             node.ID(),
		Outcome:            OutcomeCreated,
		IncomingClaim:      candidate.Claim,
		CurrentClaim:       node.Claim(),
		IncomingConfidence: candidate.Confidence,
		IncomingSources:    candidate.Sources,
		ContentChanged:     true,
		Node:               node,
	}, nil
}

// UpsertEdge records a relationship observation. An existing
// (source, target, relationship) triple is strengthened instead of
// duplicated. Endpoints must exist and be live.
func (g *KnowledgeGraph) UpsertEdge(
	sourceID, targetID valueobjects.NodeID,
	relationship string,
	observedWeight float64,
	observedConfidence valueobjects.Confidence,
	observedSources []string,
	bidirectional bool,
) (*entities.KnowledgeEdge, bool, error) {
	if relationship == "" {
		return nil, false, pkgerrors.NewValidationError("relationship cannot be empty")
	}
	if sourceID.Equals(targetID) {
		return nil, false, pkgerrors.NewValidationError("cannot connect node to itself")
	}

	if _, err := g.liveNode(sourceID); err != nil {
		return nil, false, err
	}
	if _, err := g.liveNode(targetID); err != nil {
		return nil, false, err
	}

	key := edgeKey(sourceID, targetID, relationship)
	if existing, ok := g.edges[key]; ok {
		existing.Strengthen(
			observedWeight, observedConfidence,
			g.cfg.EdgeWeightDecay, g.cfg.MaxEdgeWeight,
			g.trustOf(existing.Sources), g.trustOf(observedSources),
			observedSources,
		)
		g.touch()
		g.addEvent(events.NewEdgeUpserted(existing.ID, sourceID, targetID, relationship, existing.Weight, false))
		return existing, false, nil
	}

	if g.cfg.MaxEdgesPerNode > 0 && g.degree(sourceID) >= g.cfg.MaxEdgesPerNode {
		return nil, false, pkgerrors.NewValidationError("edge limit reached for source node")
	}

	weight := observedWeight
	if weight <= 0 {
		weight = g.cfg.DefaultWeight
	}
	edge := entities.NewKnowledgeEdge(sourceID, targetID, relationship, weight, observedConfidence, observedSources, bidirectional)
	g.edges[key] = edge
	g.touch()
	g.addEvent(events.NewEdgeUpserted(edge.ID, sourceID, targetID, relationship, edge.Weight, true))
	return edge, true, nil
}

// ApproveNode marks a node as user-approved
func (g *KnowledgeGraph) ApproveNode(id valueobjects.NodeID) error {
	node, ok := g.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node " + id.String())
	}
	if err := node.Approve(); err != nil {
		return err
	}
	g.touch()
	g.addEvent(events.NewNodeApproved(id))
	return nil
}

// RejectNode soft-deletes a node. Idempotent; edges stay in place and
// become inert for traversal.
func (g *KnowledgeGraph) RejectNode(id valueobjects.NodeID, reason string) error {
	node, ok := g.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node " + id.String())
	}
	if node.Rejected() {
		return nil
	}
	node.Reject(reason)
	g.touch()
	g.addEvent(events.NewNodeRejected(id, reason))
	return nil
}

// EditNode replaces a node's claim on behalf of the user, with optimistic
// concurrency on the submitted version.
func (g *KnowledgeGraph) EditNode(id valueobjects.NodeID, claim valueobjects.Claim, submittedVersion int) (*entities.KnowledgeNode, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node " + id.String())
	}
	if err := node.ApplyUserEdit(claim, submittedVersion); err != nil {
		return nil, err
	}
	g.touch()
	g.addEvent(events.NewNodeEdited(id))
	return node, nil
}

// GetNode retrieves a node by ID, rejected ones included
func (g *KnowledgeGraph) GetNode(id valueobjects.NodeID) (*entities.KnowledgeNode, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node " + id.String())
	}
	return node, nil
}

// HasNode checks if a node exists in the graph
func (g *KnowledgeGraph) HasNode(id valueobjects.NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes, rejected ones included
func (g *KnowledgeGraph) Nodes() []*entities.KnowledgeNode {
	nodes := make([]*entities.KnowledgeNode, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// LiveNodes returns all non-rejected nodes
func (g *KnowledgeGraph) LiveNodes() []*entities.KnowledgeNode {
	nodes := make([]*entities.KnowledgeNode, 0, len(g.nodes))
	for _, node := range g.nodes {
		if !node.Rejected() {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// PendingNodes returns nodes awaiting user review, newest first
func (g *KnowledgeGraph) PendingNodes() []*entities.KnowledgeNode {
	nodes := make([]*entities.KnowledgeNode, 0)
	for _, node := range g.nodes {
		if node.Approval() == entities.ApprovalPending {
			nodes = append(nodes, node)
		}
	}
	entities.SortNodesByUpdatedAt(nodes)
	return nodes
}

// Edges returns all edges
func (g *KnowledgeGraph) Edges() []*entities.KnowledgeEdge {
	edges := make([]*entities.KnowledgeEdge, 0, len(g.edges))
	for _, edge := range g.edges {
		edges = append(edges, edge)
	}
	return edges
}

// Neighbors traverses edges touching the node in the given direction,
// skipping rejected endpoints. Edges touching a rejected node are inert.
func (g *KnowledgeGraph) Neighbors(id valueobjects.NodeID, direction Direction) ([]NeighborPair, error) {
	if _, err := g.liveNode(id); err != nil {
		return nil, err
	}

	seen := make(map[valueobjects.NodeID]bool)
	pairs := make([]NeighborPair, 0)
	appendMatches := func(outgoing bool) {
		for _, edge := range g.edges {
			other, ok := edge.Connects(id, outgoing)
			if !ok || seen[other] {
				continue
			}
			neighbor, exists := g.nodes[other]
			if !exists || neighbor.Rejected() {
				continue
			}
			seen[other] = true
			pairs = append(pairs, NeighborPair{Edge: edge, Node: neighbor})
		}
	}

	switch direction {
	case DirectionOutgoing:
		appendMatches(true)
	case DirectionIncoming:
		appendMatches(false)
	case DirectionBoth, "":
		appendMatches(true)
		appendMatches(false)
	default:
		return nil, pkgerrors.NewValidationError("unknown direction: " + string(direction))
	}
	return pairs, nil
}

// SimilarNodes finds live nodes of the same type whose claims exceed the
// similarity threshold against the given claim, excluding the node itself.
// Used by the contradiction detector's same-topic heuristic.
func (g *KnowledgeGraph) SimilarNodes(exclude valueobjects.NodeID, nodeType entities.NodeType, claim valueobjects.Claim, threshold float64) []*entities.KnowledgeNode {
	matches := make([]*entities.KnowledgeNode, 0)
	for _, node := range g.nodes {
		if node.ID().Equals(exclude) || node.Rejected() || node.Type() != nodeType {
			continue
		}
		if claim.Similarity(node.Claim()) >= threshold {
			matches = append(matches, node)
		}
	}
	return matches
}

// Statistics computes a consistent point-in-time summary. Rejected nodes
// and edges touching them are excluded from the live counts.
func (g *KnowledgeGraph) Statistics(now time.Time) GraphStatistics {
	stats := GraphStatistics{
		NodesByType: make(map[string]int),
		ComputedAt:  now,
	}
	cutoff := now.Add(-24 * time.Hour)

	for _, node := range g.nodes {
		if node.Rejected() {
			stats.RejectedNodes++
			continue
		}
		stats.TotalNodes++
		stats.NodesByType[string(node.Type())]++
		if node.Approval() == entities.ApprovalPending {
			stats.PendingNodes++
		}
		if node.CreatedAt().After(cutoff) {
			stats.NodesLast24Hours++
		}
	}

	for _, edge := range g.edges {
		if g.isLive(edge.SourceID) && g.isLive(edge.TargetID) {
			stats.TotalEdges++
			if edge.CreatedAt.After(cutoff) {
				stats.EdgesLast24Hours++
			}
		}
	}

	if stats.TotalNodes > 0 {
		stats.AverageDegree = 2 * float64(stats.TotalEdges) / float64(stats.TotalNodes)
	}
	return stats
}

// Validate ensures graph invariants
func (g *KnowledgeGraph) Validate() error {
	for key, edge := range g.edges {
		if !g.HasNode(edge.SourceID) {
			return pkgerrors.NewDanglingReferenceError(edge.SourceID.String())
		}
		if !g.HasNode(edge.TargetID) {
			return pkgerrors.NewDanglingReferenceError(edge.TargetID.String())
		}
		if key != edgeKey(edge.SourceID, edge.TargetID, edge.Relationship) {
			return pkgerrors.NewInternalError("edge key mismatch: " + key)
		}
	}
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (g *KnowledgeGraph) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(g.events))
	copy(out, g.events)
	return out
}

// MarkEventsAsCommitted clears all uncommitted events
func (g *KnowledgeGraph) MarkEventsAsCommitted() {
	g.events = []events.DomainEvent{}
}

// Private helper methods

func (g *KnowledgeGraph) addEvent(event events.DomainEvent) {
	g.events = append(g.events, event)
}

func (g *KnowledgeGraph) touch() {
	now := time.Now()
	if now.After(g.updatedAt) {
		g.updatedAt = now
	}
	g.version++
}

// findMergeTarget picks the live node of matching type with the highest
// claim similarity above the merge threshold, or nil when the candidate
// should become a new node.
func (g *KnowledgeGraph) findMergeTarget(candidate NodeCandidate) *entities.KnowledgeNode {
	var best *entities.KnowledgeNode
	bestScore := 0.0
	for _, node := range g.nodes {
		if node.Rejected() || node.Type() != candidate.Type {
			continue
		}
		score := candidate.Claim.Similarity(node.Claim())
		if score >= g.cfg.MergeSimilarityThreshold && score > bestScore {
			best = node
			bestScore = score
		}
	}
	return best
}

func (g *KnowledgeGraph) liveNode(id valueobjects.NodeID) (*entities.KnowledgeNode, error) {
	node, ok := g.nodes[id]
	if !ok || node.Rejected() {
		return nil, pkgerrors.NewDanglingReferenceError(id.String())
	}
	return node, nil
}

func (g *KnowledgeGraph) isLive(id valueobjects.NodeID) bool {
	node, ok := g.nodes[id]
	return ok && !node.Rejected()
}

func (g *KnowledgeGraph) degree(id valueobjects.NodeID) int {
	count := 0
	for _, edge := range g.edges {
		if edge.SourceID.Equals(id) || edge.TargetID.Equals(id) {
			count++
		}
	}
	return count
}

// trustOf returns the highest configured trust across a node's sources
func (g *KnowledgeGraph) trustOf(sources []string) float64 {
	if len(sources) == 0 {
		return g.cfg.DefaultSourceTrust
	}
	best := 0.0
	for _, s := range sources {
		if t := g.cfg.TrustFor(s); t > best {
			best = t
		}
	}
	return best
}

func edgeKey(sourceID, targetID valueobjects.NodeID, relationship string) string {
	return sourceID.String() + "->" + targetID.String() + "->" + relationship
}
