package services

import (
	"context"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
)

// ContradictionDetector scans node content changes for conflicting claims.
// It records contradictions and auto-resolves only when one side clearly
// dominates; everything else stays pending for user review.
type ContradictionDetector struct {
	contradictions ports.ContradictionRepository
	policy         ports.PolicyProvider
	logger         *zap.Logger
}

// NewContradictionDetector creates a detector
func NewContradictionDetector(
	contradictions ports.ContradictionRepository,
	policy ports.PolicyProvider,
	logger *zap.Logger,
) *ContradictionDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContradictionDetector{
		contradictions: contradictions,
		policy:         policy,
		logger:         logger,
	}
}

// Inspect examines the result of a node upsert. It compares the incoming
// claim against the node's prior claim, then against claims of same-topic
// nodes. Must run inside the same serialized mutation as the upsert so the
// graph it sees is the one the merge produced. Nothing is persisted here:
// the caller commits the detected records through Record once the
// surrounding mutation succeeds, so a rolled-back upsert leaves no trace.
func (d *ContradictionDetector) Inspect(
	ctx context.Context,
	graph *aggregates.KnowledgeGraph,
	result *aggregates.MergeResult,
) ([]*entities.Contradiction, error) {
	cfg := d.policy.Policy()
	node := result.Node
	found := make([]*entities.Contradiction, 0)

	minConf := cfg.MinContradictionConfidence

	// Incoming vs prior claim. Relevant even when the stored content did
	// not change: a lower-confidence negating observation still conflicts.
	if result.Outcome == aggregates.OutcomeMerged && !result.PreviousClaim.IsZero() {
		if result.IncomingClaim.MutuallyExclusive(result.PreviousClaim, cfg.TopicSimilarityThreshold) &&
			result.IncomingConfidence.Value() >= minConf &&
			result.PreviousConfidence.Value() >= minConf {
			contradiction := entities.NewContradiction(
				node.ID(),
				result.IncomingClaim.Text(),
				result.PreviousClaim.Text(),
				firstSource(result.IncomingSources),
				firstSource(result.PreviousSources),
			)
			d.tryAutoResolve(contradiction, result.IncomingConfidence, result.PreviousConfidence,
				result.IncomingSources, result.PreviousSources, graph, cfg.ResolutionConfidenceMargin)
			node.AddContradictionRef(contradiction.ID())
			found = append(found, contradiction)
		}
	}

	// Same-topic heuristic against the rest of the graph.
	similar := graph.SimilarNodes(node.ID(), node.Type(), result.CurrentClaim, cfg.TopicSimilarityThreshold)
	for _, other := range similar {
		if !result.CurrentClaim.MutuallyExclusive(other.Claim(), cfg.TopicSimilarityThreshold) {
			continue
		}
		if node.Confidence().Value() < minConf || other.Confidence().Value() < minConf {
			continue
		}
		if d.alreadyRecorded(ctx, node.ID(), result.CurrentClaim.Text(), other.Claim().Text()) {
			continue
		}

		contradiction := entities.NewContradiction(
			node.ID(),
			result.CurrentClaim.Text(),
			other.Claim().Text(),
			firstSource(node.Sources()),
			firstSource(other.Sources()),
		)
		d.tryAutoResolve(contradiction, node.Confidence(), other.Confidence(),
			node.Sources(), other.Sources(), graph, cfg.ResolutionConfidenceMargin)
		node.AddContradictionRef(contradiction.ID())
		other.AddContradictionRef(contradiction.ID())
		found = append(found, contradiction)
	}

	if len(found) > 0 {
		d.logger.Info("contradictions detected",
			zap.String("node_id", node.ID().String()),
			zap.Int("count", len(found)),
		)
	}
	return found, nil
}

// Record persists contradictions returned by Inspect. Called after the
// graph mutation that produced them has committed.
func (d *ContradictionDetector) Record(ctx context.Context, found []*entities.Contradiction) error {
	for _, c := range found {
		if err := d.contradictions.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// MarkNodeContradictionsForReview flags contradictions referencing a node
// that was just rejected. Records are kept for audit.
func (d *ContradictionDetector) MarkNodeContradictionsForReview(ctx context.Context, nodeID valueobjects.NodeID) error {
	list, err := d.contradictions.ListByNode(ctx, nodeID)
	if err != nil {
		return err
	}
	for _, c := range list {
		if c.Resolved() {
			continue
		}
		c.MarkForReview()
		if err := d.contradictions.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Resolve settles a contradiction on behalf of the user
func (d *ContradictionDetector) Resolve(ctx context.Context, id valueobjects.ContradictionID, resolution string) (*entities.Contradiction, error) {
	contradiction, err := d.contradictions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contradiction.Resolve(resolution); err != nil {
		return nil, err
	}
	if err := d.contradictions.Save(ctx, contradiction); err != nil {
		return nil, err
	}
	return contradiction, nil
}

// tryAutoResolve resolves a contradiction automatically only when one
// claim dominates the other in confidence by the configured margin AND
// comes from strictly higher-trust sources. A confidence gap alone, with
// equal trust, stays pending for user review. The resolution note
// references the superseding claim.
func (d *ContradictionDetector) tryAutoResolve(
	contradiction *entities.Contradiction,
	confA, confB valueobjects.Confidence,
	sourcesA, sourcesB []string,
	graph *aggregates.KnowledgeGraph,
	margin float64,
) {
	cfg := graph.Config()
	trustA := bestTrust(cfg.SourceTrust, cfg.DefaultSourceTrust, sourcesA)
	trustB := bestTrust(cfg.SourceTrust, cfg.DefaultSourceTrust, sourcesB)

	switch {
	case confA.Value()-confB.Value() >= margin && trustA > trustB:
		contradiction.Resolve("superseded by higher-trust claim: " + contradiction.ClaimA())
	case confB.Value()-confA.Value() >= margin && trustB > trustA:
		contradiction.Resolve("superseded by higher-trust claim: " + contradiction.ClaimB())
	}
}

// alreadyRecorded avoids duplicate records for the same claim pair
func (d *ContradictionDetector) alreadyRecorded(ctx context.Context, nodeID valueobjects.NodeID, claimA, claimB string) bool {
	existing, err := d.contradictions.ListByNode(ctx, nodeID)
	if err != nil {
		return false
	}
	for _, c := range existing {
		if (c.ClaimA() == claimA && c.ClaimB() == claimB) ||
			(c.ClaimA() == claimB && c.ClaimB() == claimA) {
			return true
		}
	}
	return false
}

func firstSource(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	return sources[0]
}

func bestTrust(trust map[string]float64, fallback float64, sources []string) float64 {
	if len(sources) == 0 {
		return fallback
	}
	best := 0.0
	for _, s := range sources {
		t, ok := trust[s]
		if !ok {
			t = fallback
		}
		if t > best {
			best = t
		}
	}
	return best
}
