package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/application/ports"
	"cortex/domain/config"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/infrastructure/persistence/memory"
)

func detectorFixture(t *testing.T, cfg *config.DomainConfig) (*ContradictionDetector, *memory.ContradictionRepository, *aggregates.KnowledgeGraph) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	repo := memory.NewContradictionRepository()
	detector := NewContradictionDetector(repo, ports.StaticPolicy{Config: cfg}, nil)

	graph, err := aggregates.NewKnowledgeGraph("user-1", cfg)
	require.NoError(t, err)
	return detector, repo, graph
}

func upsert(t *testing.T, graph *aggregates.KnowledgeGraph, text string, confidence float64, sources ...string) *aggregates.MergeResult {
	t.Helper()
	claim, err := valueobjects.NewClaim(text)
	require.NoError(t, err)
	result, err := graph.UpsertNode(aggregates.NodeCandidate{
		Type:       entities.NodeTypeFact,
		Claim:      claim,
		Confidence: valueobjects.MustConfidence(confidence),
		Sources:    sources,
	})
	require.NoError(t, err)
	return result
}

// inspect runs detection and commits the findings, as the ingest pipeline
// does after its graph mutation succeeds.
func inspect(t *testing.T, d *ContradictionDetector, graph *aggregates.KnowledgeGraph, result *aggregates.MergeResult) []*entities.Contradiction {
	t.Helper()
	ctx := context.Background()
	found, err := d.Inspect(ctx, graph, result)
	require.NoError(t, err)
	require.NoError(t, d.Record(ctx, found))
	return found
}

func TestInspectDetectsNegatedPriorClaim(t *testing.T) {
	ctx := context.Background()
	detector, repo, graph := detectorFixture(t, nil)

	upsert(t, graph, "Paris is the capital of France", 0.8, "news.example")
	merged := upsert(t, graph, "Paris is not the capital of France", 0.6, "blog.example")
	require.Equal(t, aggregates.OutcomeMerged, merged.Outcome)

	found := inspect(t, detector, graph, merged)
	require.Len(t, found, 1)

	c := found[0]
	assert.Equal(t, "Paris is not the capital of France", c.ClaimA())
	assert.Equal(t, "Paris is the capital of France", c.ClaimB())
	assert.Equal(t, "blog.example", c.SourceA())
	assert.Equal(t, "news.example", c.SourceB())
	assert.False(t, c.Resolved())

	// The node carries a back-reference.
	assert.Contains(t, merged.Node.Contradictions(), c.ID())

	pending, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestInspectIgnoresAgreeingClaims(t *testing.T) {
	ctx := context.Background()
	detector, repo, graph := detectorFixture(t, nil)

	upsert(t, graph, "Paris is the capital of France", 0.8)
	merged := upsert(t, graph, "Paris is the capital city of France", 0.9)

	found := inspect(t, detector, graph, merged)
	assert.Empty(t, found)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInspectSkipsLowConfidenceClaims(t *testing.T) {
	detector, _, graph := detectorFixture(t, nil)

	upsert(t, graph, "Paris is the capital of France", 0.8)
	merged := upsert(t, graph, "Paris is not the capital of France", 0.1)

	found := inspect(t, detector, graph, merged)
	assert.Empty(t, found)
}

func TestInspectDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	detector, repo, graph := detectorFixture(t, nil)

	upsert(t, graph, "Paris is the capital of France", 0.8)
	merged := upsert(t, graph, "Paris is not the capital of France", 0.6)

	found, err := detector.Inspect(ctx, graph, merged)
	require.NoError(t, err)
	require.Len(t, found, 1)

	// Nothing reaches the repository until the caller commits.
	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, detector.Record(ctx, found))
	all, err = repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInspectDeduplicatesClaimPairs(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()
	cfg.MergeSimilarityThreshold = 0.9
	detector, repo, graph := detectorFixture(t, cfg)

	upsert(t, graph, "The moon landing footage was staged in a studio", 0.6, "a.example")
	created := upsert(t, graph, "The moon landing footage was not staged", 0.7, "b.example")

	found := inspect(t, detector, graph, created)
	require.Len(t, found, 1)

	// Observing the same claim again does not record the pair twice.
	again := upsert(t, graph, "The moon landing footage was not staged", 0.7, "b.example")
	require.Equal(t, aggregates.OutcomeMerged, again.Outcome)
	found = inspect(t, detector, graph, again)
	assert.Empty(t, found)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInspectAutoResolvesOnTrustDominance(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	// Claims stay distinct nodes so each side keeps its own trust profile.
	cfg.MergeSimilarityThreshold = 0.9
	cfg.SourceTrust = map[string]float64{
		"encyclopedia.example": 1.0,
		"conspiracy.example":   0.2,
	}
	detector, _, graph := detectorFixture(t, cfg)

	upsert(t, graph, "The moon landing footage was staged in a studio", 0.5, "conspiracy.example")
	created := upsert(t, graph, "The moon landing footage was not staged", 0.9, "encyclopedia.example")
	require.Equal(t, aggregates.OutcomeCreated, created.Outcome)

	found := inspect(t, detector, graph, created)
	require.Len(t, found, 1)

	c := found[0]
	assert.True(t, c.Resolved())
	assert.Equal(t, "superseded by higher-trust claim: "+c.ClaimA(), c.Resolution())
}

func TestInspectAutoResolvesMergedObservationOnTrustDominance(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.SourceTrust = map[string]float64{
		"encyclopedia.example": 1.0,
		"conspiracy.example":   0.2,
	}
	detector, _, graph := detectorFixture(t, cfg)

	// The negating observation merges into the prior node; dominance is
	// judged against the claim's provenance before the source union.
	upsert(t, graph, "The moon landing footage was staged in a studio", 0.5, "conspiracy.example")
	merged := upsert(t, graph, "The moon landing footage was not staged in a studio", 0.9, "encyclopedia.example")
	require.Equal(t, aggregates.OutcomeMerged, merged.Outcome)

	found := inspect(t, detector, graph, merged)
	require.Len(t, found, 1)

	c := found[0]
	assert.True(t, c.Resolved())
	assert.Equal(t, "superseded by higher-trust claim: "+c.ClaimA(), c.Resolution())
	assert.Equal(t, "The moon landing footage was not staged in a studio", c.ClaimA())
}

func TestInspectKeepsCloseCallsPending(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MergeSimilarityThreshold = 0.9
	detectorSvc, _, graph := detectorFixture(t, cfg)

	// Equal trust, confidence gap below the resolution margin.
	upsert(t, graph, "The moon landing footage was staged in a studio", 0.6, "a.example")
	created := upsert(t, graph, "The moon landing footage was not staged", 0.7, "b.example")

	found := inspect(t, detectorSvc, graph, created)
	require.Len(t, found, 1)
	assert.False(t, found[0].Resolved())
}

func TestInspectKeepsConfidenceGapPendingAtEqualTrust(t *testing.T) {
	ctx := context.Background()
	detector, repo, graph := detectorFixture(t, nil)

	// A wide confidence gap alone never auto-resolves: both sources sit at
	// the default trust, so the conflict waits for the user.
	upsert(t, graph, "Paris is the capital of France", 0.9, "atlas.example")
	merged := upsert(t, graph, "Paris is not the capital of France", 0.4, "forum.example")
	require.Equal(t, aggregates.OutcomeMerged, merged.Outcome)

	found := inspect(t, detector, graph, merged)
	require.Len(t, found, 1)
	assert.False(t, found[0].Resolved())
	assert.Empty(t, found[0].Resolution())

	// The stored content stays the higher-confidence claim.
	assert.Equal(t, "Paris is the capital of France", merged.Node.Claim().Text())

	pending, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	detector, _, graph := detectorFixture(t, nil)

	upsert(t, graph, "Paris is the capital of France", 0.8)
	merged := upsert(t, graph, "Paris is not the capital of France", 0.6)
	found := inspect(t, detector, graph, merged)
	require.Len(t, found, 1)

	resolved, err := detector.Resolve(ctx, found[0].ID(), "kept the affirmative claim")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved())
	assert.Equal(t, "kept the affirmative claim", resolved.Resolution())

	// Resolving twice is refused.
	_, err = detector.Resolve(ctx, found[0].ID(), "again")
	require.Error(t, err)
}

func TestMarkNodeContradictionsForReview(t *testing.T) {
	ctx := context.Background()
	detector, repo, graph := detectorFixture(t, nil)

	upsert(t, graph, "Paris is the capital of France", 0.8)
	merged := upsert(t, graph, "Paris is not the capital of France", 0.6)
	found := inspect(t, detector, graph, merged)
	require.Len(t, found, 1)

	require.NoError(t, detector.MarkNodeContradictionsForReview(ctx, merged.NodeID))

	c, err := repo.GetByID(ctx, found[0].ID())
	require.NoError(t, err)
	assert.True(t, c.NeedsReview())
}
