package aggregates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/config"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

func newTestGraph(t *testing.T) *KnowledgeGraph {
	t.Helper()
	graph, err := NewKnowledgeGraph("user-1", config.DefaultDomainConfig())
	require.NoError(t, err)
	return graph
}

func candidate(t *testing.T, text string, confidence float64, sources ...string) NodeCandidate {
	t.Helper()
	claim, err := valueobjects.NewClaim(text)
	require.NoError(t, err)
	return NodeCandidate{
		Type:       entities.NodeTypeFact,
		Claim:      claim,
		Confidence: valueobjects.MustConfidence(confidence),
		Sources:    sources,
	}
}

func TestUpsertNode(t *testing.T) {
	t.Run("creates a pending node", func(t *testing.T) {
		graph := newTestGraph(t)

		result, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8, "news.example"))
		require.NoError(t, err)

		assert.Equal(t, OutcomeCreated, result.Outcome)
		assert.True(t, result.ContentChanged)
		assert.Equal(t, entities.ApprovalPending, result.Node.Approval())
		assert.Len(t, graph.Nodes(), 1)
	})

	t.Run("merges a similar claim of the same type", func(t *testing.T) {
		graph := newTestGraph(t)

		first, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.6))
		require.NoError(t, err)

		second, err := graph.UpsertNode(candidate(t, "Paris is the capital city of France", 0.9))
		require.NoError(t, err)

		assert.Equal(t, OutcomeMerged, second.Outcome)
		assert.True(t, second.NodeID.Equals(first.NodeID))
		assert.Len(t, graph.Nodes(), 1)

		// The merge result keeps both sides for contradiction inspection.
		assert.Equal(t, "Paris is the capital of France", second.PreviousClaim.Text())
		assert.Equal(t, "Paris is the capital city of France", second.IncomingClaim.Text())
	})

	t.Run("dissimilar claims become distinct nodes", func(t *testing.T) {
		graph := newTestGraph(t)

		_, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
		require.NoError(t, err)
		result, err := graph.UpsertNode(candidate(t, "Whales communicate through song", 0.8))
		require.NoError(t, err)

		assert.Equal(t, OutcomeCreated, result.Outcome)
		assert.Len(t, graph.Nodes(), 2)
	})

	t.Run("never merges into a rejected node", func(t *testing.T) {
		graph := newTestGraph(t)

		first, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
		require.NoError(t, err)
		require.NoError(t, graph.RejectNode(first.NodeID, "inaccurate"))

		second, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, second.Outcome)
		assert.False(t, second.NodeID.Equals(first.NodeID))
	})
}

func TestUpsertEdge(t *testing.T) {
	graph := newTestGraph(t)
	a, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
	require.NoError(t, err)
	b, err := graph.UpsertNode(candidate(t, "France is a country in Europe", 0.8))
	require.NoError(t, err)

	t.Run("first observation creates the edge", func(t *testing.T) {
		edge, created, err := graph.UpsertEdge(a.NodeID, b.NodeID, "locatedIn", 2.0, valueobjects.MustConfidence(0.8), nil, false)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 2.0, edge.Weight)
	})

	t.Run("repeat observation strengthens with decay", func(t *testing.T) {
		edge, created, err := graph.UpsertEdge(a.NodeID, b.NodeID, "locatedIn", 2.0, valueobjects.MustConfidence(0.8), nil, false)
		require.NoError(t, err)
		assert.False(t, created)
		// 2.0 + 2.0*0.9 with the default decay.
		assert.InDelta(t, 3.8, edge.Weight, 1e-9)
		assert.Len(t, graph.Edges(), 1)
	})

	t.Run("weight is capped", func(t *testing.T) {
		var edge *entities.KnowledgeEdge
		for i := 0; i < 10; i++ {
			var err error
			edge, _, err = graph.UpsertEdge(a.NodeID, b.NodeID, "locatedIn", 5.0, valueobjects.MustConfidence(0.8), nil, false)
			require.NoError(t, err)
		}
		assert.Equal(t, graph.Config().MaxEdgeWeight, edge.Weight)
	})

	t.Run("self loops are refused", func(t *testing.T) {
		_, _, err := graph.UpsertEdge(a.NodeID, a.NodeID, "relatesTo", 1.0, valueobjects.MustConfidence(0.5), nil, false)
		require.Error(t, err)
	})

	t.Run("dangling endpoints are refused", func(t *testing.T) {
		_, _, err := graph.UpsertEdge(a.NodeID, valueobjects.NewNodeID(), "locatedIn", 1.0, valueobjects.MustConfidence(0.5), nil, false)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsDanglingReference(err))
	})
}

func TestUpsertEdgeReconcilesConfidenceBySourceTrust(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.SourceTrust = map[string]float64{
		"wiki.example": 1.0,
		"blog.example": 0.25,
	}
	graph, err := NewKnowledgeGraph("user-1", cfg)
	require.NoError(t, err)

	a, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
	require.NoError(t, err)
	b, err := graph.UpsertNode(candidate(t, "France is a country in Europe", 0.8))
	require.NoError(t, err)

	edge, created, err := graph.UpsertEdge(a.NodeID, b.NodeID, "locatedIn", 1.0,
		valueobjects.MustConfidence(0.4), []string{"blog.example"}, false)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, []string{"blog.example"}, edge.Sources)

	edge, created, err = graph.UpsertEdge(a.NodeID, b.NodeID, "locatedIn", 1.0,
		valueobjects.MustConfidence(0.8), []string{"wiki.example"}, false)
	require.NoError(t, err)
	require.False(t, created)

	// (0.4*0.25 + 0.8*1.0) / 1.25, not the plain average 0.6.
	assert.InDelta(t, 0.72, edge.Confidence.Value(), 1e-9)
	assert.ElementsMatch(t, []string{"blog.example", "wiki.example"}, edge.Sources)
}

func TestEditNode(t *testing.T) {
	graph := newTestGraph(t)
	result, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
	require.NoError(t, err)

	claim, err := valueobjects.NewClaim("Paris has been the French capital since 987")
	require.NoError(t, err)

	node, err := graph.EditNode(result.NodeID, claim, 1)
	require.NoError(t, err)
	assert.True(t, node.UserEdited())

	// Submitting against the old version is a stale edit.
	_, err = graph.EditNode(result.NodeID, claim, 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsStaleEdit(err))
}

func TestRejectNodeMakesEdgesInert(t *testing.T) {
	graph := newTestGraph(t)
	a, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
	require.NoError(t, err)
	b, err := graph.UpsertNode(candidate(t, "France is a country in Europe", 0.8))
	require.NoError(t, err)
	_, _, err = graph.UpsertEdge(a.NodeID, b.NodeID, "locatedIn", 1.0, valueobjects.MustConfidence(0.8), nil, false)
	require.NoError(t, err)

	require.NoError(t, graph.RejectNode(b.NodeID, "inaccurate"))
	require.NoError(t, graph.RejectNode(b.NodeID, "again"))

	// The edge stays stored but traversal skips the rejected endpoint.
	assert.Len(t, graph.Edges(), 1)
	pairs, err := graph.Neighbors(a.NodeID, DirectionOutgoing)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	_, err = graph.Neighbors(b.NodeID, DirectionBoth)
	require.Error(t, err)
}

func TestStatisticsCountsLiveStateOnly(t *testing.T) {
	graph := newTestGraph(t)
	a, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
	require.NoError(t, err)
	b, err := graph.UpsertNode(candidate(t, "France is a country in Europe", 0.8))
	require.NoError(t, err)
	c, err := graph.UpsertNode(candidate(t, "Whales communicate through song", 0.8))
	require.NoError(t, err)
	_, _, err = graph.UpsertEdge(a.NodeID, b.NodeID, "locatedIn", 1.0, valueobjects.MustConfidence(0.8), nil, false)
	require.NoError(t, err)
	_, _, err = graph.UpsertEdge(a.NodeID, c.NodeID, "mentions", 1.0, valueobjects.MustConfidence(0.8), nil, false)
	require.NoError(t, err)

	require.NoError(t, graph.ApproveNode(a.NodeID))
	require.NoError(t, graph.RejectNode(c.NodeID, "off topic"))

	stats := graph.Statistics(time.Now())
	assert.Equal(t, 2, stats.TotalNodes)
	assert.Equal(t, 1, stats.RejectedNodes)
	assert.Equal(t, 1, stats.PendingNodes)
	assert.Equal(t, 1, stats.TotalEdges)
	assert.Equal(t, 2, stats.NodesLast24Hours)
	assert.Equal(t, map[string]int{"fact": 2}, stats.NodesByType)
	assert.InDelta(t, 1.0, stats.AverageDegree, 1e-9)
}

func TestSnapshotRoundTrip(t *testing.T) {
	graph := newTestGraph(t)
	a, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8, "news.example"))
	require.NoError(t, err)
	b, err := graph.UpsertNode(candidate(t, "France is a country in Europe", 0.7))
	require.NoError(t, err)
	_, _, err = graph.UpsertEdge(a.NodeID, b.NodeID, "locatedIn", 2.0, valueobjects.MustConfidence(0.9), nil, true)
	require.NoError(t, err)
	require.NoError(t, graph.RejectNode(b.NodeID, "inaccurate"))

	snap := graph.Snapshot()
	restored, err := ReconstructGraph(snap, graph.Config())
	require.NoError(t, err)

	assert.Equal(t, graph.ID(), restored.ID())
	assert.Equal(t, graph.UserID(), restored.UserID())
	assert.Equal(t, graph.Version(), restored.Version())
	assert.Len(t, restored.Nodes(), 2)
	assert.Len(t, restored.Edges(), 1)

	node, err := restored.GetNode(a.NodeID)
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France", node.Claim().Text())
	assert.Equal(t, []string{"news.example"}, node.Sources())

	rejected, err := restored.GetNode(b.NodeID)
	require.NoError(t, err)
	assert.True(t, rejected.Rejected())
	assert.Equal(t, "inaccurate", rejected.RejectReason())
}

func TestUncommittedEvents(t *testing.T) {
	graph := newTestGraph(t)
	_, err := graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.8))
	require.NoError(t, err)
	_, err = graph.UpsertNode(candidate(t, "Paris is the capital of France", 0.9))
	require.NoError(t, err)

	events := graph.GetUncommittedEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "node.created", events[0].GetEventType())
	assert.Equal(t, "node.merged", events[1].GetEventType())

	graph.MarkEventsAsCommitted()
	assert.Empty(t, graph.GetUncommittedEvents())
}
