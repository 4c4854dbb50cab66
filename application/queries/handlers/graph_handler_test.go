package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/application/queries"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/infrastructure/persistence/memory"
)

func addNode(t *testing.T, repo *memory.GraphRepository, userID, text string) valueobjects.NodeID {
	t.Helper()

	var nodeID valueobjects.NodeID
	err := repo.Update(context.Background(), userID, func(graph *aggregates.KnowledgeGraph) error {
		claim, err := valueobjects.NewClaim(text)
		if err != nil {
			return err
		}
		result, err := graph.UpsertNode(aggregates.NodeCandidate{
			Type:       entities.NodeTypeFact,
			Claim:      claim,
			Confidence: valueobjects.MustConfidence(0.8),
		})
		if err != nil {
			return err
		}
		nodeID = result.NodeID
		return nil
	})
	require.NoError(t, err)
	return nodeID
}

func TestStatisticsCountsOnlyOwnContradictions(t *testing.T) {
	ctx := context.Background()
	graphs := memory.NewGraphRepository(ports.StaticPolicy{}, zap.NewNop())
	contradictions := memory.NewContradictionRepository()
	handler := NewGraphQueryHandler(graphs, contradictions)

	aliceNode := addNode(t, graphs, "user-a", "Paris is the capital of France")
	addNode(t, graphs, "user-b", "Berlin is the capital of Germany")

	c := entities.NewContradiction(aliceNode,
		"Paris is not the capital of France",
		"Paris is the capital of France",
		"blog.example", "news.example")
	require.NoError(t, contradictions.Save(ctx, c))

	result, err := handler.Handle(ctx, queries.GetStatisticsQuery{UserID: "user-a"})
	require.NoError(t, err)
	view, ok := result.(queries.StatisticsView)
	require.True(t, ok)
	assert.Equal(t, 1, view.TotalNodes)
	assert.Equal(t, 1, view.UnresolvedContradictions)

	// Another user's conflict does not leak into this user's statistics.
	result, err = handler.Handle(ctx, queries.GetStatisticsQuery{UserID: "user-b"})
	require.NoError(t, err)
	view, ok = result.(queries.StatisticsView)
	require.True(t, ok)
	assert.Equal(t, 1, view.TotalNodes)
	assert.Equal(t, 0, view.UnresolvedContradictions)
}

func TestStatisticsSkipsResolvedContradictions(t *testing.T) {
	ctx := context.Background()
	graphs := memory.NewGraphRepository(ports.StaticPolicy{}, zap.NewNop())
	contradictions := memory.NewContradictionRepository()
	handler := NewGraphQueryHandler(graphs, contradictions)

	nodeID := addNode(t, graphs, "user-a", "Paris is the capital of France")

	c := entities.NewContradiction(nodeID,
		"Paris is not the capital of France",
		"Paris is the capital of France",
		"blog.example", "news.example")
	require.NoError(t, c.Resolve("kept the affirmative claim"))
	require.NoError(t, contradictions.Save(ctx, c))

	result, err := handler.Handle(ctx, queries.GetStatisticsQuery{UserID: "user-a"})
	require.NoError(t, err)
	view, ok := result.(queries.StatisticsView)
	require.True(t, ok)
	assert.Equal(t, 0, view.UnresolvedContradictions)
}
