package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/application/queries"
	"cortex/application/services"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/infrastructure/persistence/memory"
)

func upsertFact(t *testing.T, graphs *memory.GraphRepository, userID, text string) {
	t.Helper()
	err := graphs.Update(context.Background(), userID, func(graph *aggregates.KnowledgeGraph) error {
		claim, err := valueobjects.NewClaim(text)
		if err != nil {
			return err
		}
		_, err = graph.UpsertNode(aggregates.NodeCandidate{
			Type:       entities.NodeTypeFact,
			Claim:      claim,
			Confidence: valueobjects.MustConfidence(0.8),
		})
		return err
	})
	require.NoError(t, err)
}

func TestQueryBusServesStatisticsFresh(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	policy := ports.StaticPolicy{}

	graphs := memory.NewGraphRepository(policy, logger)
	queryBus, err := ProvideQueryBus(
		graphs,
		memory.NewContradictionRepository(),
		services.NewSuppressionEngine(memory.NewRuleStore(), logger),
		memory.NewTimelineStore(policy, nil, logger),
		services.NewProfiler(memory.NewProfileRepository(), policy, nil, logger),
		NewInMemoryCache(),
	)
	require.NoError(t, err)

	upsertFact(t, graphs, "user-1", "Paris is the capital of France")

	result, err := queryBus.Ask(ctx, queries.GetStatisticsQuery{UserID: "user-1"})
	require.NoError(t, err)
	before, ok := result.(queries.StatisticsView)
	require.True(t, ok)
	assert.Equal(t, 1, before.TotalNodes)

	// Prime the snapshot cache before mutating.
	result, err = queryBus.Ask(ctx, queries.GetGraphSnapshotQuery{UserID: "user-1"})
	require.NoError(t, err)
	snapBefore, ok := result.(aggregates.GraphSnapshot)
	require.True(t, ok)
	require.Len(t, snapBefore.Nodes, 1)

	upsertFact(t, graphs, "user-1", "Berlin is the capital of Germany")

	// Statistics reflect the mutation immediately.
	result, err = queryBus.Ask(ctx, queries.GetStatisticsQuery{UserID: "user-1"})
	require.NoError(t, err)
	after, ok := result.(queries.StatisticsView)
	require.True(t, ok)
	assert.Equal(t, 2, after.TotalNodes)

	// Snapshot reads tolerate a short staleness window and stay cached.
	result, err = queryBus.Ask(ctx, queries.GetGraphSnapshotQuery{UserID: "user-1"})
	require.NoError(t, err)
	snapAfter, ok := result.(aggregates.GraphSnapshot)
	require.True(t, ok)
	assert.Len(t, snapAfter.Nodes, 1)
}
