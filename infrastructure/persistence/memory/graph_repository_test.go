package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/application/ports"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
)

func graphCandidate(t *testing.T, text string) aggregates.NodeCandidate {
	t.Helper()
	claim, err := valueobjects.NewClaim(text)
	require.NoError(t, err)
	return aggregates.NodeCandidate{
		Type:       entities.NodeTypeFact,
		Claim:      claim,
		Confidence: valueobjects.MustConfidence(0.8),
	}
}

func TestGraphRepositoryUpdateCommits(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepository(ports.StaticPolicy{}, nil)

	err := repo.Update(ctx, "user-1", func(graph *aggregates.KnowledgeGraph) error {
		_, err := graph.UpsertNode(graphCandidate(t, "Paris is the capital of France"))
		return err
	})
	require.NoError(t, err)

	err = repo.View(ctx, "user-1", func(graph *aggregates.KnowledgeGraph) error {
		assert.Len(t, graph.Nodes(), 1)
		return nil
	})
	require.NoError(t, err)
}

func TestGraphRepositoryUpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepository(ports.StaticPolicy{}, nil)

	require.NoError(t, repo.Update(ctx, "user-1", func(graph *aggregates.KnowledgeGraph) error {
		_, err := graph.UpsertNode(graphCandidate(t, "Paris is the capital of France"))
		return err
	}))

	boom := errors.New("mutation failed")
	err := repo.Update(ctx, "user-1", func(graph *aggregates.KnowledgeGraph) error {
		if _, err := graph.UpsertNode(graphCandidate(t, "Whales communicate through song")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The partial mutation did not survive.
	err = repo.View(ctx, "user-1", func(graph *aggregates.KnowledgeGraph) error {
		require.Len(t, graph.Nodes(), 1)
		assert.Equal(t, "Paris is the capital of France", graph.Nodes()[0].Claim().Text())
		return nil
	})
	require.NoError(t, err)
}

func TestGraphRepositoryViewUnknownUserSeesEmptyGraph(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepository(ports.StaticPolicy{}, nil)

	err := repo.View(ctx, "nobody", func(graph *aggregates.KnowledgeGraph) error {
		assert.Empty(t, graph.Nodes())
		return nil
	})
	require.NoError(t, err)

	// Viewing does not create state.
	users, err := repo.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGraphRepositoryUsersSorted(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepository(ports.StaticPolicy{}, nil)

	for _, userID := range []string{"charlie", "alice", "bob"} {
		require.NoError(t, repo.Update(ctx, userID, func(graph *aggregates.KnowledgeGraph) error {
			return nil
		}))
	}

	users, err := repo.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "charlie"}, users)
}

func TestGraphRepositorySnapshotAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepository(ports.StaticPolicy{}, nil)

	require.NoError(t, repo.Update(ctx, "user-1", func(graph *aggregates.KnowledgeGraph) error {
		_, err := graph.UpsertNode(graphCandidate(t, "Paris is the capital of France"))
		return err
	}))

	snap, err := repo.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, snap.Nodes, 1)

	// A fresh repository seeded from the snapshot serves the same state.
	restored := NewGraphRepository(ports.StaticPolicy{}, nil)
	require.NoError(t, restored.Load(snap))

	err = restored.View(ctx, "user-1", func(graph *aggregates.KnowledgeGraph) error {
		require.Len(t, graph.Nodes(), 1)
		assert.Equal(t, "Paris is the capital of France", graph.Nodes()[0].Claim().Text())
		return nil
	})
	require.NoError(t, err)
}

func TestGraphRepositoryHonorsContext(t *testing.T) {
	repo := NewGraphRepository(ports.StaticPolicy{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Update(ctx, "user-1", func(graph *aggregates.KnowledgeGraph) error {
		t.Fatal("mutation must not run on a cancelled context")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
