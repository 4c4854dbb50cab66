package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/infrastructure/persistence/memory"
	pkgerrors "cortex/pkg/errors"
)

type recordingStore struct {
	mu    sync.Mutex
	saved []aggregates.GraphSnapshot
}

func (s *recordingStore) SaveSnapshot(_ context.Context, snapshot aggregates.GraphSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, snapshot)
	return nil
}

func (s *recordingStore) LoadSnapshot(_ context.Context, userID string) (aggregates.GraphSnapshot, error) {
	return aggregates.GraphSnapshot{}, pkgerrors.NewNotFoundError("snapshot for user " + userID)
}

func (s *recordingStore) snapshots() []aggregates.GraphSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]aggregates.GraphSnapshot(nil), s.saved...)
}

func seedGraph(t *testing.T, graphs *memory.GraphRepository, userID string) {
	t.Helper()
	err := graphs.Update(context.Background(), userID, func(graph *aggregates.KnowledgeGraph) error {
		claim, err := valueobjects.NewClaim("Paris is the capital of France")
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

func TestSnapshotterSavesOnceMoreBeforeExit(t *testing.T) {
	graphs := memory.NewGraphRepository(ports.StaticPolicy{}, zap.NewNop())
	store := &recordingStore{}
	seedGraph(t, graphs, "user-1")

	// The interval is far beyond the test's lifetime, so any save the
	// store sees came from the shutdown path.
	snapshotter := NewSnapshotter(graphs, store, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- snapshotter.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("snapshotter did not stop after cancellation")
	}

	// Run has returned, so the final save has already landed.
	saved := store.snapshots()
	require.Len(t, saved, 1)
	assert.Equal(t, "user-1", saved[0].UserID)
	assert.Len(t, saved[0].Nodes, 1)
}

func TestSaveAllPersistsEveryUser(t *testing.T) {
	graphs := memory.NewGraphRepository(ports.StaticPolicy{}, zap.NewNop())
	store := &recordingStore{}
	seedGraph(t, graphs, "user-1")
	seedGraph(t, graphs, "user-2")

	snapshotter := NewSnapshotter(graphs, store, time.Hour, zap.NewNop())
	snapshotter.SaveAll(context.Background())

	saved := store.snapshots()
	require.Len(t, saved, 2)
	users := []string{saved[0].UserID, saved[1].UserID}
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, users)
}
