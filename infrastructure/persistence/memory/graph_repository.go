package memory

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/aggregates"
)

// GraphRepository keeps one knowledge graph per user in memory. A single
// RWMutex serializes mutations while allowing concurrent reads, and every
// mutation is all-or-nothing: a failed mutation function restores the
// graph from a pre-mutation snapshot.
type GraphRepository struct {
	mu     sync.RWMutex
	graphs map[string]*aggregates.KnowledgeGraph
	policy ports.PolicyProvider
	logger *zap.Logger
}

// NewGraphRepository creates an empty repository
func NewGraphRepository(policy ports.PolicyProvider, logger *zap.Logger) *GraphRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphRepository{
		graphs: make(map[string]*aggregates.KnowledgeGraph),
		policy: policy,
		logger: logger,
	}
}

// Update runs fn against the user's graph under the write lock. On error
// the graph is rolled back to its state before fn ran.
func (r *GraphRepository) Update(ctx context.Context, userID string, fn func(*aggregates.KnowledgeGraph) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	graph, err := r.ensureLocked(userID)
	if err != nil {
		return err
	}

	backup := graph.Snapshot()
	if err := fn(graph); err != nil {
		restored, rollbackErr := aggregates.ReconstructGraph(backup, graph.Config())
		if rollbackErr != nil {
			// The backup came from a valid graph, so this should not
			// happen; log loudly and keep the possibly-dirty state.
			r.logger.Error("graph rollback failed",
				zap.String("user_id", userID), zap.Error(rollbackErr))
			return err
		}
		r.graphs[userID] = restored
		return err
	}
	return nil
}

// View runs fn against the user's graph under a read lock. fn must not
// mutate the graph or retain references past its return. A user without a
// graph sees an empty one.
func (r *GraphRepository) View(ctx context.Context, userID string, fn func(*aggregates.KnowledgeGraph) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	graph, ok := r.graphs[userID]
	r.mu.RUnlock()

	if !ok {
		empty, err := aggregates.NewKnowledgeGraph(userID, r.policy.Policy())
		if err != nil {
			return err
		}
		return fn(empty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(graph)
}

// Snapshot returns a consistent copy of the user's graph
func (r *GraphRepository) Snapshot(ctx context.Context, userID string) (aggregates.GraphSnapshot, error) {
	var snap aggregates.GraphSnapshot
	err := r.View(ctx, userID, func(graph *aggregates.KnowledgeGraph) error {
		snap = graph.Snapshot()
		return nil
	})
	return snap, err
}

// Users lists the users that currently have a graph
func (r *GraphRepository) Users(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.graphs))
	for userID := range r.graphs {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

// Load seeds a user's graph from a persisted snapshot, replacing any
// in-memory state.
func (r *GraphRepository) Load(snapshot aggregates.GraphSnapshot) error {
	graph, err := aggregates.ReconstructGraph(snapshot, r.policy.Policy())
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.graphs[snapshot.UserID] = graph
	r.mu.Unlock()
	return nil
}

func (r *GraphRepository) ensureLocked(userID string) (*aggregates.KnowledgeGraph, error) {
	if graph, ok := r.graphs[userID]; ok {
		return graph, nil
	}
	graph, err := aggregates.NewKnowledgeGraph(userID, r.policy.Policy())
	if err != nil {
		return nil, err
	}
	r.graphs[userID] = graph
	return graph, nil
}
