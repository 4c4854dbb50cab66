package memory

import (
	"context"
	"sync"

	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// ContradictionRepository keeps contradiction records in memory in
// detection order.
type ContradictionRepository struct {
	mu      sync.RWMutex
	ordered []*entities.Contradiction
	byID    map[valueobjects.ContradictionID]*entities.Contradiction
}

// NewContradictionRepository creates an empty repository
func NewContradictionRepository() *ContradictionRepository {
	return &ContradictionRepository{
		byID: make(map[valueobjects.ContradictionID]*entities.Contradiction),
	}
}

// Save stores a new contradiction or updates an existing one in place
func (r *ContradictionRepository) Save(ctx context.Context, contradiction *entities.Contradiction) error {
	if contradiction == nil {
		return pkgerrors.NewValidationError("contradiction is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[contradiction.ID()]; !exists {
		r.ordered = append(r.ordered, contradiction)
	}
	r.byID[contradiction.ID()] = contradiction
	return nil
}

// GetByID returns the contradiction with the given ID
func (r *ContradictionRepository) GetByID(ctx context.Context, id valueobjects.ContradictionID) (*entities.Contradiction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contradiction, ok := r.byID[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("contradiction " + id.String())
	}
	return contradiction, nil
}

// ListByNode returns all contradictions affecting the given node
func (r *ContradictionRepository) ListByNode(ctx context.Context, nodeID valueobjects.NodeID) ([]*entities.Contradiction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Contradiction
	for _, c := range r.ordered {
		if c.NodeID() == nodeID {
			out = append(out, c)
		}
	}
	return out, nil
}

// List returns contradictions in detection order, optionally filtered to
// unresolved ones.
func (r *ContradictionRepository) List(ctx context.Context, unresolvedOnly bool) ([]*entities.Contradiction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Contradiction, 0, len(r.ordered))
	for _, c := range r.ordered {
		if unresolvedOnly && c.Resolved() {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
