package memory

import (
	"context"
	"sync"

	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// RuleStore keeps suppression rules in memory. Insertion order is
// preserved because it is also the evaluation order.
type RuleStore struct {
	mu      sync.RWMutex
	ordered []*entities.SuppressionRule
	byID    map[valueobjects.RuleID]*entities.SuppressionRule
}

// NewRuleStore creates an empty store
func NewRuleStore() *RuleStore {
	return &RuleStore{
		byID: make(map[valueobjects.RuleID]*entities.SuppressionRule),
	}
}

// Save stores a new rule or updates an existing one in place
func (s *RuleStore) Save(ctx context.Context, rule *entities.SuppressionRule) error {
	if rule == nil {
		return pkgerrors.NewValidationError("rule is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rule.ID()]; !exists {
		s.ordered = append(s.ordered, rule)
	}
	s.byID[rule.ID()] = rule
	return nil
}

// GetByID returns the rule with the given ID
func (s *RuleStore) GetByID(ctx context.Context, id valueobjects.RuleID) (*entities.SuppressionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.byID[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("suppression rule " + id.String())
	}
	return rule, nil
}

// FindByDefinition locates the rule with the same type and value
func (s *RuleStore) FindByDefinition(ctx context.Context, ruleType entities.RuleType, value string) (*entities.SuppressionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rule := range s.ordered {
		if rule.SameDefinition(ruleType, value) {
			return rule, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("suppression rule " + string(ruleType) + ":" + value)
}

// List returns all rules in insertion order
func (s *RuleStore) List(ctx context.Context) ([]*entities.SuppressionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.SuppressionRule, len(s.ordered))
	copy(out, s.ordered)
	return out, nil
}
