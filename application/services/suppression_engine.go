package services

import (
	"context"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// Decision is the outcome of evaluating a candidate against the rule set
type Decision struct {
	Suppressed bool
	Rule       *entities.SuppressionRule
}

// SuppressionEngine filters ingestion candidates before they reach the
// store. Rules are evaluated in insertion order and the first active
// match wins.
type SuppressionEngine struct {
	rules  ports.SuppressionRuleRepository
	logger *zap.Logger
}

// NewSuppressionEngine creates a suppression engine
func NewSuppressionEngine(rules ports.SuppressionRuleRepository, logger *zap.Logger) *SuppressionEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuppressionEngine{rules: rules, logger: logger}
}

// Evaluate checks candidate content against all active rules. On a match
// the rule's counter is incremented and persisted before returning.
func (e *SuppressionEngine) Evaluate(ctx context.Context, content string, sources []string) (Decision, error) {
	rules, err := e.rules.List(ctx)
	if err != nil {
		return Decision{}, err
	}

	for _, rule := range rules {
		if !rule.Active() {
			continue
		}
		if !ruleMatches(rule, content, sources) {
			continue
		}

		rule.RecordMatch()
		if err := e.rules.Save(ctx, rule); err != nil {
			return Decision{}, err
		}
		e.logger.Debug("candidate suppressed",
			zap.String("rule_id", rule.ID().String()),
			zap.String("rule_type", string(rule.Type())),
		)
		return Decision{Suppressed: true, Rule: rule}, nil
	}

	return Decision{}, nil
}

// AddRule defines a new rule, coalescing duplicate definitions onto the
// existing rule instead of failing.
func (e *SuppressionEngine) AddRule(ctx context.Context, ruleType entities.RuleType, value string) (*entities.SuppressionRule, bool, error) {
	existing, err := e.rules.FindByDefinition(ctx, ruleType, value)
	if err != nil && !pkgerrors.IsNotFound(err) {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	rule, err := entities.NewSuppressionRule(ruleType, value)
	if err != nil {
		return nil, false, err
	}
	if err := e.rules.Save(ctx, rule); err != nil {
		return nil, false, err
	}
	e.logger.Info("suppression rule added",
		zap.String("rule_id", rule.ID().String()),
		zap.String("rule_type", string(ruleType)),
	)
	return rule, true, nil
}

// ToggleRule flips a rule's active flag
func (e *SuppressionEngine) ToggleRule(ctx context.Context, id valueobjects.RuleID, active bool) (*entities.SuppressionRule, error) {
	rule, err := e.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rule.SetActive(active)
	if err := e.rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListRules returns all rules in evaluation order
func (e *SuppressionEngine) ListRules(ctx context.Context) ([]*entities.SuppressionRule, error) {
	return e.rules.List(ctx)
}

// ruleMatches applies a rule to the candidate. Domain rules match against
// each source; content rules ignore sources.
func ruleMatches(rule *entities.SuppressionRule, content string, sources []string) bool {
	if rule.Type() == entities.RuleTypeDomain {
		for _, source := range sources {
			if rule.Matches(content, source) {
				return true
			}
		}
		return false
	}
	return rule.Matches(content, "")
}
