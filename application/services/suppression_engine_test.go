package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/core/entities"
	"cortex/infrastructure/persistence/memory"
)

func newEngine(t *testing.T) (*SuppressionEngine, *memory.RuleStore) {
	t.Helper()
	store := memory.NewRuleStore()
	return NewSuppressionEngine(store, nil), store
}

func TestEvaluateFirstActiveMatchWins(t *testing.T) {
	ctx := context.Background()
	engine, store := newEngine(t)

	first, _, err := engine.AddRule(ctx, entities.RuleTypeKeyword, "celebrity")
	require.NoError(t, err)
	second, _, err := engine.AddRule(ctx, entities.RuleTypeKeyword, "gossip")
	require.NoError(t, err)

	decision, err := engine.Evaluate(ctx, "celebrity gossip roundup", nil)
	require.NoError(t, err)

	require.True(t, decision.Suppressed)
	assert.Equal(t, first.ID(), decision.Rule.ID())

	// Only the winning rule counts the match.
	stored, err := store.GetByID(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.MatchCount())
	stored, err = store.GetByID(ctx, second.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.MatchCount())
}

func TestEvaluateSkipsInactiveRules(t *testing.T) {
	ctx := context.Background()
	engine, _ := newEngine(t)

	rule, _, err := engine.AddRule(ctx, entities.RuleTypeKeyword, "celebrity")
	require.NoError(t, err)
	fallback, _, err := engine.AddRule(ctx, entities.RuleTypeKeyword, "gossip")
	require.NoError(t, err)

	_, err = engine.ToggleRule(ctx, rule.ID(), false)
	require.NoError(t, err)

	decision, err := engine.Evaluate(ctx, "celebrity gossip roundup", nil)
	require.NoError(t, err)
	require.True(t, decision.Suppressed)
	assert.Equal(t, fallback.ID(), decision.Rule.ID())
}

func TestEvaluateDomainRulesCheckSources(t *testing.T) {
	ctx := context.Background()
	engine, _ := newEngine(t)

	_, _, err := engine.AddRule(ctx, entities.RuleTypeDomain, "tabloid.example")
	require.NoError(t, err)

	decision, err := engine.Evaluate(ctx, "harmless content", []string{"news.example", "tabloid.example"})
	require.NoError(t, err)
	assert.True(t, decision.Suppressed)

	decision, err = engine.Evaluate(ctx, "harmless content", []string{"news.example"})
	require.NoError(t, err)
	assert.False(t, decision.Suppressed)
}

func TestEvaluateNoMatch(t *testing.T) {
	ctx := context.Background()
	engine, _ := newEngine(t)

	_, _, err := engine.AddRule(ctx, entities.RuleTypeTopic, "politics")
	require.NoError(t, err)

	decision, err := engine.Evaluate(ctx, "recipe for sourdough bread", nil)
	require.NoError(t, err)
	assert.False(t, decision.Suppressed)
	assert.Nil(t, decision.Rule)
}

func TestAddRuleCoalescesDuplicates(t *testing.T) {
	ctx := context.Background()
	engine, _ := newEngine(t)

	rule, created, err := engine.AddRule(ctx, entities.RuleTypeTopic, "politics")
	require.NoError(t, err)
	assert.True(t, created)

	duplicate, created, err := engine.AddRule(ctx, entities.RuleTypeTopic, "  politics ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rule.ID(), duplicate.ID())

	rules, err := engine.ListRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}
