package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuppressionRule(t *testing.T) {
	t.Run("starts active", func(t *testing.T) {
		rule, err := NewSuppressionRule(RuleTypeTopic, "politics")
		require.NoError(t, err)
		assert.True(t, rule.Active())
		assert.Equal(t, int64(0), rule.MatchCount())
	})

	t.Run("trims the value", func(t *testing.T) {
		rule, err := NewSuppressionRule(RuleTypeKeyword, "  gossip  ")
		require.NoError(t, err)
		assert.Equal(t, "gossip", rule.Value())
	})

	t.Run("rejects empty value and unknown type", func(t *testing.T) {
		_, err := NewSuppressionRule(RuleTypeTopic, "   ")
		require.Error(t, err)

		_, err = NewSuppressionRule(RuleType("mood"), "grumpy")
		require.Error(t, err)
	})

	t.Run("malformed pattern fails at definition time", func(t *testing.T) {
		_, err := NewSuppressionRule(RuleTypePattern, "[unclosed")
		require.Error(t, err)
	})
}

func TestSuppressionRuleMatches(t *testing.T) {
	t.Run("topic matches case-insensitively", func(t *testing.T) {
		rule, err := NewSuppressionRule(RuleTypeTopic, "Cryptocurrency")
		require.NoError(t, err)

		assert.True(t, rule.Matches("CRYPTOCURRENCY prices surged", ""))
		assert.False(t, rule.Matches("Stock prices surged", ""))
	})

	t.Run("domain matches exact host and subdomains", func(t *testing.T) {
		rule, err := NewSuppressionRule(RuleTypeDomain, "tabloid.example")
		require.NoError(t, err)

		assert.True(t, rule.Matches("anything", "tabloid.example"))
		assert.True(t, rule.Matches("anything", "news.tabloid.example"))
		assert.False(t, rule.Matches("anything", "nottabloid.example"))
		assert.False(t, rule.Matches("anything", ""))
	})

	t.Run("pattern matches by regex", func(t *testing.T) {
		rule, err := NewSuppressionRule(RuleTypePattern, `(?i)\bbreaking\b`)
		require.NoError(t, err)

		assert.True(t, rule.Matches("BREAKING: markets tumble", ""))
		assert.False(t, rule.Matches("groundbreaking research published", ""))
	})
}

func TestSuppressionRuleSameDefinition(t *testing.T) {
	rule, err := NewSuppressionRule(RuleTypeKeyword, "celebrity")
	require.NoError(t, err)

	assert.True(t, rule.SameDefinition(RuleTypeKeyword, "  celebrity "))
	assert.False(t, rule.SameDefinition(RuleTypeTopic, "celebrity"))
	assert.False(t, rule.SameDefinition(RuleTypeKeyword, "celebrities"))
}

func TestSuppressionRuleLifecycle(t *testing.T) {
	rule, err := NewSuppressionRule(RuleTypeTopic, "horoscopes")
	require.NoError(t, err)

	rule.RecordMatch()
	rule.RecordMatch()
	assert.Equal(t, int64(2), rule.MatchCount())

	rule.SetActive(false)
	assert.False(t, rule.Active())
}
