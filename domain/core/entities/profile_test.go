package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/config"
)

// strainSample builds a sample with every strain indicator at the same level
func strainSample(level float64) BehavioralSample {
	return BehavioralSample{
		SessionDuration: 10 * time.Minute,
		ScrollSpeed:     level,
		ReadTime:        level,
		ClickPattern:    level,
		Typos:           level,
		Backtracking:    level,
		SampledAt:       time.Now(),
	}
}

func TestApplySampleSeedsMetrics(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	profile := NewCognitiveProfile("user-1", cfg)

	sample := strainSample(0.5)
	sample.Distractions = 2
	sample.QuestionsAsked = 1
	sample.NodesLearned = 4
	sample.TopicsVisited = []string{"history", "geography"}
	sample.SourceDomains = []string{"encyclopedia.example"}

	profile.ApplySample(sample, cfg)

	// The first sample seeds the moving averages directly.
	assert.InDelta(t, 0.5, profile.Attention().Score, 1e-9)
	assert.InDelta(t, 0.2, profile.Attention().DistractionFrequency, 1e-9)
	assert.InDelta(t, 0.1, profile.Curiosity().QuestionFrequency, 1e-9)
	assert.InDelta(t, 24.0, profile.Learning().Velocity, 1e-9)
	assert.Equal(t, 4, profile.Learning().TotalNodesLearned)
	assert.Equal(t, 1, profile.SampleCount())
	assert.ElementsMatch(t, []string{"history", "geography"}, profile.SeenTopics())
}

func TestApplySampleSmoothsSubsequentObservations(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	profile := NewCognitiveProfile("user-1", cfg)

	profile.ApplySample(strainSample(0.0), cfg)
	require.InDelta(t, 1.0, profile.Attention().Score, 1e-9)

	profile.ApplySample(strainSample(1.0), cfg)

	// alpha 0.3 toward the new observation: 0.3*0 + 0.7*1.
	assert.InDelta(t, 0.7, profile.Attention().Score, 1e-9)
}

func TestFatigueEscalatesFreely(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	profile := NewCognitiveProfile("user-1", cfg)

	profile.ApplySample(strainSample(1.0), cfg)

	fatigue := profile.Fatigue()
	assert.Equal(t, FatigueSevere, fatigue.Level)
	assert.InDelta(t, 1.0, fatigue.Composite, 1e-9)
	assert.Equal(t, cfg.MinRecommendedBreak, fatigue.RecommendedBreakIn)
}

func TestFatigueRecoversOneStepPerSample(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	profile := NewCognitiveProfile("user-1", cfg)

	profile.ApplySample(strainSample(1.0), cfg)
	require.Equal(t, FatigueSevere, profile.Fatigue().Level)

	// Strain vanishes, but recovery is one level per sample.
	profile.ApplySample(strainSample(0.0), cfg)
	assert.Equal(t, FatigueHigh, profile.Fatigue().Level)

	profile.ApplySample(strainSample(0.0), cfg)
	assert.Equal(t, FatigueModerate, profile.Fatigue().Level)
}

func TestBreakBudgetNeverGrowsBetweenBreaks(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	profile := NewCognitiveProfile("user-1", cfg)

	profile.ApplySample(strainSample(0.5), cfg)
	budget := profile.Fatigue().RecommendedBreakIn
	assert.Equal(t, 45*time.Minute, budget)

	// A calmer sample relaxes strain but the budget holds.
	profile.ApplySample(strainSample(0.0), cfg)
	assert.Equal(t, budget, profile.Fatigue().RecommendedBreakIn)
}

func TestRecordBreak(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	profile := NewCognitiveProfile("user-1", cfg)

	profile.ApplySample(strainSample(1.0), cfg)
	require.Equal(t, FatigueSevere, profile.Fatigue().Level)

	profile.RecordBreak(cfg)

	fatigue := profile.Fatigue()
	assert.Equal(t, FatigueHigh, fatigue.Level)
	assert.Equal(t, cfg.BaselineBreakIn, fatigue.RecommendedBreakIn)
}

func TestIndicatorTrends(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	profile := NewCognitiveProfile("user-1", cfg)

	profile.ApplySample(strainSample(0.2), cfg)
	for _, indicator := range profile.Fatigue().Indicators {
		assert.Equal(t, TrendStable, indicator.Trend)
	}

	profile.ApplySample(strainSample(0.9), cfg)
	for _, indicator := range profile.Fatigue().Indicators {
		assert.Equal(t, TrendIncreasing, indicator.Trend)
	}

	profile.ApplySample(strainSample(0.1), cfg)
	for _, indicator := range profile.Fatigue().Indicators {
		assert.Equal(t, TrendDecreasing, indicator.Trend)
	}
}
