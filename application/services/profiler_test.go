package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/infrastructure/persistence/memory"
)

func sample(level float64) entities.BehavioralSample {
	return entities.BehavioralSample{
		SessionDuration: 10 * time.Minute,
		ScrollSpeed:     level,
		ReadTime:        level,
		ClickPattern:    level,
		Typos:           level,
		Backtracking:    level,
		SampledAt:       time.Now(),
	}
}

func TestRecordSampleCreatesProfileOnFirstContact(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	profiler := NewProfiler(repo, ports.StaticPolicy{}, nil, nil)

	profile, err := profiler.RecordSample(ctx, "user-1", sample(0.5))
	require.NoError(t, err)
	assert.Equal(t, 1, profile.SampleCount())

	// The profile was persisted, not just returned.
	stored, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.SampleCount())
}

func TestRecordSampleSerializesConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	profiler := NewProfiler(repo, ports.StaticPolicy{}, nil, nil)

	const (
		workers = 8
		rounds  = 25
	)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				_, err := profiler.RecordSample(ctx, "user-1", sample(0.5))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// No sample is lost to a concurrent read-modify-write.
	profile, err := profiler.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, workers*rounds, profile.SampleCount())
}

func TestRecordSampleRequiresUser(t *testing.T) {
	profiler := NewProfiler(memory.NewProfileRepository(), ports.StaticPolicy{}, nil, nil)

	_, err := profiler.RecordSample(context.Background(), "", sample(0.5))
	require.Error(t, err)
}

func TestRecordBreakRelaxesFatigue(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	policy := ports.StaticPolicy{}
	profiler := NewProfiler(repo, policy, nil, nil)

	_, err := profiler.RecordSample(ctx, "user-1", sample(1.0))
	require.NoError(t, err)

	profile, err := profiler.RecordBreak(ctx, "user-1")
	require.NoError(t, err)

	fatigue := profile.Fatigue()
	assert.Equal(t, entities.FatigueHigh, fatigue.Level)
	assert.Equal(t, policy.Policy().BaselineBreakIn, fatigue.RecommendedBreakIn)
}

func TestGetReturnsFreshProfileForUnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	profiler := NewProfiler(repo, ports.StaticPolicy{}, nil, nil)

	profile, err := profiler.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.SampleCount())
	assert.Equal(t, entities.FatigueFresh, profile.Fatigue().Level)

	// Reads never create state.
	_, err = repo.GetByUserID(ctx, "nobody")
	require.Error(t, err)
}
