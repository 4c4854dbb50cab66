package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/config"
	"cortex/domain/core/entities"
)

func TestProfileRepositoryHandsOutCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()
	cfg := config.DefaultDomainConfig()

	profile := entities.NewCognitiveProfile("user-1", cfg)
	profile.ApplySample(entities.BehavioralSample{
		SessionDuration: 10 * time.Minute,
		ScrollSpeed:     0.5,
		SampledAt:       time.Now(),
	}, cfg)
	require.NoError(t, repo.Save(ctx, profile))

	// Mutating the caller's instance after Save leaves the store untouched.
	profile.ApplySample(entities.BehavioralSample{
		SessionDuration: 10 * time.Minute,
		SampledAt:       time.Now(),
	}, cfg)
	stored, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.SampleCount())

	// Mutating a read result does not leak back either.
	stored.ApplySample(entities.BehavioralSample{
		SessionDuration: 10 * time.Minute,
		SampledAt:       time.Now(),
	}, cfg)
	fresh, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.SampleCount())
}
