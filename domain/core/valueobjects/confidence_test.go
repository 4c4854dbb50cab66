package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfidence(t *testing.T) {
	_, err := NewConfidence(-0.1)
	require.Error(t, err)

	_, err = NewConfidence(1.1)
	require.Error(t, err)

	c, err := NewConfidence(0.75)
	require.NoError(t, err)
	assert.Equal(t, 0.75, c.Value())
}

func TestConfidenceReconcile(t *testing.T) {
	t.Run("equal trust averages", func(t *testing.T) {
		merged := MustConfidence(0.4).Reconcile(MustConfidence(0.8), 1, 1)
		assert.InDelta(t, 0.6, merged.Value(), 1e-9)
	})

	t.Run("higher trust pulls the result", func(t *testing.T) {
		merged := MustConfidence(0.4).Reconcile(MustConfidence(0.8), 1, 3)
		assert.InDelta(t, 0.7, merged.Value(), 1e-9)
	})

	t.Run("zero trust on both sides falls back to equal weights", func(t *testing.T) {
		merged := MustConfidence(0.2).Reconcile(MustConfidence(0.6), 0, 0)
		assert.InDelta(t, 0.4, merged.Value(), 1e-9)
	})
}

func TestConfidenceDominates(t *testing.T) {
	assert.True(t, MustConfidence(0.9).Dominates(MustConfidence(0.6), 0.25))
	assert.False(t, MustConfidence(0.8).Dominates(MustConfidence(0.6), 0.25))
	assert.True(t, MustConfidence(0.8).GreaterThan(MustConfidence(0.6)))
}
