package memory

import (
	"context"
	"sync"

	"cortex/domain/core/entities"
	pkgerrors "cortex/pkg/errors"
)

// ProfileRepository keeps one cognitive profile per user in memory. It
// stores and hands out copies, so callers never share mutable state with
// the repository or with each other.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*entities.CognitiveProfile
}

// NewProfileRepository creates an empty repository
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]*entities.CognitiveProfile),
	}
}

// Save stores a copy of the user's profile
func (r *ProfileRepository) Save(ctx context.Context, profile *entities.CognitiveProfile) error {
	if profile == nil {
		return pkgerrors.NewValidationError("profile is required")
	}

	r.mu.Lock()
	r.profiles[profile.UserID()] = profile.Clone()
	r.mu.Unlock()
	return nil
}

// GetByUserID returns a copy of the user's profile
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entities.CognitiveProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("profile for user " + userID)
	}
	return profile.Clone(), nil
}
