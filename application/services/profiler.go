package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/events"
	pkgerrors "cortex/pkg/errors"
)

// Profiler maintains one cognitive profile per user from the behavioral
// sample stream. It runs on its own cadence and never touches the
// node/edge store. Read-modify-write cycles on one user's profile are
// serialized; samples for different users proceed concurrently.
type Profiler struct {
	profiles  ports.ProfileRepository
	policy    ports.PolicyProvider
	publisher ports.EventPublisher
	logger    *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProfiler creates a profiler
func NewProfiler(
	profiles ports.ProfileRepository,
	policy ports.PolicyProvider,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{
		profiles:  profiles,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (p *Profiler) userLock(userID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[userID] = lock
	}
	return lock
}

// RecordSample folds one behavioral sample into the user's profile,
// creating the profile on first contact.
func (p *Profiler) RecordSample(ctx context.Context, userID string, sample entities.BehavioralSample) (*entities.CognitiveProfile, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID required")
	}
	cfg := p.policy.Policy()

	lock := p.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := p.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			return nil, err
		}
		profile = entities.NewCognitiveProfile(userID, cfg)
	}

	before := profile.Fatigue().Level
	profile.ApplySample(sample, cfg)
	after := profile.Fatigue().Level

	if err := p.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	if before != after {
		p.logger.Info("fatigue level changed",
			zap.String("user_id", userID),
			zap.String("from", string(before)),
			zap.String("to", string(after)),
		)
	}
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, events.NewProfileUpdated(userID, string(after))); err != nil {
			p.logger.Warn("profile event publish failed", zap.Error(err))
		}
	}
	return profile, nil
}

// RecordBreak registers a break taken by the user, resetting the break
// budget and relaxing fatigue one step.
func (p *Profiler) RecordBreak(ctx context.Context, userID string) (*entities.CognitiveProfile, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID required")
	}
	cfg := p.policy.Policy()

	lock := p.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := p.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			return nil, err
		}
		profile = entities.NewCognitiveProfile(userID, cfg)
	}

	profile.RecordBreak(cfg)
	if err := p.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Get returns the user's profile, creating an empty one if none exists
func (p *Profiler) Get(ctx context.Context, userID string) (*entities.CognitiveProfile, error) {
	profile, err := p.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return entities.NewCognitiveProfile(userID, p.policy.Policy()), nil
		}
		return nil, err
	}
	return profile, nil
}
