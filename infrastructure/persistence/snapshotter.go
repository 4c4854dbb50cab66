package persistence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cortex/application/ports"
)

// Snapshotter periodically persists every user's graph to the durable
// snapshot store. A failed save for one user does not stop the others.
type Snapshotter struct {
	graphs   ports.GraphRepository
	store    ports.SnapshotStore
	interval time.Duration
	logger   *zap.Logger
}

// NewSnapshotter creates a snapshotter with the given save interval
func NewSnapshotter(graphs ports.GraphRepository, store ports.SnapshotStore, interval time.Duration, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{
		graphs:   graphs,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks, saving snapshots until the context is cancelled. A final
// save runs on shutdown.
func (s *Snapshotter) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Shutdown save uses a fresh context; the parent is already done.
			saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			s.SaveAll(saveCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
			s.SaveAll(ctx)
		}
	}
}

// SaveAll persists a snapshot for every known user
func (s *Snapshotter) SaveAll(ctx context.Context) {
	users, err := s.graphs.Users(ctx)
	if err != nil {
		s.logger.Error("failed to list users for snapshot", zap.Error(err))
		return
	}

	for _, userID := range users {
		snapshot, err := s.graphs.Snapshot(ctx, userID)
		if err != nil {
			s.logger.Warn("failed to snapshot graph",
				zap.String("user_id", userID), zap.Error(err))
			continue
		}
		if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
			s.logger.Warn("failed to persist snapshot",
				zap.String("user_id", userID), zap.Error(err))
		}
	}
}
