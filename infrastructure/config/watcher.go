package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// PolicyWatcher hot-reloads the learning policy overlay when the file
// changes on disk. A reload that fails validation keeps the previous
// policy in place.
type PolicyWatcher struct {
	path    string
	store   *PolicyStore
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// NewPolicyWatcher creates a watcher for the given policy file
func NewPolicyWatcher(path string, store *PolicyStore, logger *zap.Logger) (*PolicyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files on save, which drops
	// watches registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyWatcher{
		path:    path,
		store:   store,
		watcher: watcher,
		logger:  logger,
	}, nil
}

// Run blocks, applying policy reloads until the context is cancelled
func (w *PolicyWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("policy watcher error", zap.Error(err))
		}
	}
}

func (w *PolicyWatcher) reload() {
	cfg, err := LoadPolicy(w.path)
	if err != nil {
		w.logger.Error("policy reload failed, keeping previous policy",
			zap.String("path", w.path), zap.Error(err))
		return
	}
	w.store.Replace(cfg)
	w.logger.Info("policy reloaded", zap.String("path", w.path))
}
