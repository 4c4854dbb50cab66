package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cortex/infrastructure/config"
	"cortex/infrastructure/di"
	"cortex/infrastructure/persistence"
	"cortex/interfaces/http/rest"
)

const snapshotInterval = 5 * time.Minute

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	router := rest.NewRouter(container)
	handler, err := router.Setup()
	if err != nil {
		logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	// Hot-reload the learning policy when an overlay file is configured.
	if cfg.PolicyFile != "" {
		watcher, err := config.NewPolicyWatcher(cfg.PolicyFile, container.PolicyStore, logger)
		if err != nil {
			logger.Fatal("Failed to watch policy file", zap.Error(err))
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("Policy watcher stopped", zap.Error(err))
			}
		}()
	}

	var snapshotterDone chan struct{}
	if container.SnapshotStore != nil {
		snapshotter := persistence.NewSnapshotter(container.GraphRepo, container.SnapshotStore, snapshotInterval, logger)
		snapshotterDone = make(chan struct{})
		go func() {
			defer close(snapshotterDone)
			if err := snapshotter.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("Snapshotter stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	// Stops the watcher and snapshotter; the snapshotter saves once more
	// on its way out and the shutdown waits for that save to land.
	cancel()
	if snapshotterDone != nil {
		<-snapshotterDone
	}

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
