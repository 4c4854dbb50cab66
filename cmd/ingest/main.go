package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/infrastructure/config"
	"cortex/infrastructure/di"
)

// batchEvent is one content-analysis event in the input file
type batchEvent struct {
	Description string                  `json:"description"`
	NodeType    string                  `json:"node_type"`
	Details     map[string]string       `json:"details"`
	Sources     []string                `json:"sources"`
	Confidence  float64                 `json:"confidence"`
	Related     []commands.RelatedClaim `json:"related"`
}

func main() {
	var (
		file   = flag.String("file", "", "path to a JSON array of content events")
		userID = flag.String("user", "", "user whose graph receives the events")
	)
	flag.Parse()

	if *file == "" || *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatal("Failed to read input file", zap.String("file", *file), zap.Error(err))
	}

	var events []batchEvent
	if err := json.Unmarshal(data, &events); err != nil {
		logger.Fatal("Failed to parse input file", zap.String("file", *file), zap.Error(err))
	}

	var ingested, suppressed, failed int
	for i, event := range events {
		// Interruptible between events; a signal stops the batch cleanly.
		if ctx.Err() != nil {
			logger.Warn("Batch interrupted", zap.Int("processed", i), zap.Int("total", len(events)))
			break
		}

		result, err := container.Ingest.Handle(ctx, commands.IngestContentCommand{
			UserID:      *userID,
			Description: event.Description,
			NodeType:    event.NodeType,
			Details:     event.Details,
			Sources:     event.Sources,
			Confidence:  event.Confidence,
			Related:     event.Related,
		})
		if err != nil {
			failed++
			logger.Error("Event rejected", zap.Int("index", i), zap.Error(err))
			continue
		}
		if result.Suppressed {
			suppressed++
		} else {
			ingested++
		}
	}

	fmt.Printf("ingested=%d suppressed=%d failed=%d total=%d\n",
		ingested, suppressed, failed, len(events))

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
