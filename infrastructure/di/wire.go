//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"cortex/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvidePolicyStore,
	ProvidePolicyProvider,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideMetrics,
	ProvideEventPublisher,
	ProvideSnapshotStore,
	ProvideTimelineArchive,
	ProvideGraphRepository,
	ProvideTimelineStore,
	ProvideContradictionRepository,
	ProvideRuleStore,
	ProvideProfileRepository,
	ProvideSuppressionEngine,
	ProvideContradictionDetector,
	ProvideProfiler,
	ProvideIngestOrchestrator,
	ProvideNodeActionsHandler,
	ProvideSuppressionHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideInMemoryCache,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
