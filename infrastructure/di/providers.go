package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/application/commands/bus"
	commandhandlers "cortex/application/commands/handlers"
	"cortex/application/ports"
	"cortex/application/queries"
	querybus "cortex/application/queries/bus"
	queryhandlers "cortex/application/queries/handlers"
	"cortex/application/services"
	"cortex/infrastructure/config"
	"cortex/infrastructure/messaging"
	"cortex/infrastructure/messaging/eventbridge"
	"cortex/infrastructure/observability"
	"cortex/infrastructure/persistence/dynamodb"
	"cortex/infrastructure/persistence/memory"
)

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvidePolicyStore loads the learning policy and wraps it for hot reload
func ProvidePolicyStore(cfg *config.Config) (*config.PolicyStore, error) {
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	return config.NewPolicyStore(policy), nil
}

// ProvidePolicyProvider exposes the policy store through its port
func ProvidePolicyProvider(store *config.PolicyStore) ports.PolicyProvider {
	return store
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("cortex")
}

// ProvideEventPublisher selects the publisher backend. Development runs
// log to the application log; EventBridge is used when enabled. Published
// events also feed the pipeline metrics.
func ProvideEventPublisher(
	cfg *config.Config,
	client *awseventbridge.Client,
	metrics *observability.Collector,
	logger *zap.Logger,
) ports.EventPublisher {
	var publisher ports.EventPublisher
	if cfg.EventBridgeEnabled {
		publisher = eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	} else {
		publisher = messaging.NewLogPublisher(logger)
	}
	if cfg.EnableMetrics {
		publisher = messaging.NewMetricsPublisher(publisher, metrics)
	}
	return publisher
}

// ProvideSnapshotStore creates the durable snapshot store, or nil when
// snapshots are disabled.
func ProvideSnapshotStore(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.SnapshotStore {
	if !cfg.SnapshotsEnabled {
		return nil
	}
	return dynamodb.NewSnapshotStore(client, cfg.SnapshotTable, logger)
}

// ProvideTimelineArchive creates the archive for evicted timeline events,
// or nil when durable storage is disabled.
func ProvideTimelineArchive(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.TimelineArchive {
	if !cfg.SnapshotsEnabled {
		return nil
	}
	return dynamodb.NewTimelineArchive(client, cfg.TimelineTable, logger)
}

// ProvideGraphRepository creates the in-memory graph store
func ProvideGraphRepository(policy ports.PolicyProvider, logger *zap.Logger) ports.GraphRepository {
	return memory.NewGraphRepository(policy, logger)
}

// ProvideTimelineStore creates the in-memory timeline, counting recorded
// events when metrics are enabled
func ProvideTimelineStore(
	cfg *config.Config,
	policy ports.PolicyProvider,
	archive ports.TimelineArchive,
	metrics *observability.Collector,
	logger *zap.Logger,
) ports.TimelineStore {
	var store ports.TimelineStore = memory.NewTimelineStore(policy, archive, logger)
	if cfg.EnableMetrics {
		store = observability.NewInstrumentedTimeline(store, metrics)
	}
	return store
}

// ProvideContradictionRepository creates the contradiction store
func ProvideContradictionRepository() ports.ContradictionRepository {
	return memory.NewContradictionRepository()
}

// ProvideRuleStore creates the suppression rule store
func ProvideRuleStore() ports.SuppressionRuleRepository {
	return memory.NewRuleStore()
}

// ProvideProfileRepository creates the cognitive profile store
func ProvideProfileRepository() ports.ProfileRepository {
	return memory.NewProfileRepository()
}

// ProvideSuppressionEngine creates the suppression engine
func ProvideSuppressionEngine(rules ports.SuppressionRuleRepository, logger *zap.Logger) *services.SuppressionEngine {
	return services.NewSuppressionEngine(rules, logger)
}

// ProvideContradictionDetector creates the contradiction detector
func ProvideContradictionDetector(
	contradictions ports.ContradictionRepository,
	policy ports.PolicyProvider,
	logger *zap.Logger,
) *services.ContradictionDetector {
	return services.NewContradictionDetector(contradictions, policy, logger)
}

// ProvideProfiler creates the cognitive profiler
func ProvideProfiler(
	profiles ports.ProfileRepository,
	policy ports.PolicyProvider,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.Profiler {
	return services.NewProfiler(profiles, policy, publisher, logger)
}

// ProvideIngestOrchestrator creates the content ingestion pipeline
func ProvideIngestOrchestrator(
	graphRepo ports.GraphRepository,
	engine *services.SuppressionEngine,
	detector *services.ContradictionDetector,
	timeline ports.TimelineStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commandhandlers.IngestContentOrchestrator {
	return commandhandlers.NewIngestContentOrchestrator(graphRepo, engine, detector, timeline, publisher, logger)
}

// ProvideNodeActionsHandler creates the node review handler
func ProvideNodeActionsHandler(
	graphRepo ports.GraphRepository,
	detector *services.ContradictionDetector,
	timeline ports.TimelineStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commands.NodeActionsHandler {
	return commands.NewNodeActionsHandler(graphRepo, detector, timeline, publisher, logger)
}

// ProvideSuppressionHandler creates the suppression rule handler
func ProvideSuppressionHandler(engine *services.SuppressionEngine, logger *zap.Logger) *commands.SuppressionHandler {
	return commands.NewSuppressionHandler(engine, logger)
}

// ProvideCommandBus creates a command bus with all handlers registered
func ProvideCommandBus(
	nodeActions *commands.NodeActionsHandler,
	detector *services.ContradictionDetector,
	suppression *commands.SuppressionHandler,
	profiler *services.Profiler,
	timeline ports.TimelineStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(bus.LoggingMiddleware(logger))

	resolveHandler := commands.NewResolveContradictionHandler(detector, timeline, publisher, logger)
	profileHandler := commands.NewProfileHandler(profiler)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.ApproveNodeCommand{}, nodeActions},
		{commands.RejectNodeCommand{}, nodeActions},
		{commands.ResolveContradictionCommand{}, resolveHandler},
		{commands.ToggleSuppressionRuleCommand{}, suppression},
		{commands.RecordBehavioralSampleCommand{}, profileHandler},
		{commands.RecordBreakCommand{}, profileHandler},
	}
	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, pipeline.Execute(r.handler)); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with all handlers registered.
// Snapshot reads are briefly cached; statistics are computed fresh on
// every call.
func ProvideQueryBus(
	graphRepo ports.GraphRepository,
	contradictions ports.ContradictionRepository,
	engine *services.SuppressionEngine,
	timeline ports.TimelineStore,
	profiler *services.Profiler,
	cache ports.Cache,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	caching := querybus.NewCachingMiddleware(cache, 5)

	graphHandler := queryhandlers.NewGraphQueryHandler(graphRepo, contradictions)
	reviewHandler := queryhandlers.NewReviewQueryHandler(contradictions, engine)
	timelineHandler := queryhandlers.NewTimelineQueryHandler(timeline)
	profileHandler := queryhandlers.NewProfileQueryHandler(profiler)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetGraphSnapshotQuery{}, caching.Wrap(graphHandler)},
		{queries.GetStatisticsQuery{}, graphHandler},
		{queries.GetNeighborsQuery{}, graphHandler},
		{queries.ListPendingNodesQuery{}, graphHandler},
		{queries.ListContradictionsQuery{}, reviewHandler},
		{queries.ListSuppressionRulesQuery{}, reviewHandler},
		{queries.GetTimelineQuery{}, timelineHandler},
		{queries.GetRelatedEventsQuery{}, timelineHandler},
		{queries.GetProfileQuery{}, profileHandler},
	}
	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}

// ProvideInMemoryCache creates a simple in-memory cache
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}
