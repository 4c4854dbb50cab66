package di

import (
	"cortex/application/commands"
	"cortex/application/commands/bus"
	commandhandlers "cortex/application/commands/handlers"
	"cortex/application/ports"
	querybus "cortex/application/queries/bus"
	"cortex/application/services"
	"cortex/infrastructure/config"
	"cortex/infrastructure/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	PolicyStore *config.PolicyStore
	Metrics     *observability.Collector

	GraphRepo      ports.GraphRepository
	Timeline       ports.TimelineStore
	SnapshotStore  ports.SnapshotStore
	EventPublisher ports.EventPublisher
	Cache          ports.Cache

	Engine   *services.SuppressionEngine
	Detector *services.ContradictionDetector
	Profiler *services.Profiler

	Ingest      *commandhandlers.IngestContentOrchestrator
	NodeActions *commands.NodeActionsHandler
	Suppression *commands.SuppressionHandler

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
}
