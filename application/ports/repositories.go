package ports

import (
	"context"
	"time"

	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/domain/events"
)

// GraphRepository owns the single mutable knowledge graph per user.
// Mutations run serialized through Update; reads see the last fully
// committed state and never a partially applied mutation.
type GraphRepository interface {
	// Update runs fn against the graph under the write lock. If fn returns
	// an error the graph is restored to its pre-mutation state.
	Update(ctx context.Context, userID string, fn func(*aggregates.KnowledgeGraph) error) error

	// View runs fn against the graph under a read lock. fn must not mutate
	// the graph and must not retain references past its return.
	View(ctx context.Context, userID string, fn func(*aggregates.KnowledgeGraph) error) error

	// Snapshot returns a consistent copy of the graph state
	Snapshot(ctx context.Context, userID string) (aggregates.GraphSnapshot, error)

	// Users lists the users that currently have a graph
	Users(ctx context.Context) ([]string, error)
}

// ContradictionRepository persists contradiction records. Records are
// never deleted, only resolved or flagged for review.
type ContradictionRepository interface {
	Save(ctx context.Context, contradiction *entities.Contradiction) error
	GetByID(ctx context.Context, id valueobjects.ContradictionID) (*entities.Contradiction, error)
	ListByNode(ctx context.Context, nodeID valueobjects.NodeID) ([]*entities.Contradiction, error)
	List(ctx context.Context, unresolvedOnly bool) ([]*entities.Contradiction, error)
}

// SuppressionRuleRepository persists suppression rules in stable
// insertion order, which is also their evaluation order.
type SuppressionRuleRepository interface {
	Save(ctx context.Context, rule *entities.SuppressionRule) error
	GetByID(ctx context.Context, id valueobjects.RuleID) (*entities.SuppressionRule, error)

	// FindByDefinition locates a rule with the same type and value, used
	// to coalesce duplicate definitions.
	FindByDefinition(ctx context.Context, ruleType entities.RuleType, value string) (*entities.SuppressionRule, error)

	// List returns all rules in insertion order
	List(ctx context.Context) ([]*entities.SuppressionRule, error)
}

// TimelineStore is the append-only activity log. Implementations enforce
// the retention bound but never reorder or silently drop events within it.
type TimelineStore interface {
	Record(ctx context.Context, event *entities.TimelineEvent) error
	Recent(ctx context.Context, since time.Time) ([]*entities.TimelineEvent, error)
	RelatedTo(ctx context.Context, id valueobjects.EventID) ([]*entities.TimelineEvent, error)
	GetByID(ctx context.Context, id valueobjects.EventID) (*entities.TimelineEvent, error)
}

// ProfileRepository persists one cognitive profile per user
type ProfileRepository interface {
	Save(ctx context.Context, profile *entities.CognitiveProfile) error
	GetByUserID(ctx context.Context, userID string) (*entities.CognitiveProfile, error)
}

// SnapshotStore persists graph snapshots to durable storage outside the
// in-memory core. Persistence is best-effort from the core's perspective.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot aggregates.GraphSnapshot) error
	LoadSnapshot(ctx context.Context, userID string) (aggregates.GraphSnapshot, error)
}

// TimelineArchive stores timeline events evicted by the retention bound
type TimelineArchive interface {
	Archive(ctx context.Context, events []*entities.TimelineEvent) error
	Query(ctx context.Context, from, to time.Time, limit int) ([]*entities.TimelineEvent, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
