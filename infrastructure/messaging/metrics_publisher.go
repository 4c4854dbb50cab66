package messaging

import (
	"context"

	"cortex/application/ports"
	"cortex/domain/events"
	"cortex/infrastructure/observability"
)

// MetricsPublisher decorates an EventPublisher, counting domain events as
// they pass through so pipeline metrics stay in step with what was
// actually published.
type MetricsPublisher struct {
	next    ports.EventPublisher
	metrics *observability.Collector
}

// NewMetricsPublisher wraps next with metric counting
func NewMetricsPublisher(next ports.EventPublisher, metrics *observability.Collector) *MetricsPublisher {
	return &MetricsPublisher{next: next, metrics: metrics}
}

// Publish counts and forwards a single event
func (p *MetricsPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.count(event)
	return p.next.Publish(ctx, event)
}

// PublishBatch counts and forwards multiple events
func (p *MetricsPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		p.count(event)
	}
	return p.next.PublishBatch(ctx, batch)
}

func (p *MetricsPublisher) count(event events.DomainEvent) {
	switch e := event.(type) {
	case events.NodeCreated:
		p.metrics.ContentIngested.WithLabelValues("created").Inc()
		p.metrics.GraphNodes.Inc()
	case events.NodeMerged:
		p.metrics.ContentIngested.WithLabelValues("merged").Inc()
	case events.NodeRejected:
		p.metrics.GraphNodes.Dec()
	case events.EdgeUpserted:
		if e.Created {
			p.metrics.GraphEdges.Inc()
		}
	case events.SuppressionApplied:
		p.metrics.ContentSuppressed.WithLabelValues(e.RuleType).Inc()
	case events.ContradictionDetected:
		p.metrics.ContradictionsDetected.Inc()
		if e.AutoResolved {
			p.metrics.ContradictionsResolved.WithLabelValues("auto").Inc()
		}
	case events.ContradictionResolved:
		p.metrics.ContradictionsResolved.WithLabelValues("manual").Inc()
	}
}
