package messaging

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cortex/domain/core/valueobjects"
	"cortex/domain/events"
	"cortex/infrastructure/observability"
)

func TestMetricsPublisherCountsEvents(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewCollector("cortex_test")
	publisher := NewMetricsPublisher(NewLogPublisher(zap.NewNop()), metrics)

	nodeID := valueobjects.NewNodeID()
	batch := []events.DomainEvent{
		events.NewNodeCreated(nodeID, "fact", 0.8, nil),
		events.NewNodeMerged(nodeID, true, 0.9, nil),
		events.NewEdgeUpserted(valueobjects.NewEdgeID(), nodeID, valueobjects.NewNodeID(), "locatedIn", 1.0, true),
		events.NewNodeRejected(nodeID, "inaccurate"),
	}
	require.NoError(t, publisher.PublishBatch(ctx, batch))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ContentIngested.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ContentIngested.WithLabelValues("merged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GraphEdges))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.GraphNodes), "created then rejected nets to zero")

	require.NoError(t, publisher.Publish(ctx, events.NewSuppressionApplied(valueobjects.NewRuleID(), "topic", "tabloid.example")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ContentSuppressed.WithLabelValues("topic")))
}
