package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Learning pipeline metrics
	ContentIngested        *prometheus.CounterVec
	ContentSuppressed      *prometheus.CounterVec
	ContradictionsDetected prometheus.Counter
	ContradictionsResolved *prometheus.CounterVec

	// Graph state metrics
	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge

	// Timeline metrics
	TimelineEvents *prometheus.CounterVec
}

// NewCollector creates a metrics collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	contentIngested := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_ingested_total",
			Help:      "Content observations accepted into the graph, by merge outcome",
		},
		[]string{"outcome"},
	)

	contentSuppressed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_suppressed_total",
			Help:      "Content observations rejected by suppression rules, by rule type",
		},
		[]string{"rule_type"},
	)

	contradictionsDetected := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contradictions_detected_total",
			Help:      "Total number of contradictions detected",
		},
	)

	contradictionsResolved := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contradictions_resolved_total",
			Help:      "Contradictions resolved, split by automatic and manual resolution",
		},
		[]string{"mode"},
	)

	graphNodes := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Current number of live nodes in the graph",
		},
	)

	graphEdges := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Current number of edges in the graph",
		},
	)

	timelineEvents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeline_events_total",
			Help:      "Timeline events recorded, by event type",
		},
		[]string{"type"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		contentIngested,
		contentSuppressed,
		contradictionsDetected,
		contradictionsResolved,
		graphNodes,
		graphEdges,
		timelineEvents,
	)

	return &Collector{
		registry:               registry,
		HTTPRequests:           httpRequests,
		HTTPDuration:           httpDuration,
		ContentIngested:        contentIngested,
		ContentSuppressed:      contentSuppressed,
		ContradictionsDetected: contradictionsDetected,
		ContradictionsResolved: contradictionsResolved,
		GraphNodes:             graphNodes,
		GraphEdges:             graphEdges,
		TimelineEvents:         timelineEvents,
	}
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
