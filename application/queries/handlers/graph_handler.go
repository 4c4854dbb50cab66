package handlers

import (
	"context"
	"fmt"
	"time"

	"cortex/application/ports"
	"cortex/application/queries"
	"cortex/application/queries/bus"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/valueobjects"
	"cortex/pkg/common"
)

// GraphQueryHandler serves read-only views of the knowledge graph. All
// reads run under the repository's read lock and copy out their results.
type GraphQueryHandler struct {
	graphRepo      ports.GraphRepository
	contradictions ports.ContradictionRepository
}

// NewGraphQueryHandler creates the handler
func NewGraphQueryHandler(graphRepo ports.GraphRepository, contradictions ports.ContradictionRepository) *GraphQueryHandler {
	return &GraphQueryHandler{graphRepo: graphRepo, contradictions: contradictions}
}

// Handle dispatches graph queries
func (h *GraphQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.GetGraphSnapshotQuery:
		return h.graphRepo.Snapshot(ctx, q.UserID)
	case queries.GetStatisticsQuery:
		return h.statistics(ctx, q)
	case queries.GetNeighborsQuery:
		return h.neighbors(ctx, q)
	case queries.ListPendingNodesQuery:
		return h.pendingNodes(ctx, q)
	default:
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
}

func (h *GraphQueryHandler) statistics(ctx context.Context, q queries.GetStatisticsQuery) (interface{}, error) {
	unresolved, err := h.contradictions.List(ctx, true)
	if err != nil {
		return nil, err
	}

	// Contradictions are counted only when they reference a node of the
	// caller's graph; the repository itself is not user-partitioned.
	var (
		stats aggregates.GraphStatistics
		count int
	)
	err = h.graphRepo.View(ctx, q.UserID, func(graph *aggregates.KnowledgeGraph) error {
		stats = graph.Statistics(time.Now())
		for _, c := range unresolved {
			if graph.HasNode(c.NodeID()) {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return queries.StatisticsView{
		GraphStatistics:          stats,
		UnresolvedContradictions: count,
	}, nil
}

func (h *GraphQueryHandler) neighbors(ctx context.Context, q queries.GetNeighborsQuery) (interface{}, error) {
	nodeID, err := valueobjects.NewNodeIDFromString(q.NodeID)
	if err != nil {
		return nil, err
	}

	var views []queries.NeighborView
	err = h.graphRepo.View(ctx, q.UserID, func(graph *aggregates.KnowledgeGraph) error {
		pairs, err := graph.Neighbors(nodeID, aggregates.Direction(q.Direction))
		if err != nil {
			return err
		}
		views = make([]queries.NeighborView, 0, len(pairs))
		for _, pair := range pairs {
			views = append(views, queries.NeighborView{
				Edge: aggregates.NewEdgeSnapshot(pair.Edge),
				Node: aggregates.NewNodeSnapshot(pair.Node),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (h *GraphQueryHandler) pendingNodes(ctx context.Context, q queries.ListPendingNodesQuery) (interface{}, error) {
	page := q.Page
	if page.PageSize == 0 {
		page = common.PageRequest{Page: 1, PageSize: common.DefaultPageSize}
	}

	var (
		items []aggregates.NodeSnapshot
		total int
	)
	err := h.graphRepo.View(ctx, q.UserID, func(graph *aggregates.KnowledgeGraph) error {
		pending := graph.PendingNodes()
		total = len(pending)
		start, end := common.PageBounds(page, total)
		items = make([]aggregates.NodeSnapshot, 0, end-start)
		for _, node := range pending[start:end] {
			items = append(items, aggregates.NewNodeSnapshot(node))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return queries.Paged{Items: items, Pagination: common.Paginate(page, total)}, nil
}
