package handlers

import (
	"context"
	"fmt"

	"cortex/application/commands"
	"cortex/application/ports"
	"cortex/application/queries"
	"cortex/application/queries/bus"
	"cortex/application/services"
	"cortex/pkg/common"
)

// ReviewQueryHandler serves the user-review surfaces: contradiction
// records and suppression rules.
type ReviewQueryHandler struct {
	contradictions ports.ContradictionRepository
	engine         *services.SuppressionEngine
}

// NewReviewQueryHandler creates the handler
func NewReviewQueryHandler(contradictions ports.ContradictionRepository, engine *services.SuppressionEngine) *ReviewQueryHandler {
	return &ReviewQueryHandler{contradictions: contradictions, engine: engine}
}

// Handle dispatches review queries
func (h *ReviewQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.ListContradictionsQuery:
		return h.listContradictions(ctx, q)
	case queries.ListSuppressionRulesQuery:
		return h.listRules(ctx)
	default:
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
}

func (h *ReviewQueryHandler) listContradictions(ctx context.Context, q queries.ListContradictionsQuery) (interface{}, error) {
	page := q.Page
	if page.PageSize == 0 {
		page = common.PageRequest{Page: 1, PageSize: common.DefaultPageSize}
	}

	list, err := h.contradictions.List(ctx, q.UnresolvedOnly)
	if err != nil {
		return nil, err
	}

	total := len(list)
	start, end := common.PageBounds(page, total)
	items := make([]queries.ContradictionView, 0, end-start)
	for _, c := range list[start:end] {
		items = append(items, queries.NewContradictionView(c))
	}
	return queries.Paged{Items: items, Pagination: common.Paginate(page, total)}, nil
}

func (h *ReviewQueryHandler) listRules(ctx context.Context) (interface{}, error) {
	rules, err := h.engine.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]commands.RuleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, commands.NewRuleView(rule))
	}
	return views, nil
}
