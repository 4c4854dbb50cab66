package handlers

import (
	"context"
	"fmt"

	"cortex/application/ports"
	"cortex/application/queries"
	"cortex/application/queries/bus"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/pkg/common"
)

// TimelineQueryHandler serves the activity log
type TimelineQueryHandler struct {
	timeline ports.TimelineStore
}

// NewTimelineQueryHandler creates the handler
func NewTimelineQueryHandler(timeline ports.TimelineStore) *TimelineQueryHandler {
	return &TimelineQueryHandler{timeline: timeline}
}

// Handle dispatches timeline queries
func (h *TimelineQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.GetTimelineQuery:
		return h.recent(ctx, q)
	case queries.GetRelatedEventsQuery:
		return h.timeline.RelatedTo(ctx, valueobjects.EventID(q.EventID))
	default:
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
}

func (h *TimelineQueryHandler) recent(ctx context.Context, q queries.GetTimelineQuery) (interface{}, error) {
	page := q.Page
	if page.PageSize == 0 {
		page = common.PageRequest{Page: 1, PageSize: common.DefaultPageSize}
	}

	events, err := h.timeline.Recent(ctx, q.Since)
	if err != nil {
		return nil, err
	}

	total := len(events)
	start, end := common.PageBounds(page, total)
	items := make([]*entities.TimelineEvent, 0, end-start)
	items = append(items, events[start:end]...)
	return queries.Paged{Items: items, Pagination: common.Paginate(page, total)}, nil
}
