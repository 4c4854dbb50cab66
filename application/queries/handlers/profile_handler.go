package handlers

import (
	"context"
	"fmt"

	"cortex/application/queries"
	"cortex/application/queries/bus"
	"cortex/application/services"
)

// ProfileQueryHandler serves cognitive profile reads
type ProfileQueryHandler struct {
	profiler *services.Profiler
}

// NewProfileQueryHandler creates the handler
func NewProfileQueryHandler(profiler *services.Profiler) *ProfileQueryHandler {
	return &ProfileQueryHandler{profiler: profiler}
}

// Handle dispatches profile queries
func (h *ProfileQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetProfileQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	profile, err := h.profiler.Get(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	return queries.NewProfileView(profile), nil
}
