package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cortex/application/queries"
	querybus "cortex/application/queries/bus"
	"cortex/pkg/auth"
	"cortex/pkg/common"
	pkgerrors "cortex/pkg/errors"
)

// TimelineHandler serves the activity log
type TimelineHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewTimelineHandler creates the handler
func NewTimelineHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *TimelineHandler {
	return &TimelineHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// List handles GET /timeline. The optional since parameter is RFC 3339.
func (h *TimelineHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("since must be RFC 3339").WithCause(err))
			return
		}
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetTimelineQuery{
		UserID: user.UserID,
		Since:  since,
		Page:   common.ParsePageRequest(r),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Related handles GET /timeline/{eventID}/related
func (h *TimelineHandler) Related(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetRelatedEventsQuery{
		UserID:  user.UserID,
		EventID: chi.URLParam(r, "eventID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
