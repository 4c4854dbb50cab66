package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/application/commands/bus"
	"cortex/application/queries"
	querybus "cortex/application/queries/bus"
	"cortex/pkg/auth"
	"cortex/pkg/common"
	pkgerrors "cortex/pkg/errors"
)

// NodeHandler serves node review actions and node reads
type NodeHandler struct {
	commandBus  *bus.CommandBus
	queryBus    *querybus.QueryBus
	nodeActions *commands.NodeActionsHandler
	errors      *pkgerrors.ErrorHandler
	logger      *zap.Logger
}

// NewNodeHandler creates the handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	nodeActions *commands.NodeActionsHandler,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		commandBus:  commandBus,
		queryBus:    queryBus,
		nodeActions: nodeActions,
		errors:      errors,
		logger:      logger,
	}
}

// ListPending handles GET /nodes/pending
func (h *NodeHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListPendingNodesQuery{
		UserID: user.UserID,
		Page:   common.ParsePageRequest(r),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Approve handles POST /nodes/{nodeID}/approve
func (h *NodeHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	err = h.commandBus.Send(r.Context(), commands.ApproveNodeCommand{
		UserID: user.UserID,
		NodeID: chi.URLParam(r, "nodeID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject handles POST /nodes/{nodeID}/reject
func (h *NodeHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req rejectRequest
	if r.ContentLength > 0 {
		if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body").WithCause(err))
			return
		}
	}

	err = h.commandBus.Send(r.Context(), commands.RejectNodeCommand{
		UserID: user.UserID,
		NodeID: chi.URLParam(r, "nodeID"),
		Reason: req.Reason,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

type editRequest struct {
	Claim   string `json:"claim" validate:"required"`
	Version int    `json:"version" validate:"min=1"`
}

// Edit handles PUT /nodes/{nodeID}
func (h *NodeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req editRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	view, err := h.nodeActions.Edit(r.Context(), commands.EditNodeCommand{
		UserID:  user.UserID,
		NodeID:  chi.URLParam(r, "nodeID"),
		Claim:   req.Claim,
		Version: req.Version,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// Neighbors handles GET /nodes/{nodeID}/neighbors
func (h *NodeHandler) Neighbors(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	direction := r.URL.Query().Get("direction")
	if direction == "" {
		direction = "both"
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetNeighborsQuery{
		UserID:    user.UserID,
		NodeID:    chi.URLParam(r, "nodeID"),
		Direction: direction,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
