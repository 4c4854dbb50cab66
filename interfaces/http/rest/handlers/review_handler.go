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
	"cortex/pkg/utils"
)

// ReviewHandler serves contradiction and suppression rule management
type ReviewHandler struct {
	commandBus  *bus.CommandBus
	queryBus    *querybus.QueryBus
	suppression *commands.SuppressionHandler
	errors      *pkgerrors.ErrorHandler
	logger      *zap.Logger
}

// NewReviewHandler creates the handler
func NewReviewHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	suppression *commands.SuppressionHandler,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		commandBus:  commandBus,
		queryBus:    queryBus,
		suppression: suppression,
		errors:      errors,
		logger:      logger,
	}
}

// ListContradictions handles GET /contradictions
func (h *ReviewHandler) ListContradictions(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListContradictionsQuery{
		UserID:         user.UserID,
		UnresolvedOnly: r.URL.Query().Get("unresolved") == "true",
		Page:           common.ParsePageRequest(r),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

type resolveRequest struct {
	Resolution string `json:"resolution" validate:"required"`
}

// ResolveContradiction handles POST /contradictions/{contradictionID}/resolve
func (h *ReviewHandler) ResolveContradiction(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req resolveRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.ResolveContradictionCommand{
		UserID:          user.UserID,
		ContradictionID: chi.URLParam(r, "contradictionID"),
		Resolution:      req.Resolution,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

// ListRules handles GET /suppressions
func (h *ReviewHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListSuppressionRulesQuery{UserID: user.UserID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

type addRuleRequest struct {
	RuleType string `json:"rule_type" validate:"required,oneof=topic domain pattern keyword"`
	Value    string `json:"value" validate:"required"`
}

// AddRule handles POST /suppressions
func (h *ReviewHandler) AddRule(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req addRuleRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	view, created, err := h.suppression.Add(r.Context(), commands.AddSuppressionRuleCommand{
		UserID:   user.UserID,
		RuleType: req.RuleType,
		Value:    req.Value,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	common.RespondJSON(w, status, view)
}

type toggleRuleRequest struct {
	Active bool `json:"active"`
}

// ToggleRule handles POST /suppressions/{ruleID}/toggle
func (h *ReviewHandler) ToggleRule(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req toggleRuleRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.ToggleSuppressionRuleCommand{
		UserID: user.UserID,
		RuleID: chi.URLParam(r, "ruleID"),
		Active: req.Active,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
