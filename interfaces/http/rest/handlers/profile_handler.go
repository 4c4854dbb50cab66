package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/application/commands/bus"
	"cortex/application/queries"
	querybus "cortex/application/queries/bus"
	"cortex/domain/core/entities"
	"cortex/pkg/auth"
	"cortex/pkg/common"
	pkgerrors "cortex/pkg/errors"
)

// ProfileHandler serves the cognitive profile
type ProfileHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewProfileHandler creates the handler
func NewProfileHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errors,
		logger:     logger,
	}
}

// Get handles GET /profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetProfileQuery{UserID: user.UserID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// RecordSample handles POST /profile/samples
func (h *ProfileHandler) RecordSample(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var sample entities.BehavioralSample
	if err := common.ParseJSONBody(r, &sample, maxRequestBody); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.RecordBehavioralSampleCommand{
		UserID: user.UserID,
		Sample: sample,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// RecordBreak handles POST /profile/breaks
func (h *ProfileHandler) RecordBreak(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	err = h.commandBus.Send(r.Context(), commands.RecordBreakCommand{UserID: user.UserID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "break recorded"})
}
