package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"cortex/application/commands"
	commandhandlers "cortex/application/commands/handlers"
	"cortex/pkg/auth"
	"cortex/pkg/common"
	pkgerrors "cortex/pkg/errors"
	"cortex/pkg/utils"
)

const maxRequestBody = 1 << 20 // 1 MiB

// IngestHandler accepts content-analysis events
type IngestHandler struct {
	orchestrator *commandhandlers.IngestContentOrchestrator
	errors       *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewIngestHandler creates the handler
func NewIngestHandler(orchestrator *commandhandlers.IngestContentOrchestrator, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		orchestrator: orchestrator,
		errors:       errors,
		logger:       logger,
	}
}

type ingestRequest struct {
	Description string                   `json:"description" validate:"required"`
	NodeType    string                   `json:"node_type" validate:"required"`
	Details     map[string]string        `json:"details"`
	Sources     []string                 `json:"sources"`
	Confidence  float64                  `json:"confidence" validate:"gte=0,lte=1"`
	Related     []commands.RelatedClaim  `json:"related"`
}

// Ingest handles POST /ingest
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req ingestRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.orchestrator.Handle(r.Context(), commands.IngestContentCommand{
		UserID:      user.UserID,
		Description: req.Description,
		NodeType:    req.NodeType,
		Details:     req.Details,
		Sources:     req.Sources,
		Confidence:  req.Confidence,
		Related:     req.Related,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Suppressed {
		status = http.StatusOK
	}
	common.RespondJSON(w, status, result)
}
