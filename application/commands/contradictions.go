package commands

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cortex/application/commands/bus"
	"cortex/application/ports"
	"cortex/application/services"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	domainevents "cortex/domain/events"
)

// ResolveContradictionCommand settles a pending contradiction with an
// explicit resolution note.
type ResolveContradictionCommand struct {
	UserID          string `json:"user_id" validate:"required"`
	ContradictionID string `json:"contradiction_id" validate:"required"`
	Resolution      string `json:"resolution" validate:"required"`
}

// Validate validates the command
func (cmd ResolveContradictionCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.ContradictionID == "" {
		return errors.New("contradiction ID is required")
	}
	if cmd.Resolution == "" {
		return errors.New("resolution note is required")
	}
	return nil
}

// ResolveContradictionHandler handles contradiction resolution
type ResolveContradictionHandler struct {
	detector  *services.ContradictionDetector
	timeline  ports.TimelineStore
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewResolveContradictionHandler creates the handler
func NewResolveContradictionHandler(
	detector *services.ContradictionDetector,
	timeline ports.TimelineStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ResolveContradictionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolveContradictionHandler{
		detector:  detector,
		timeline:  timeline,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle resolves the contradiction
func (h *ResolveContradictionHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(ResolveContradictionCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	id := valueobjects.ContradictionID(c.ContradictionID)
	contradiction, err := h.detector.Resolve(ctx, id, c.Resolution)
	if err != nil {
		return err
	}

	event, err := entities.NewTimelineEvent(
		entities.EventUserCorrection,
		"contradiction resolved",
		map[string]string{
			"contradiction_id": c.ContradictionID,
			"resolution":       c.Resolution,
		},
		nil,
		entities.ImpactInfluenced,
		valueobjects.MustConfidence(1.0),
	)
	if err == nil {
		if err := h.timeline.Record(ctx, event); err != nil {
			h.logger.Warn("timeline record failed", zap.Error(err))
		}
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, domainevents.NewContradictionResolved(contradiction.ID(), c.Resolution)); err != nil {
			h.logger.Warn("event publish failed", zap.Error(err))
		}
	}
	return nil
}
