package commands

import (
	"context"
	"errors"
	"fmt"

	"cortex/application/commands/bus"
	"cortex/application/services"
	"cortex/domain/core/entities"
)

// RecordBehavioralSampleCommand feeds one behavioral sample to the profiler
type RecordBehavioralSampleCommand struct {
	UserID string                    `json:"user_id" validate:"required"`
	Sample entities.BehavioralSample `json:"sample"`
}

// Validate validates the command
func (cmd RecordBehavioralSampleCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Sample.SessionDuration < 0 {
		return errors.New("session duration cannot be negative")
	}
	return nil
}

// RecordBreakCommand registers a break taken by the user
type RecordBreakCommand struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd RecordBreakCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ProfileHandler routes profiler commands from the command bus
type ProfileHandler struct {
	profiler *services.Profiler
}

// NewProfileHandler creates the handler
func NewProfileHandler(profiler *services.Profiler) *ProfileHandler {
	return &ProfileHandler{profiler: profiler}
}

// Handle processes behavioral sample and break commands
func (h *ProfileHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case RecordBehavioralSampleCommand:
		_, err := h.profiler.RecordSample(ctx, c.UserID, c.Sample)
		return err
	case RecordBreakCommand:
		_, err := h.profiler.RecordBreak(ctx, c.UserID)
		return err
	default:
		return fmt.Errorf("unexpected command type %T", cmd)
	}
}
