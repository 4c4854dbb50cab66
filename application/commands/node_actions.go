package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cortex/application/commands/bus"
	"cortex/application/ports"
	"cortex/application/services"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	domainevents "cortex/domain/events"
)

// ApproveNodeCommand marks a pending node as user-approved
type ApproveNodeCommand struct {
	UserID string `json:"user_id" validate:"required"`
	NodeID string `json:"node_id" validate:"required"`
}

// Validate validates the command
func (cmd ApproveNodeCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// RejectNodeCommand soft-deletes a node
type RejectNodeCommand struct {
	UserID string `json:"user_id" validate:"required"`
	NodeID string `json:"node_id" validate:"required"`
	Reason string `json:"reason"`
}

// Validate validates the command
func (cmd RejectNodeCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// EditNodeCommand rewrites a node's claim on behalf of the user
type EditNodeCommand struct {
	UserID  string `json:"user_id" validate:"required"`
	NodeID  string `json:"node_id" validate:"required"`
	Claim   string `json:"claim" validate:"required"`
	Version int    `json:"version" validate:"min=1"`
}

// Validate validates the command
func (cmd EditNodeCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.Claim == "" {
		return errors.New("claim is required")
	}
	if cmd.Version < 1 {
		return errors.New("version must be at least 1")
	}
	return nil
}

// NodeView is the caller-facing state of a node after a user action
type NodeView struct {
	ID         string    `json:"id"`
	Claim      string    `json:"claim"`
	Approval   string    `json:"approval"`
	UserEdited bool      `json:"user_edited"`
	Version    int       `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NodeActionsHandler handles user review actions on nodes
type NodeActionsHandler struct {
	graphRepo ports.GraphRepository
	detector  *services.ContradictionDetector
	timeline  ports.TimelineStore
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewNodeActionsHandler creates the handler
func NewNodeActionsHandler(
	graphRepo ports.GraphRepository,
	detector *services.ContradictionDetector,
	timeline ports.TimelineStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *NodeActionsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NodeActionsHandler{
		graphRepo: graphRepo,
		detector:  detector,
		timeline:  timeline,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle dispatches approve and reject commands from the command bus
func (h *NodeActionsHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case ApproveNodeCommand:
		return h.approve(ctx, c)
	case RejectNodeCommand:
		return h.reject(ctx, c)
	default:
		return fmt.Errorf("unexpected command type %T", cmd)
	}
}

func (h *NodeActionsHandler) approve(ctx context.Context, cmd ApproveNodeCommand) error {
	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}

	var pending []domainevents.DomainEvent
	err = h.graphRepo.Update(ctx, cmd.UserID, func(graph *aggregates.KnowledgeGraph) error {
		if err := graph.ApproveNode(nodeID); err != nil {
			return err
		}
		pending = graph.GetUncommittedEvents()
		graph.MarkEventsAsCommitted()
		return nil
	})
	if err != nil {
		return err
	}

	h.recordUserCorrection(ctx, "node approved", map[string]string{"node_id": cmd.NodeID})
	h.publish(ctx, pending)
	return nil
}

func (h *NodeActionsHandler) reject(ctx context.Context, cmd RejectNodeCommand) error {
	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}

	var pending []domainevents.DomainEvent
	err = h.graphRepo.Update(ctx, cmd.UserID, func(graph *aggregates.KnowledgeGraph) error {
		if err := graph.RejectNode(nodeID, cmd.Reason); err != nil {
			return err
		}
		pending = graph.GetUncommittedEvents()
		graph.MarkEventsAsCommitted()
		return nil
	})
	if err != nil {
		return err
	}

	// Contradictions referencing the rejected node are kept but flagged.
	if err := h.detector.MarkNodeContradictionsForReview(ctx, nodeID); err != nil {
		h.logger.Warn("contradiction review flagging failed",
			zap.String("node_id", cmd.NodeID), zap.Error(err))
	}

	h.recordUserCorrection(ctx, "node rejected", map[string]string{
		"node_id": cmd.NodeID,
		"reason":  cmd.Reason,
	})
	h.publish(ctx, pending)
	return nil
}

// Edit applies a user edit with optimistic concurrency and returns the
// node's new state.
func (h *NodeActionsHandler) Edit(ctx context.Context, cmd EditNodeCommand) (*NodeView, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return nil, err
	}

	var (
		view    NodeView
		pending []domainevents.DomainEvent
	)
	err = h.graphRepo.Update(ctx, cmd.UserID, func(graph *aggregates.KnowledgeGraph) error {
		claim, err := valueobjects.NewClaimWithLimit(cmd.Claim, graph.Config().MaxContentLength)
		if err != nil {
			return err
		}
		node, err := graph.EditNode(nodeID, claim, cmd.Version)
		if err != nil {
			return err
		}
		view = NodeView{
			ID:         node.ID().String(),
			Claim:      node.Claim().Text(),
			Approval:   string(node.Approval()),
			UserEdited: node.UserEdited(),
			Version:    node.Version(),
			UpdatedAt:  node.UpdatedAt(),
		}
		pending = graph.GetUncommittedEvents()
		graph.MarkEventsAsCommitted()
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.recordUserCorrection(ctx, "node edited", map[string]string{"node_id": cmd.NodeID})
	h.publish(ctx, pending)
	return &view, nil
}

func (h *NodeActionsHandler) recordUserCorrection(ctx context.Context, description string, details map[string]string) {
	event, err := entities.NewTimelineEvent(
		entities.EventUserCorrection,
		description,
		details,
		nil,
		entities.ImpactInfluenced,
		valueobjects.MustConfidence(1.0),
	)
	if err != nil {
		h.logger.Warn("timeline event rejected", zap.Error(err))
		return
	}
	if err := h.timeline.Record(ctx, event); err != nil {
		h.logger.Warn("timeline record failed", zap.Error(err))
	}
}

func (h *NodeActionsHandler) publish(ctx context.Context, pending []domainevents.DomainEvent) {
	if len(pending) == 0 || h.publisher == nil {
		return
	}
	if err := h.publisher.PublishBatch(ctx, pending); err != nil {
		h.logger.Warn("event publish failed", zap.Int("count", len(pending)), zap.Error(err))
	}
}
