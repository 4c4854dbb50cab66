package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cortex/application/commands/bus"
	"cortex/application/services"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
)

// AddSuppressionRuleCommand defines a new suppression rule
type AddSuppressionRuleCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	RuleType string `json:"rule_type" validate:"required,oneof=topic domain pattern keyword"`
	Value    string `json:"value" validate:"required"`
}

// Validate validates the command
func (cmd AddSuppressionRuleCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if !entities.ValidRuleType(entities.RuleType(cmd.RuleType)) {
		return errors.New("unknown rule type: " + cmd.RuleType)
	}
	if cmd.Value == "" {
		return errors.New("rule value is required")
	}
	return nil
}

// ToggleSuppressionRuleCommand flips a rule's active state
type ToggleSuppressionRuleCommand struct {
	UserID string `json:"user_id" validate:"required"`
	RuleID string `json:"rule_id" validate:"required"`
	Active bool   `json:"active"`
}

// Validate validates the command
func (cmd ToggleSuppressionRuleCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.RuleID == "" {
		return errors.New("rule ID is required")
	}
	return nil
}

// RuleView is the caller-facing state of a suppression rule
type RuleView struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Value      string    `json:"value"`
	Active     bool      `json:"active"`
	MatchCount int64     `json:"match_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewRuleView builds a view from a rule entity
func NewRuleView(rule *entities.SuppressionRule) RuleView {
	return RuleView{
		ID:         rule.ID().String(),
		Type:       string(rule.Type()),
		Value:      rule.Value(),
		Active:     rule.Active(),
		MatchCount: rule.MatchCount(),
		CreatedAt:  rule.CreatedAt(),
	}
}

// SuppressionHandler handles rule management commands
type SuppressionHandler struct {
	engine *services.SuppressionEngine
	logger *zap.Logger
}

// NewSuppressionHandler creates the handler
func NewSuppressionHandler(engine *services.SuppressionEngine, logger *zap.Logger) *SuppressionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuppressionHandler{engine: engine, logger: logger}
}

// Add defines a rule, coalescing duplicates. The second return value
// reports whether a new rule was created.
func (h *SuppressionHandler) Add(ctx context.Context, cmd AddSuppressionRuleCommand) (*RuleView, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}
	rule, created, err := h.engine.AddRule(ctx, entities.RuleType(cmd.RuleType), cmd.Value)
	if err != nil {
		return nil, false, err
	}
	view := NewRuleView(rule)
	return &view, created, nil
}

// Handle processes toggle commands from the command bus
func (h *SuppressionHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(ToggleSuppressionRuleCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}
	_, err := h.engine.ToggleRule(ctx, valueobjects.RuleID(c.RuleID), c.Active)
	return err
}
