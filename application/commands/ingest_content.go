package commands

import (
	"errors"

	"cortex/domain/core/entities"
)

// RelatedClaim is a secondary claim observed alongside the main one,
// connected to it by a typed relationship.
type RelatedClaim struct {
	Claim         string  `json:"claim" validate:"required"`
	NodeType      string  `json:"node_type" validate:"required"`
	Relationship  string  `json:"relationship" validate:"required"`
	Weight        float64 `json:"weight"`
	Confidence    float64 `json:"confidence" validate:"min=0,max=1"`
	Bidirectional bool    `json:"bidirectional"`
}

// IngestContentCommand carries one content-analysis event from an external
// analyzer into the suppression/store pipeline.
type IngestContentCommand struct {
	UserID      string            `json:"user_id" validate:"required"`
	Description string            `json:"description" validate:"required"`
	NodeType    string            `json:"node_type" validate:"required"`
	Details     map[string]string `json:"details,omitempty"`
	Sources     []string          `json:"sources,omitempty"`
	Confidence  float64           `json:"confidence" validate:"min=0,max=1"`
	Related     []RelatedClaim    `json:"related,omitempty"`
}

// Validate validates the command
func (cmd IngestContentCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Description == "" {
		return errors.New("description is required")
	}
	if cmd.Confidence < 0 || cmd.Confidence > 1 {
		return errors.New("confidence must be within [0,1]")
	}
	if !entities.ValidNodeType(entities.NodeType(cmd.NodeType)) {
		return errors.New("unknown node type: " + cmd.NodeType)
	}
	for _, related := range cmd.Related {
		if related.Claim == "" {
			return errors.New("related claim is required")
		}
		if related.Relationship == "" {
			return errors.New("related claim relationship is required")
		}
		if related.Confidence < 0 || related.Confidence > 1 {
			return errors.New("related claim confidence must be within [0,1]")
		}
		if !entities.ValidNodeType(entities.NodeType(related.NodeType)) {
			return errors.New("unknown related node type: " + related.NodeType)
		}
	}
	return nil
}

// IngestedNode summarizes the effect of one upserted claim
type IngestedNode struct {
	NodeID         string `json:"node_id"`
	Outcome        string `json:"outcome"`
	ContentChanged bool   `json:"content_changed"`
}

// IngestResult is the outcome of running one content-analysis event
// through the pipeline.
type IngestResult struct {
	Suppressed       bool           `json:"suppressed"`
	RuleID           string         `json:"rule_id,omitempty"`
	Node             *IngestedNode  `json:"node,omitempty"`
	RelatedNodes     []IngestedNode `json:"related_nodes,omitempty"`
	Contradictions   []string       `json:"contradictions,omitempty"`
	TimelineEventIDs []string       `json:"timeline_event_ids"`
}
