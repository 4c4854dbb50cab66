package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/application/ports"
	"cortex/application/services"
	"cortex/domain/core/aggregates"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	domainevents "cortex/domain/events"
)

// IngestContentOrchestrator runs one content-analysis event through the
// full pipeline: suppression, node/edge upsert, contradiction scan and
// timeline recording. The graph mutation is atomic; a failure inside it
// leaves the store untouched. Timeline recording happens after commit.
type IngestContentOrchestrator struct {
	graphRepo ports.GraphRepository
	engine    *services.SuppressionEngine
	detector  *services.ContradictionDetector
	timeline  ports.TimelineStore
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewIngestContentOrchestrator creates an orchestrator instance
func NewIngestContentOrchestrator(
	graphRepo ports.GraphRepository,
	engine *services.SuppressionEngine,
	detector *services.ContradictionDetector,
	timeline ports.TimelineStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *IngestContentOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestContentOrchestrator{
		graphRepo: graphRepo,
		engine:    engine,
		detector:  detector,
		timeline:  timeline,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the ingestion pipeline for one event
func (o *IngestContentOrchestrator) Handle(ctx context.Context, cmd commands.IngestContentCommand) (*commands.IngestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	confidence, err := valueobjects.NewConfidence(cmd.Confidence)
	if err != nil {
		return nil, err
	}

	// Suppression gate. A suppressed candidate never reaches the store
	// and leaves exactly one timeline entry.
	decision, err := o.engine.Evaluate(ctx, cmd.Description, cmd.Sources)
	if err != nil {
		return nil, err
	}
	if decision.Suppressed {
		return o.recordSuppression(ctx, cmd, confidence, decision)
	}

	var (
		mainResult     *aggregates.MergeResult
		relatedResults []*aggregates.MergeResult
		contradictions []*entities.Contradiction
		pendingEvents  []domainevents.DomainEvent
	)

	err = o.graphRepo.Update(ctx, cmd.UserID, func(graph *aggregates.KnowledgeGraph) error {
		cfg := graph.Config()
		claim, err := valueobjects.NewClaimWithLimit(cmd.Description, cfg.MaxContentLength)
		if err != nil {
			return err
		}

		mainResult, err = graph.UpsertNode(aggregates.NodeCandidate{
			Type:       entities.NodeType(cmd.NodeType),
			Claim:      claim,
			Confidence: confidence,
			Sources:    cmd.Sources,
			Metadata:   cmd.Details,
		})
		if err != nil {
			return err
		}

		detected, err := o.detector.Inspect(ctx, graph, mainResult)
		if err != nil {
			return err
		}
		contradictions = append(contradictions, detected...)

		for _, related := range cmd.Related {
			relatedClaim, err := valueobjects.NewClaimWithLimit(related.Claim, cfg.MaxContentLength)
			if err != nil {
				return err
			}
			relatedConfidence, err := valueobjects.NewConfidence(related.Confidence)
			if err != nil {
				return err
			}

			result, err := graph.UpsertNode(aggregates.NodeCandidate{
				Type:       entities.NodeType(related.NodeType),
				Claim:      relatedClaim,
				Confidence: relatedConfidence,
				Sources:    cmd.Sources,
			})
			if err != nil {
				return err
			}
			relatedResults = append(relatedResults, result)

			if _, _, err := graph.UpsertEdge(
				mainResult.NodeID, result.NodeID,
				related.Relationship,
				related.Weight, relatedConfidence,
				cmd.Sources,
				related.Bidirectional,
			); err != nil {
				return err
			}

			detected, err := o.detector.Inspect(ctx, graph, result)
			if err != nil {
				return err
			}
			contradictions = append(contradictions, detected...)
		}

		pendingEvents = graph.GetUncommittedEvents()
		graph.MarkEventsAsCommitted()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Detected contradictions are persisted only once the graph mutation
	// has committed; a rolled-back upsert leaves the repository untouched.
	if err := o.detector.Record(ctx, contradictions); err != nil {
		return nil, err
	}

	result := &commands.IngestResult{
		Node: &commands.IngestedNode{
			NodeID:         mainResult.NodeID.String(),
			Outcome:        string(mainResult.Outcome),
			ContentChanged: mainResult.ContentChanged,
		},
	}
	for _, r := range relatedResults {
		result.RelatedNodes = append(result.RelatedNodes, commands.IngestedNode{
			NodeID:         r.NodeID.String(),
			Outcome:        string(r.Outcome),
			ContentChanged: r.ContentChanged,
		})
	}
	for _, c := range contradictions {
		result.Contradictions = append(result.Contradictions, c.ID().String())
	}

	o.recordTimeline(ctx, cmd, confidence, mainResult, relatedResults, contradictions, result)

	if len(pendingEvents) > 0 && o.publisher != nil {
		if err := o.publisher.PublishBatch(ctx, pendingEvents); err != nil {
			// Best effort; the committed state is authoritative.
			o.logger.Warn("event publish failed",
				zap.Int("count", len(pendingEvents)),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

// recordSuppression logs the single suppressionApplied timeline entry
func (o *IngestContentOrchestrator) recordSuppression(
	ctx context.Context,
	cmd commands.IngestContentCommand,
	confidence valueobjects.Confidence,
	decision services.Decision,
) (*commands.IngestResult, error) {
	rule := decision.Rule
	event, err := entities.NewTimelineEvent(
		entities.EventSuppressionApplied,
		"content suppressed by "+string(rule.Type())+" rule",
		map[string]string{
			"rule_id":    rule.ID().String(),
			"rule_type":  string(rule.Type()),
			"rule_value": rule.Value(),
		},
		cmd.Sources,
		entities.ImpactIgnored,
		confidence,
	)
	if err != nil {
		return nil, err
	}
	if err := o.timeline.Record(ctx, event); err != nil {
		return nil, err
	}

	if o.publisher != nil {
		source := ""
		if len(cmd.Sources) > 0 {
			source = cmd.Sources[0]
		}
		if err := o.publisher.Publish(ctx, domainevents.NewSuppressionApplied(rule.ID(), string(rule.Type()), source)); err != nil {
			o.logger.Warn("event publish failed", zap.Error(err))
		}
	}

	return &commands.IngestResult{
		Suppressed:       true,
		RuleID:           rule.ID().String(),
		TimelineEventIDs: []string{event.ID.String()},
	}, nil
}

// recordTimeline writes the audit trail for an allowed event: the analysis
// entry, one knowledge entry per touched node and one entry per detected
// contradiction, all back-linked to the analysis entry.
func (o *IngestContentOrchestrator) recordTimeline(
	ctx context.Context,
	cmd commands.IngestContentCommand,
	confidence valueobjects.Confidence,
	mainResult *aggregates.MergeResult,
	relatedResults []*aggregates.MergeResult,
	contradictions []*entities.Contradiction,
	result *commands.IngestResult,
) {
	analyzed, err := entities.NewTimelineEvent(
		entities.EventContentAnalyzed,
		cmd.Description,
		cmd.Details,
		cmd.Sources,
		entities.ImpactLearned,
		confidence,
	)
	if err != nil {
		o.logger.Warn("timeline event rejected", zap.Error(err))
		return
	}
	if err := o.timeline.Record(ctx, analyzed); err != nil {
		o.logger.Warn("timeline record failed", zap.Error(err))
		return
	}
	result.TimelineEventIDs = append(result.TimelineEventIDs, analyzed.ID.String())

	record := func(eventType entities.TimelineEventType, description string, details map[string]string, impact entities.EventImpact) {
		event, err := entities.NewTimelineEvent(eventType, description, details, cmd.Sources, impact, confidence, analyzed.ID)
		if err != nil {
			o.logger.Warn("timeline event rejected", zap.Error(err))
			return
		}
		if err := o.timeline.Record(ctx, event); err != nil {
			o.logger.Warn("timeline record failed", zap.Error(err))
			return
		}
		result.TimelineEventIDs = append(result.TimelineEventIDs, event.ID.String())
	}

	for _, r := range append([]*aggregates.MergeResult{mainResult}, relatedResults...) {
		eventType := entities.EventKnowledgeUpdated
		if r.Outcome == aggregates.OutcomeCreated {
			eventType = entities.EventKnowledgeCreated
		}
		record(eventType, r.CurrentClaim.Text(), map[string]string{"node_id": r.NodeID.String()}, entities.ImpactLearned)
	}

	for _, c := range contradictions {
		record(
			entities.EventContradictionDetected,
			"conflicting claims about the same subject",
			map[string]string{
				"contradiction_id": c.ID().String(),
				"node_id":          c.NodeID().String(),
				"claim_a":          c.ClaimA(),
				"claim_b":          c.ClaimB(),
			},
			entities.ImpactInfluenced,
		)
	}
}
