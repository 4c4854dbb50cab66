package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"cortex/domain/core/entities"
)

// TimelineArchive stores timeline events evicted from the in-memory
// retention window. Events are keyed by timestamp so time-range queries
// map directly onto a DynamoDB key condition.
type TimelineArchive struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewTimelineArchive creates a new TimelineArchive
func NewTimelineArchive(client *dynamodb.Client, tableName string, logger *zap.Logger) *TimelineArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineArchive{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// archiveItem is the DynamoDB item structure for an archived event
type archiveItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	EventID   string `dynamodbav:"EventID"`
	EventType string `dynamodbav:"EventType"`
	Timestamp string `dynamodbav:"Timestamp"`
	Document  string `dynamodbav:"Document"`
}

const archivePartition = "TIMELINE"

// Archive writes the evicted events. Items are written individually so a
// single bad event does not sink the batch.
func (a *TimelineArchive) Archive(ctx context.Context, events []*entities.TimelineEvent) error {
	var lastErr error
	for _, event := range events {
		if err := a.put(ctx, event); err != nil {
			a.logger.Warn("failed to archive timeline event",
				zap.String("event_id", event.ID.String()),
				zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

func (a *TimelineArchive) put(ctx context.Context, event *entities.TimelineEvent) error {
	document, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline event: %w", err)
	}

	item := archiveItem{
		PK:        archivePartition,
		SK:        sortKey(event),
		EventID:   event.ID.String(),
		EventType: string(event.Type),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Document:  string(document),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal archive item: %w", err)
	}

	if _, err := a.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(a.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to archive event: %w", err)
	}
	return nil
}

// Query returns archived events within [from, to], oldest first
func (a *TimelineArchive) Query(ctx context.Context, from, to time.Time, limit int) ([]*entities.TimelineEvent, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(archivePartition)).
		And(expression.Key("SK").Between(
			expression.Value("EVENT#"+from.UTC().Format(time.RFC3339Nano)),
			// A trailing ~ sorts after any event ID suffix at the same instant.
			expression.Value("EVENT#"+to.UTC().Format(time.RFC3339Nano)+"~"),
		))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build archive query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(a.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := a.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}

	events := make([]*entities.TimelineEvent, 0, len(out.Items))
	for _, raw := range out.Items {
		var item archiveItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal archive item: %w", err)
		}
		var event entities.TimelineEvent
		if err := json.Unmarshal([]byte(item.Document), &event); err != nil {
			return nil, fmt.Errorf("failed to decode archived event: %w", err)
		}
		events = append(events, &event)
	}
	return events, nil
}

func sortKey(event *entities.TimelineEvent) string {
	return fmt.Sprintf("EVENT#%s#%s",
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		event.ID.String())
}
