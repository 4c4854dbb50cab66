package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"cortex/domain/core/aggregates"
	pkgerrors "cortex/pkg/errors"
)

// SnapshotStore persists graph snapshots to DynamoDB, one item per user.
// Each save overwrites the previous snapshot; the timeline carries the
// fine-grained history.
type SnapshotStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSnapshotStore creates a new SnapshotStore
func NewSnapshotStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// snapshotItem is the DynamoDB item structure for a graph snapshot. The
// snapshot itself travels as a JSON document so the domain types stay free
// of storage tags.
type snapshotItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	UserID     string `dynamodbav:"UserID"`
	GraphID    string `dynamodbav:"GraphID"`
	NodeCount  int    `dynamodbav:"NodeCount"`
	EdgeCount  int    `dynamodbav:"EdgeCount"`
	Version    int64  `dynamodbav:"Version"`
	SavedAt    string `dynamodbav:"SavedAt"`
	Document   string `dynamodbav:"Document"`
}

// newSnapshotItem builds the storage item for a snapshot
func newSnapshotItem(snapshot aggregates.GraphSnapshot) (snapshotItem, error) {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return snapshotItem{}, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return snapshotItem{
		PK:         fmt.Sprintf("USER#%s", snapshot.UserID),
		SK:         "SNAPSHOT",
		EntityType: "GRAPH_SNAPSHOT",
		UserID:     snapshot.UserID,
		GraphID:    snapshot.ID,
		NodeCount:  len(snapshot.Nodes),
		EdgeCount:  len(snapshot.Edges),
		Version:    int64(snapshot.Version),
		SavedAt:    time.Now().Format(time.RFC3339),
		Document:   string(document),
	}, nil
}

// SaveSnapshot persists a snapshot, replacing the user's previous one
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot aggregates.GraphSnapshot) error {
	item, err := newSnapshotItem(snapshot)
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot item: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("failed to save snapshot",
			zap.String("user_id", snapshot.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved",
		zap.String("user_id", snapshot.UserID),
		zap.Int("nodes", len(snapshot.Nodes)),
		zap.Int("edges", len(snapshot.Edges)))
	return nil
}

// LoadSnapshot retrieves the user's latest snapshot
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, userID string) (aggregates.GraphSnapshot, error) {
	var snapshot aggregates.GraphSnapshot

	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": fmt.Sprintf("USER#%s", userID),
		"SK": "SNAPSHOT",
	})
	if err != nil {
		return snapshot, fmt.Errorf("failed to marshal snapshot key: %w", err)
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       key,
	})
	if err != nil {
		return snapshot, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if out.Item == nil {
		return snapshot, pkgerrors.NewNotFoundError("snapshot for user " + userID)
	}

	var item snapshotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return snapshot, fmt.Errorf("failed to unmarshal snapshot item: %w", err)
	}
	if err := json.Unmarshal([]byte(item.Document), &snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to decode snapshot document: %w", err)
	}
	return snapshot, nil
}
