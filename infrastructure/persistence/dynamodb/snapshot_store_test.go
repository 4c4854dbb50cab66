package dynamodb

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/core/aggregates"
)

func TestNewSnapshotItem(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	snapshot := aggregates.GraphSnapshot{
		ID:     "graph-1",
		UserID: "user-1",
		Nodes: []aggregates.NodeSnapshot{
			{ID: "node-1", Type: "fact", Claim: "Paris is the capital of France", Confidence: 0.8},
			{ID: "node-2", Type: "fact", Claim: "France is a country", Confidence: 0.9},
		},
		Edges: []aggregates.EdgeSnapshot{
			{ID: "edge-1", SourceID: "node-1", TargetID: "node-2", Relationship: "locatedIn"},
		},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   7,
	}

	item, err := newSnapshotItem(snapshot)
	require.NoError(t, err)

	assert.Equal(t, "USER#user-1", item.PK)
	assert.Equal(t, "SNAPSHOT", item.SK)
	assert.Equal(t, "GRAPH_SNAPSHOT", item.EntityType)
	assert.Equal(t, "graph-1", item.GraphID)
	assert.Equal(t, 2, item.NodeCount)
	assert.Equal(t, 1, item.EdgeCount)
	assert.Equal(t, int64(7), item.Version)

	// The document restores the snapshot the load path decodes.
	var restored aggregates.GraphSnapshot
	require.NoError(t, json.Unmarshal([]byte(item.Document), &restored))
	assert.Equal(t, snapshot.ID, restored.ID)
	assert.Equal(t, snapshot.Version, restored.Version)
	require.Len(t, restored.Nodes, 2)
	assert.Equal(t, "Paris is the capital of France", restored.Nodes[0].Claim)
	require.Len(t, restored.Edges, 1)
	assert.Equal(t, "locatedIn", restored.Edges[0].Relationship)
}
