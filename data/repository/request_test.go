package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ncobase/staffing/logging/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nothing listens on port 1, so every server operation fails fast.
func unreachableDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100 * time.Millisecond).
		SetConnectTimeout(100 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("staffing_test")
}

func TestNewRequestRepositoryRequiresClaimIndex(t *testing.T) {
	repo, err := NewRequestRepository(unreachableDatabase(t), logger.NewNop())
	require.Error(t, err)
	assert.Nil(t, repo)
	assert.Contains(t, err.Error(), "claim index")
}
