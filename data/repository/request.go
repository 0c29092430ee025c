package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/structs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type requestRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewRequestRepository creates a new request repository instance. The
// claim index backs the one-claim-per-task rule, so failing to build it is
// an error; the lookup indexes only warn.
func NewRequestRepository(db *mongo.Database, logger *logger.Logger) (RequestRepository, error) {
	collection := db.Collection("requests")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claimIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "claim_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, claimIndex); err != nil {
		return nil, fmt.Errorf("failed to create request claim index: %w", err)
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "task_id", Value: 1}, {Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn(ctx, "failed to create request indexes", "error", err)
	}

	return &requestRepository{
		collection: collection,
		logger:     logger,
	}, nil
}

// Create inserts a new request.
func (r *requestRepository) Create(ctx context.Context, req *structs.Request) (*structs.Request, error) {
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("request for task %s: %w", req.TaskID, ErrDuplicate)
		}
		r.logger.Error(ctx, "failed to create request", "task_id", req.TaskID, "email", req.Email, "error", err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	r.logger.Info(ctx, "request created", "request_id", req.ID, "task_id", req.TaskID, "status", req.Status)
	return req, nil
}

// FindByTaskAndEmail retrieves the latest request for a task and staff pair.
func (r *requestRepository) FindByTaskAndEmail(ctx context.Context, taskID, email string) (*structs.Request, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var req structs.Request
	err := r.collection.FindOne(ctx, bson.M{"task_id": taskID, "email": email}, opts).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find request", "task_id", taskID, "email", email, "error", err)
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	return &req, nil
}

// List retrieves requests matching the filter, newest first.
func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]*structs.Request, error) {
	query := bson.M{}
	if filter.TaskID != "" {
		query["task_id"] = filter.TaskID
	}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list requests", "error", err)
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := make([]*structs.Request, 0)
	if err := cursor.All(ctx, &requests); err != nil {
		r.logger.Error(ctx, "failed to decode requests", "error", err)
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus sets the request status guarded by its current status.
func (r *requestRepository) UpdateStatus(ctx context.Context, id string, from []structs.RequestStatus, to structs.RequestStatus, releaseClaim bool) error {
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}
	if releaseClaim {
		update["$unset"] = bson.M{"claim_key": ""}
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		update,
	)
	if err != nil {
		r.logger.Error(ctx, "failed to update request status", "request_id", id, "error", err)
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrConditionFailed
	}

	r.logger.Info(ctx, "request status changed", "request_id", id, "to", to)
	return nil
}
