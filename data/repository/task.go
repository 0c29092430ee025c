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

type taskRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewTaskRepository creates a new task repository instance.
func NewTaskRepository(db *mongo.Database, logger *logger.Logger) TaskRepository {
	collection := db.Collection("tasks")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn(ctx, "failed to create task indexes", "error", err)
	}

	return &taskRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *structs.Task) (*structs.Task, error) {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("task %s: %w", task.TaskID, ErrDuplicate)
		}
		r.logger.Error(ctx, "failed to create task", "task_id", task.TaskID, "error", err)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	r.logger.Info(ctx, "task created", "task_id", task.TaskID)
	return task, nil
}

// Get retrieves a task by id.
func (r *taskRepository) Get(ctx context.Context, taskID string) (*structs.Task, error) {
	var task structs.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find task", "task_id", taskID, "error", err)
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// List retrieves all tasks, newest first.
func (r *taskRepository) List(ctx context.Context) ([]*structs.Task, error) {
	return r.find(ctx, bson.M{})
}

// ListByStatus retrieves tasks holding the given status, newest first.
func (r *taskRepository) ListByStatus(ctx context.Context, status structs.TaskStatus) ([]*structs.Task, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *taskRepository) find(ctx context.Context, filter bson.M) ([]*structs.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]*structs.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		r.logger.Error(ctx, "failed to decode tasks", "error", err)
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// TransitionStatus updates the task status guarded by its current status.
func (r *taskRepository) TransitionStatus(ctx context.Context, taskID string, from, to structs.TaskStatus) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": taskID, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		r.logger.Error(ctx, "failed to update task status", "task_id", taskID, "error", err)
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrConditionFailed
	}

	r.logger.Info(ctx, "task status changed", "task_id", taskID, "from", from, "to", to)
	return nil
}
