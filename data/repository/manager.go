package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/structs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type managerRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewManagerRepository creates a new manager repository instance.
func NewManagerRepository(db *mongo.Database, logger *logger.Logger) ManagerRepository {
	return &managerRepository{
		collection: db.Collection("managers"),
		logger:     logger,
	}
}

// Create creates a new manager account.
func (r *managerRepository) Create(ctx context.Context, manager *structs.Manager) (*structs.Manager, error) {
	if _, err := r.collection.InsertOne(ctx, manager); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("manager %s: %w", manager.Email, ErrDuplicate)
		}
		r.logger.Error(ctx, "failed to create manager", "email", manager.Email, "error", err)
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}
	return manager, nil
}

// Get retrieves a manager account by email.
func (r *managerRepository) Get(ctx context.Context, email string) (*structs.Manager, error) {
	var manager structs.Manager
	err := r.collection.FindOne(ctx, bson.M{"_id": email}).Decode(&manager)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find manager", "email", email, "error", err)
		return nil, fmt.Errorf("failed to find manager: %w", err)
	}
	return &manager, nil
}
