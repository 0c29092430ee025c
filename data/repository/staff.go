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

type staffRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewStaffRepository creates a new staff repository instance. Profiles are
// keyed by email, so uniqueness comes from the primary key.
func NewStaffRepository(db *mongo.Database, logger *logger.Logger) StaffRepository {
	return &staffRepository{
		collection: db.Collection("staff"),
		logger:     logger,
	}
}

// Create creates a new staff profile.
func (r *staffRepository) Create(ctx context.Context, staff *structs.StaffProfile) (*structs.StaffProfile, error) {
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, staff); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("staff %s: %w", staff.Email, ErrDuplicate)
		}
		r.logger.Error(ctx, "failed to create staff", "email", staff.Email, "error", err)
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}

	r.logger.Info(ctx, "staff created", "email", staff.Email)
	return staff, nil
}

// Get retrieves a staff profile by email.
func (r *staffRepository) Get(ctx context.Context, email string) (*structs.StaffProfile, error) {
	var staff structs.StaffProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": email}).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find staff", "email", email, "error", err)
		return nil, fmt.Errorf("failed to find staff: %w", err)
	}
	return &staff, nil
}

// List retrieves all staff profiles.
func (r *staffRepository) List(ctx context.Context) ([]*structs.StaffProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list staff", "error", err)
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer cursor.Close(ctx)

	staff := make([]*structs.StaffProfile, 0)
	if err := cursor.All(ctx, &staff); err != nil {
		r.logger.Error(ctx, "failed to decode staff", "error", err)
		return nil, fmt.Errorf("failed to decode staff: %w", err)
	}
	return staff, nil
}

// MarkVerified flags the profile as verified and clears its OTP.
func (r *staffRepository) MarkVerified(ctx context.Context, email string) error {
	return r.update(ctx, email, bson.M{
		"$set":   bson.M{"is_verified": true},
		"$unset": bson.M{"otp": "", "otp_expires_at": ""},
	})
}

// UpdateAvailability replaces the availability window of an existing profile.
func (r *staffRepository) UpdateAvailability(ctx context.Context, email string, availability *structs.DateRange) error {
	return r.update(ctx, email, bson.M{"$set": bson.M{"availability": availability}})
}

func (r *staffRepository) update(ctx context.Context, email string, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": email}, update)
	if err != nil {
		r.logger.Error(ctx, "failed to update staff", "email", email, "error", err)
		return fmt.Errorf("failed to update staff: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
