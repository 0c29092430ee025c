package cache

import (
	"context"
	"time"

	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/structs"
	"github.com/redis/go-redis/v9"
)

// staffEntry mirrors StaffProfile with every field serialized; the
// profile's own JSON form hides credentials.
type staffEntry struct {
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	Password     string             `json:"password"`
	Skills       []string           `json:"skills"`
	Availability *structs.DateRange `json:"availability,omitempty"`
	IsVerified   bool               `json:"is_verified"`
	OTP          string             `json:"otp,omitempty"`
	OTPExpiresAt time.Time          `json:"otp_expires_at"`
	CreatedAt    time.Time          `json:"created_at"`
}

func toEntry(s *structs.StaffProfile) *staffEntry {
	return &staffEntry{
		Email:        s.Email,
		Name:         s.Name,
		Password:     s.Password,
		Skills:       s.Skills,
		Availability: s.Availability,
		IsVerified:   s.IsVerified,
		OTP:          s.OTP,
		OTPExpiresAt: s.OTPExpiresAt,
		CreatedAt:    s.CreatedAt,
	}
}

func (e *staffEntry) profile() *structs.StaffProfile {
	return &structs.StaffProfile{
		Email:        e.Email,
		Name:         e.Name,
		Password:     e.Password,
		Skills:       e.Skills,
		Availability: e.Availability,
		IsVerified:   e.IsVerified,
		OTP:          e.OTP,
		OTPExpiresAt: e.OTPExpiresAt,
		CreatedAt:    e.CreatedAt,
	}
}

type staffRepository struct {
	next   repository.StaffRepository
	cache  *Cache[staffEntry]
	logger *logger.Logger
}

// NewStaffRepository wraps a staff repository with a read-through profile
// cache. Writes go to the wrapped store first and then evict the entry.
// Cache failures are logged and never fail the call.
func NewStaffRepository(next repository.StaffRepository, rc *redis.Client, ttl time.Duration, logger *logger.Logger) repository.StaffRepository {
	return &staffRepository{
		next:   next,
		cache:  NewCache[staffEntry](rc, "staff", ttl),
		logger: logger,
	}
}

func (r *staffRepository) Create(ctx context.Context, staff *structs.StaffProfile) (*structs.StaffProfile, error) {
	created, err := r.next.Create(ctx, staff)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, staff.Email)
	return created, nil
}

func (r *staffRepository) Get(ctx context.Context, email string) (*structs.StaffProfile, error) {
	entry, err := r.cache.Get(ctx, email)
	if err != nil {
		r.logger.Warn(ctx, "staff cache read failed", "email", email, "error", err)
	}
	if entry != nil {
		return entry.profile(), nil
	}

	staff, err := r.next.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, email, toEntry(staff)); err != nil {
		r.logger.Warn(ctx, "staff cache write failed", "email", email, "error", err)
	}
	return staff, nil
}

func (r *staffRepository) List(ctx context.Context) ([]*structs.StaffProfile, error) {
	return r.next.List(ctx)
}

func (r *staffRepository) MarkVerified(ctx context.Context, email string) error {
	if err := r.next.MarkVerified(ctx, email); err != nil {
		return err
	}
	r.evict(ctx, email)
	return nil
}

func (r *staffRepository) UpdateAvailability(ctx context.Context, email string, availability *structs.DateRange) error {
	if err := r.next.UpdateAvailability(ctx, email, availability); err != nil {
		return err
	}
	r.evict(ctx, email)
	return nil
}

func (r *staffRepository) evict(ctx context.Context, email string) {
	if err := r.cache.Delete(ctx, email); err != nil {
		r.logger.Warn(ctx, "staff cache eviction failed", "email", email, "error", err)
	}
}
