package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ncobase/staffing/data/memory"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/structs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return mr, rc
}

func TestCacheMiss(t *testing.T) {
	_, rc := newTestClient(t)
	c := NewCache[staffEntry](rc, "staff", time.Minute)

	got, err := c.Get(context.Background(), "nobody@x.io")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheTTL(t *testing.T) {
	mr, rc := newTestClient(t)
	c := NewCache[staffEntry](rc, "staff", time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a@x.io", &staffEntry{Email: "a@x.io"}))
	assert.Equal(t, time.Minute, mr.TTL("staff:a@x.io"))

	mr.FastForward(2 * time.Minute)
	ok, err := c.Exists(ctx, "a@x.io")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaffRepositoryReadThrough(t *testing.T) {
	mr, rc := newTestClient(t)
	ctx := context.Background()
	repo := NewStaffRepository(memory.NewStaffRepository(), rc, time.Minute, logger.NewNop())

	_, err := repo.Create(ctx, &structs.StaffProfile{
		Email:    "a@x.io",
		Name:     "Ann",
		Password: "hash",
		Skills:   []string{"go"},
		OTP:      "123456",
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("staff:a@x.io"))

	got, err := repo.Get(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, mr.Exists("staff:a@x.io"))

	// Served from the cache with hidden fields intact.
	cached, err := repo.Get(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, got.Password, cached.Password)
	assert.Equal(t, "123456", cached.OTP)

	require.NoError(t, repo.UpdateAvailability(ctx, "a@x.io", &structs.DateRange{StartDate: "2024-01-01", EndDate: "2024-01-10"}))
	assert.False(t, mr.Exists("staff:a@x.io"))

	fresh, err := repo.Get(ctx, "a@x.io")
	require.NoError(t, err)
	require.NotNil(t, fresh.Availability)
	assert.Equal(t, "2024-01-10", fresh.Availability.EndDate)
}

func TestStaffRepositoryCacheDown(t *testing.T) {
	mr, rc := newTestClient(t)
	ctx := context.Background()
	repo := NewStaffRepository(memory.NewStaffRepository(), rc, time.Minute, logger.NewNop())

	_, err := repo.Create(ctx, &structs.StaffProfile{Email: "a@x.io"})
	require.NoError(t, err)

	mr.Close()
	got, err := repo.Get(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got.Email)
}
