package data

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemory(t *testing.T) {
	d, cleanup, err := New(&config.Data{Driver: config.DriverMemory}, logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, d.TaskRepo)
	assert.NotNil(t, d.StaffRepo)
	assert.NotNil(t, d.RequestRepo)
	assert.NotNil(t, d.ManagerRepo)
	assert.Nil(t, d.Publisher)

	health := d.Health(context.Background())
	assert.Equal(t, "healthy", health["status"])
}

func TestNewMemoryWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default().Data
	cfg.Driver = config.DriverMemory
	cfg.Redis.Addr = mr.Addr()

	d, cleanup, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	health := d.Health(context.Background())
	assert.Equal(t, "healthy", health["status"])
	assert.Contains(t, health["services"], "redis")

	mr.Close()
	health = d.Health(context.Background())
	assert.Equal(t, "degraded", health["status"])
}

func TestNewUnknownDriver(t *testing.T) {
	_, _, err := New(&config.Data{Driver: "cassandra"}, logger.NewNop())
	assert.Error(t, err)
}

func TestNewMongoWithoutURI(t *testing.T) {
	_, _, err := New(&config.Data{Driver: config.DriverMongoDB, MongoDB: &config.MongoDB{}}, logger.NewNop())
	assert.Error(t, err)
}
