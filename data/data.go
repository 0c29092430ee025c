// Package data wires the storage backends behind the repository interfaces.
package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/data/cache"
	"github.com/ncobase/staffing/data/memory"
	"github.com/ncobase/staffing/data/rabbitmq"
	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Data encapsulates all data layer dependencies.
type Data struct {
	TaskRepo    repository.TaskRepository
	StaffRepo   repository.StaffRepository
	RequestRepo repository.RequestRepository
	ManagerRepo repository.ManagerRepository

	// Publisher is nil when no broker is configured.
	Publisher *rabbitmq.Publisher

	mongo *mongo.Client
	redis *redis.Client
}

// New creates the data layer for the configured driver and returns a
// cleanup function that releases every connection.
func New(cfg *config.Data, log *logger.Logger) (*Data, func(), error) {
	d := &Data{}
	cleanup := func() {
		if err := d.Close(); err != nil {
			log.Error(context.Background(), "failed to close data layer", "error", err)
		}
	}

	switch cfg.Driver {
	case config.DriverMemory:
		d.TaskRepo = memory.NewTaskRepository()
		d.StaffRepo = memory.NewStaffRepository()
		d.RequestRepo = memory.NewRequestRepository()
		d.ManagerRepo = memory.NewManagerRepository()
		log.Info(context.Background(), "using in-memory store")
	case config.DriverMongoDB, "":
		db, err := d.connectMongo(cfg.MongoDB, log)
		if err != nil {
			return nil, nil, err
		}
		d.TaskRepo = repository.NewTaskRepository(db, log)
		d.StaffRepo = repository.NewStaffRepository(db, log)
		requests, err := repository.NewRequestRepository(db, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		d.RequestRepo = requests
		d.ManagerRepo = repository.NewManagerRepository(db, log)
	default:
		return nil, nil, fmt.Errorf("unsupported data driver %q", cfg.Driver)
	}

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		rc, err := connectRedis(cfg.Redis)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		d.redis = rc
		d.StaffRepo = cache.NewStaffRepository(d.StaffRepo, rc, cfg.Redis.TTL, log)
		log.Info(context.Background(), "staff profile cache enabled", "addr", cfg.Redis.Addr)
	}

	if cfg.RabbitMQ != nil && cfg.RabbitMQ.URL != "" {
		pub, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		d.Publisher = pub
		log.Info(context.Background(), "connected to RabbitMQ", "exchange", cfg.RabbitMQ.Exchange)
	}

	return d, cleanup, nil
}

func (d *Data) connectMongo(cfg *config.MongoDB, log *logger.Logger) (*mongo.Database, error) {
	if cfg == nil || cfg.URI == "" {
		return nil, errors.New("mongodb: uri is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info(ctx, "Connected to MongoDB successfully", "database", cfg.Database)
	d.mongo = client
	return client.Database(cfg.Database), nil
}

func connectRedis(cfg *config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}
	return client, nil
}

// Close releases every open connection.
func (d *Data) Close() error {
	var errs []error
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("rabbitmq: %w", err))
		}
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if d.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb: %w", err))
		}
	}
	return errors.Join(errs...)
}
