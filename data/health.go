package data

import (
	"context"
	"time"
)

// Health reports the state of each configured backend. The overall status
// is "degraded" when any backend fails its check.
func (d *Data) Health(ctx context.Context) map[string]any {
	services := make(map[string]any)
	healthy := true

	if d.mongo != nil {
		start := time.Now()
		err := d.mongo.Ping(ctx, nil)
		services["mongodb"] = serviceStatus(err, time.Since(start))
		healthy = healthy && err == nil
	}

	if d.redis != nil {
		start := time.Now()
		err := d.redis.Ping(ctx).Err()
		services["redis"] = serviceStatus(err, time.Since(start))
		healthy = healthy && err == nil
	}

	if d.Publisher != nil {
		ok := d.Publisher.IsConnected()
		services["rabbitmq"] = map[string]any{"healthy": ok}
		healthy = healthy && ok
	}

	status := "healthy"
	if !healthy {
		status = "degraded"
	}
	return map[string]any{
		"status":    status,
		"timestamp": time.Now(),
		"services":  services,
	}
}

func serviceStatus(err error, elapsed time.Duration) map[string]any {
	s := map[string]any{
		"healthy":     err == nil,
		"response_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		s["error"] = err.Error()
	}
	return s
}
