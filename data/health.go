package data

import (
	"context"
	"time"

	"github.com/ncobase/classroom/data/connection"
)

// Health is the status of every store
type Health struct {
	Database connection.HealthStatus  `json:"database"`
	Cache    *connection.HealthStatus `json:"cache,omitempty"`
}

// Health checks MongoDB and, when configured, Redis. It never fails.
func (d *Data) Health(ctx context.Context) Health {
	h := Health{
		Database: connection.HealthStatus{Status: connection.StatusUnhealthy, State: connection.StateDisconnected.String()},
	}
	if d.Mongo != nil {
		h.Database = d.Mongo.Health(ctx)
	}

	if d.Redis != nil {
		timeout, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		cache := connection.HealthStatus{Status: connection.StatusHealthy, State: connection.StateConnected.String()}
		if err := d.Redis.Ping(timeout).Err(); err != nil {
			cache = connection.HealthStatus{
				Status: connection.StatusUnhealthy,
				State:  connection.StateDisconnected.String(),
				Error:  err.Error(),
			}
		}
		h.Cache = &cache
	}

	return h
}
