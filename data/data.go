package data

import (
	"context"
	"errors"

	"github.com/ncobase/classroom/data/config"
	"github.com/ncobase/classroom/data/connection"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/redis/go-redis/v9"
)

// Data owns the store connections of the process
type Data struct {
	Mongo *connection.MongoManager
	Redis *redis.Client // nil when Redis is not configured

	log *logger.Logger
}

// New connects MongoDB, retrying per config, and the optional Redis.
// A MongoDB failure after the last retry is returned so startup aborts.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...connection.Option) (*Data, func(), error) {
	if cfg == nil || cfg.MongoDB == nil {
		return nil, nil, errors.New("mongodb configuration is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	mgr := connection.NewMongoManager(cfg.MongoDB, log, opts...)
	if err := mgr.Connect(ctx); err != nil {
		return nil, nil, err
	}

	rc, err := connection.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn(ctx, "redis unavailable, rate limiting disabled", "error", err)
		rc = nil
	}

	d := &Data{Mongo: mgr, Redis: rc, log: log}
	cleanup := func() {
		if errs := d.Close(context.Background()); len(errs) > 0 {
			log.Error(context.Background(), "data cleanup errors", "errors", errors.Join(errs...))
		}
	}

	return d, cleanup, nil
}

// Close tears down every connection
func (d *Data) Close(ctx context.Context) (errs []error) {
	if d.Mongo != nil {
		if err := d.Mongo.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
