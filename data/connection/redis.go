package connection

import (
	"context"
	"fmt"

	"github.com/ncobase/classroom/data/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client and pings it. It returns nil, nil
// when Redis is not configured.
func NewRedisClient(ctx context.Context, conf *config.Redis) (*redis.Client, error) {
	if conf == nil || conf.Addr == "" {
		return nil, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:         conf.Addr,
		Username:     conf.Username,
		Password:     conf.Password,
		DB:           conf.Db,
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
		DialTimeout:  conf.DialTimeout,
		PoolSize:     10,
	})

	timeout, cancel := context.WithTimeout(ctx, conf.DialTimeout)
	defer cancel()
	if err := rc.Ping(timeout).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis connect error: %w", err)
	}

	return rc, nil
}
