package limiter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/net/resp"
	"github.com/redis/go-redis/v9"
)

// Result of a single Allow call
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter counts hits per key
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter is a fixed window counter shared by every instance
type RedisLimiter struct {
	rc     *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter allows limit hits per key per window
func NewRedisLimiter(rc *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rc: rc, limit: limit, window: window, prefix: "ratelimit:"}
}

// Allow records a hit for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k := l.prefix + key

	pipe := l.rc.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit counter: %w", err)
	}

	reset := ttl.Val()
	if reset < 0 {
		if err := l.rc.PExpire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit expiry: %w", err)
		}
		reset = l.window
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:    count <= l.limit,
		Limit:      l.limit,
		Remaining:  remaining,
		ResetAfter: reset,
	}, nil
}

// Middleware rejects clients over the limit with 429. A nil limiter lets
// every request through; limiter errors fail open.
func Middleware(l Limiter, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.FullPath()
		res, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.ResetAfter.Round(time.Second)/time.Second)))
			resp.Abort(c, ecode.TooManyRequests(""))
			return
		}

		c.Next()
	}
}
