// Package ratelimiter throttles requests with fixed windows counted in Redis.
package ratelimiter

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"referearn_backend/internal/platform/http/httperr"
)

// RateLimiter allows at most limit calls per key in each interval. Counters
// live in Redis so every server instance shares them.
type RateLimiter struct {
	rdb      *redis.Client
	limit    int64
	interval time.Duration
	prefix   string
	now      func() time.Time
}

// NewRateLimiter creates a RateLimiter. A nil client or a non-positive limit
// disables limiting.
func NewRateLimiter(rdb *redis.Client, limit int, interval time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		limit:    int64(limit),
		interval: interval,
		prefix:   prefix,
		now:      time.Now,
	}
}

func (rl *RateLimiter) enabled() bool {
	return rl != nil && rl.rdb != nil && rl.limit > 0 && rl.interval > 0
}

// Allow counts one call for key. When the window is exhausted it returns
// false and the time until the window resets.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if !rl.enabled() {
		return true, 0, nil
	}

	now := rl.now()
	window := now.Truncate(rl.interval)
	k := fmt.Sprintf("%s:%s:%d", rl.prefix, key, window.Unix())

	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, rl.interval)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("rate limit %s: %w", k, err)
	}

	if incr.Val() > rl.limit {
		return false, window.Add(rl.interval).Sub(now), nil
	}
	return true, 0, nil
}

// Middleware limits requests per client IP and answers 429 with Retry-After
// when the window is exhausted. Redis failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter, err := rl.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.Error(err))
		}
		if !ok {
			secs := int(retryAfter.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			zap.L().Warn("rate limit hit", zap.String("remote_addr", c.ClientIP()), zap.String("path", c.FullPath()))
			c.Header("Retry-After", strconv.Itoa(secs))
			httperr.JSON(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
