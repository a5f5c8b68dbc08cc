// Package cache provides Redis decorators for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"referearn_backend/internal/feature/course/domain/entity"
	"referearn_backend/internal/feature/course/usecase"
)

// CachingCourseRepository decorates a CourseRepository with Redis caching.
// A nil client disables caching.
type CachingCourseRepository struct {
	inner     usecase.CourseRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.CourseRepository = (*CachingCourseRepository)(nil)

// NewCachingCourseRepository decorates inner. With ttl <= 0 entries expire at
// the next RefreshHourUTC. An empty namespace uses "courses".
func NewCachingCourseRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CourseRepository, namespace string) *CachingCourseRepository {
	if namespace == "" {
		namespace = "courses"
	}
	return &CachingCourseRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

func (c *CachingCourseRepository) expiry() time.Duration {
	if c.ttl > 0 {
		return c.ttl
	}
	return TimeUntilNext(RefreshHourUTC, c.now())
}

// ListActive serves the active course list from cache when present.
func (c *CachingCourseRepository) ListActive(ctx context.Context) ([]entity.Course, error) {
	if c.rdb == nil {
		return c.inner.ListActive(ctx)
	}

	key := c.namespace + ":active"
	var out []entity.Course
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindByID serves a single course from cache when present. Misses of unknown
// ids are not cached.
func (c *CachingCourseRepository) FindByID(ctx context.Context, id uint) (*entity.Course, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := fmt.Sprintf("%s:id:%d", c.namespace, id)
	var out entity.Course
	if c.get(ctx, key, &out) {
		return &out, nil
	}

	found, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, found)
	return found, nil
}

// UpsertBatch writes through to the inner repository and then drops every
// cached entry of the namespace.
func (c *CachingCourseRepository) UpsertBatch(ctx context.Context, courses []entity.Course) error {
	if err := c.inner.UpsertBatch(ctx, courses); err != nil {
		return err
	}
	if c.rdb == nil || len(courses) == 0 {
		return nil
	}
	return c.Invalidate(ctx)
}

// Invalidate deletes all keys of the namespace using SCAN.
func (c *CachingCourseRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, c.namespace+":*", 200).Result()
		if err != nil {
			return fmt.Errorf("scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete cache keys: %w", err)
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

// get decodes key into dst. Corrupt entries are deleted.
func (c *CachingCourseRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		zap.L().Warn("dropping corrupt cache entry", zap.String("key", key), zap.Error(err))
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v under key. Failures only cost a future cache miss.
func (c *CachingCourseRepository) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.expiry()).Err(); err != nil {
		zap.L().Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
