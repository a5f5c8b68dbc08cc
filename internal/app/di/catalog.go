package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	courseadapters "referearn_backend/internal/feature/course/adapters"
	"referearn_backend/internal/platform/cache"
)

// CourseNamespace prefixes every cached catalog key.
const CourseNamespace = "courses"

// NewCourseRepository wraps the database course repository in the Redis
// cache. A nil rdb yields a pass-through decorator.
func NewCourseRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) *cache.CachingCourseRepository {
	return cache.NewCachingCourseRepository(rdb, ttl, courseadapters.NewCourseRepository(db), CourseNamespace)
}
