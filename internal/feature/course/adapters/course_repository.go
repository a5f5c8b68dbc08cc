// Package adapters provides the gorm course repository.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referearn_backend/internal/feature/course/domain/entity"
	"referearn_backend/internal/feature/course/usecase"
	"referearn_backend/internal/platform/db"
)

type courseRepository struct {
	db *gorm.DB
}

var _ usecase.CourseRepository = (*courseRepository)(nil)

// NewCourseRepository creates a course repository on the given handle.
func NewCourseRepository(db *gorm.DB) *courseRepository {
	return &courseRepository{db: db}
}

// ListActive returns active courses ordered by sort_key then id.
func (r *courseRepository) ListActive(ctx context.Context) ([]entity.Course, error) {
	courses := []entity.Course{}
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("id ASC").
		Find(&courses).Error; err != nil {
		return nil, db.Classify(err)
	}
	return courses, nil
}

// FindByID returns usecase.ErrCourseNotFound for unknown ids.
func (r *courseRepository) FindByID(ctx context.Context, id uint) (*entity.Course, error) {
	var c entity.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCourseNotFound
		}
		return nil, db.Classify(err)
	}
	return &c, nil
}

// UpsertBatch inserts courses or updates existing ones matched by slug.
func (r *courseRepository) UpsertBatch(ctx context.Context, courses []entity.Course) error {
	if len(courses) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "price", "referral_bonus", "is_active", "sort_key", "updated_at",
		}),
	}).Create(&courses).Error
	return db.Classify(err)
}
