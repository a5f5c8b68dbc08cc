package usecase

import (
	"context"

	"referearn_backend/internal/feature/course/domain/entity"
)

// CourseRepository abstracts course storage.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CourseRepository interface {
	ListActive(ctx context.Context) ([]entity.Course, error)
	// FindByID returns ErrCourseNotFound when the id is unknown.
	FindByID(ctx context.Context, id uint) (*entity.Course, error)
	UpsertBatch(ctx context.Context, courses []entity.Course) error
}

// CourseUsecase serves the read side of the catalog.
type CourseUsecase struct {
	repo CourseRepository
}

// NewCourseUsecase creates a CourseUsecase with the given repository.
func NewCourseUsecase(r CourseRepository) *CourseUsecase {
	return &CourseUsecase{repo: r}
}

// ListCourses returns active courses ordered by sort key.
func (u *CourseUsecase) ListCourses(ctx context.Context) ([]entity.Course, error) {
	return u.repo.ListActive(ctx)
}

// GetCourse returns the course if it exists and is active.
func (u *CourseUsecase) GetCourse(ctx context.Context, id uint) (*entity.Course, error) {
	course, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrCourseNotFound
	}
	return course, nil
}
