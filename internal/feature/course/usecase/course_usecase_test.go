package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referearn_backend/internal/feature/course/domain/entity"
)

// mockCourseRepository is a func-field mock of CourseRepository.
type mockCourseRepository struct {
	ListActiveFunc  func(ctx context.Context) ([]entity.Course, error)
	FindByIDFunc    func(ctx context.Context, id uint) (*entity.Course, error)
	UpsertBatchFunc func(ctx context.Context, courses []entity.Course) error
}

func (m *mockCourseRepository) ListActive(ctx context.Context) ([]entity.Course, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return []entity.Course{}, nil
}

func (m *mockCourseRepository) FindByID(ctx context.Context, id uint) (*entity.Course, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrCourseNotFound
}

func (m *mockCourseRepository) UpsertBatch(ctx context.Context, courses []entity.Course) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, courses)
	}
	return nil
}

func TestCourseUsecase_ListCourses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		repo    *mockCourseRepository
		want    int
		wantErr bool
	}{
		{
			name: "returns repository rows",
			repo: &mockCourseRepository{ListActiveFunc: func(ctx context.Context) ([]entity.Course, error) {
				return []entity.Course{{Slug: "a"}, {Slug: "b"}}, nil
			}},
			want: 2,
		},
		{
			name: "repository error",
			repo: &mockCourseRepository{ListActiveFunc: func(ctx context.Context) ([]entity.Course, error) {
				return nil, errors.New("db down")
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewCourseUsecase(tt.repo).ListCourses(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestCourseUsecase_GetCourse(t *testing.T) {
	t.Parallel()

	repo := &mockCourseRepository{FindByIDFunc: func(ctx context.Context, id uint) (*entity.Course, error) {
		switch id {
		case 1:
			return &entity.Course{ID: 1, IsActive: true}, nil
		case 2:
			return &entity.Course{ID: 2, IsActive: false}, nil
		}
		return nil, ErrCourseNotFound
	}}
	uc := NewCourseUsecase(repo)

	got, err := uc.GetCourse(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)

	_, err = uc.GetCourse(context.Background(), 2)
	assert.ErrorIs(t, err, ErrCourseNotFound, "inactive courses are hidden")

	_, err = uc.GetCourse(context.Background(), 3)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}
