// Package adapters provides gorm repository implementations for the account feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"referearn_backend/internal/feature/account/domain/entity"
	"referearn_backend/internal/feature/account/usecase"
	"referearn_backend/internal/platform/db"
)

// userRepository implements usecase.UserRepository with gorm.
type userRepository struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userRepository)(nil)

// NewUserRepository creates a userRepository on the given handle.
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// Create inserts the user. Uniqueness is enforced by the table's unique
// indexes; on a violation the offending column is identified afterwards.
func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if err == nil {
		return nil
	}
	if !db.IsDuplicateKey(err) {
		return db.Classify(err)
	}

	taken, lookupErr := r.exists(ctx, "username = ?", u.Username)
	if lookupErr != nil {
		return lookupErr
	}
	if taken {
		return usecase.ErrUsernameTaken
	}
	taken, lookupErr = r.exists(ctx, "email = ?", u.Email)
	if lookupErr != nil {
		return lookupErr
	}
	if taken {
		return usecase.ErrEmailAlreadyExists
	}
	return usecase.ErrReferralCodeTaken
}

func (r *userRepository) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, db.Classify(err)
	}
	return count > 0, nil
}

// FindByEmail returns usecase.ErrUserNotFound when no user matches.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID returns usecase.ErrUserNotFound when no user matches.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByReferralCode returns usecase.ErrUserNotFound when no user matches.
func (r *userRepository) FindByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	return r.first(ctx, "referral_code = ?", code)
}

func (r *userRepository) first(ctx context.Context, cond string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, db.Classify(err)
	}
	return &u, nil
}
