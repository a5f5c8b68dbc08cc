package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"referearn_backend/internal/feature/account/domain/entity"
	"referearn_backend/internal/feature/account/usecase"
	"referearn_backend/internal/platform/db"
)

// sessionRepository stores sessions in the sessions table. It is used when
// Redis is not configured.
type sessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.SessionRepository = (*sessionRepository)(nil)

// NewSessionRepository creates a sessionRepository on the given handle.
func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create persists a new session.
func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return db.Classify(err)
	}
	return nil
}

// FindByID retrieves a session by its refresh token ID.
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, db.Classify(err)
	}
	return model.ToEntity(), nil
}

// Revoke marks an active session as revoked. The conditional update makes
// concurrent revokes of the same id race on the row; losers get
// ErrSessionRevoked.
func (r *sessionRepository) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", r.now())

	if result.Error != nil {
		return db.Classify(result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&SessionModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return db.Classify(err)
	}
	if count == 0 {
		return usecase.ErrSessionNotFound
	}
	return usecase.ErrSessionRevoked
}

// RevokeAllByUserID revokes all sessions for a given user.
func (r *sessionRepository) RevokeAllByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", r.now()).Error
	return db.Classify(err)
}

// CountByUserID returns the number of active sessions for a user.
func (r *sessionRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, r.now()).
		Count(&count).Error
	return count, db.Classify(err)
}

// DeleteOldestByUserID deletes the oldest active session for a user.
func (r *sessionRepository) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	var oldest SessionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, r.now()).
		Order("created_at ASC").
		First(&oldest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return db.Classify(err)
	}

	return db.Classify(r.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", oldest.ID).Error)
}
