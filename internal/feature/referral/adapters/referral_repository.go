// Package adapters provides the gorm implementation of the referral ledger.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	accountentity "referearn_backend/internal/feature/account/domain/entity"
	"referearn_backend/internal/feature/referral/domain/entity"
	"referearn_backend/internal/feature/referral/usecase"
	"referearn_backend/internal/platform/db"
)

// referralRepository implements usecase.ReferralRepository with gorm.
type referralRepository struct {
	db *gorm.DB
}

var _ usecase.ReferralRepository = (*referralRepository)(nil)

// NewReferralRepository creates a referralRepository on the given handle.
func NewReferralRepository(db *gorm.DB) *referralRepository {
	return &referralRepository{db: db}
}

// Create inserts r in a transaction that first checks the referrer exists.
// The foreign key covers drivers where the check and insert could interleave.
func (r *referralRepository) Create(ctx context.Context, ref *entity.Referral) error {
	m := ReferralModelFromEntity(ref)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&accountentity.User{}).Where("id = ?", m.UserID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return usecase.ErrUnknownUser
		}
		return tx.Omit(clause.Associations).Create(m).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUnknownUser), db.IsForeignKeyViolation(err):
		return usecase.ErrUnknownUser
	default:
		return db.Classify(err)
	}

	ref.ID = m.ID
	ref.CreatedAt = m.CreatedAt
	return nil
}
