package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	courseentity "referearn_backend/internal/feature/course/domain/entity"
	"referearn_backend/internal/feature/referral/domain/entity"
)

// maxAmount is the exclusive upper bound of decimal(12,2).
var maxAmount = decimal.New(1, 10)

// ReferralRepository appends referrals. Stored rows are never updated or
// deleted.
type ReferralRepository interface {
	// Create returns ErrUnknownUser when r.UserID does not reference a user.
	Create(ctx context.Context, r *entity.Referral) error
}

// ReferralCodeResolver maps a referral code to its owner.
type ReferralCodeResolver interface {
	LookupReferralCode(ctx context.Context, code string) (uint, bool, error)
}

// CourseCatalog loads purchasable courses.
type CourseCatalog interface {
	GetCourse(ctx context.Context, id uint) (*courseentity.Course, error)
}

type ledgerUsecase struct {
	repo    ReferralRepository
	codes   ReferralCodeResolver
	courses CourseCatalog
	now     func() time.Time
}

// NewLedgerUsecase creates the referral ledger.
func NewLedgerUsecase(repo ReferralRepository, codes ReferralCodeResolver, courses CourseCatalog) *ledgerUsecase {
	return &ledgerUsecase{
		repo:    repo,
		codes:   codes,
		courses: courses,
		now:     time.Now,
	}
}

// ValidateAmount checks that amount is storable as earnings. Zero is allowed.
func ValidateAmount(amount decimal.Decimal) error {
	switch {
	case amount.IsNegative():
		return fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	case !amount.Equal(amount.Round(2)):
		return fmt.Errorf("%w: at most two decimal places", ErrInvalidAmount)
	case amount.GreaterThanOrEqual(maxAmount):
		return fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	return nil
}

// RecordReferral appends a referral crediting amount to referrerID.
func (u *ledgerUsecase) RecordReferral(ctx context.Context, referrerID uint, amount decimal.Decimal) (*entity.Referral, error) {
	return u.record(ctx, &entity.Referral{UserID: referrerID, Earnings: amount})
}

func (u *ledgerUsecase) record(ctx context.Context, r *entity.Referral) (*entity.Referral, error) {
	if r.UserID == 0 {
		return nil, ErrUnknownUser
	}
	if err := ValidateAmount(r.Earnings); err != nil {
		return nil, err
	}
	r.CreatedAt = u.now().UTC()
	if err := u.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// AttributePurchase credits the owner of referralCode with the referral bonus
// of the purchased course.
func (u *ledgerUsecase) AttributePurchase(ctx context.Context, buyerID, courseID uint, referralCode string) (*entity.Referral, error) {
	referrerID, ok, err := u.codes.LookupReferralCode(ctx, referralCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownReferralCode
	}
	if referrerID == buyerID {
		return nil, ErrSelfReferral
	}

	course, err := u.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}

	ref, err := u.record(ctx, &entity.Referral{
		UserID:   referrerID,
		BuyerID:  &buyerID,
		CourseID: &course.ID,
		Earnings: course.ReferralBonus,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("purchase attributed",
		zap.Uint("referral_id", ref.ID),
		zap.Uint("referrer_id", referrerID),
		zap.Uint("course_id", course.ID))
	return ref, nil
}
