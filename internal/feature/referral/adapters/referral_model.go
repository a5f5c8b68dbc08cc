package adapters

import (
	"time"

	"github.com/shopspring/decimal"

	accountentity "referearn_backend/internal/feature/account/domain/entity"
	"referearn_backend/internal/feature/referral/domain/entity"
)

// ReferralModel is the gorm mapping of the referrals table. Referrer only
// declares the foreign key to users; it is never loaded or saved.
type ReferralModel struct {
	ID        uint               `gorm:"primaryKey"`
	UserID    uint               `gorm:"not null;index:idx_referrals_user_created,priority:1"`
	Referrer  accountentity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	BuyerID   *uint              `gorm:"index"`
	CourseID  *uint
	Earnings  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null;index:idx_referrals_user_created,priority:2"`
}

func (ReferralModel) TableName() string {
	return "referrals"
}

// ToEntity converts the model to its domain form.
func (m *ReferralModel) ToEntity() *entity.Referral {
	return &entity.Referral{
		ID:        m.ID,
		UserID:    m.UserID,
		BuyerID:   m.BuyerID,
		CourseID:  m.CourseID,
		Earnings:  m.Earnings,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// ReferralModelFromEntity builds the row for r with its timestamp in UTC.
func ReferralModelFromEntity(r *entity.Referral) *ReferralModel {
	return &ReferralModel{
		ID:        r.ID,
		UserID:    r.UserID,
		BuyerID:   r.BuyerID,
		CourseID:  r.CourseID,
		Earnings:  r.Earnings,
		CreatedAt: r.CreatedAt.UTC(),
	}
}
