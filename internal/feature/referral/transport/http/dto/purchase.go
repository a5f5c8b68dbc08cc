package dto

import (
	"time"

	"referearn_backend/internal/feature/referral/domain/entity"
)

// PurchaseReq is the body of POST /courses/:id/purchase.
type PurchaseReq struct {
	ReferralCode string `json:"referral_code" binding:"required,max=16"`
}

// ReferralRes describes a recorded referral.
type ReferralRes struct {
	ID         uint      `json:"id"`
	ReferrerID uint      `json:"referrer_id"`
	CourseID   *uint     `json:"course_id,omitempty"`
	Earnings   string    `json:"earnings"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewReferralRes converts r. The buyer is not echoed back.
func NewReferralRes(r *entity.Referral) ReferralRes {
	return ReferralRes{
		ID:         r.ID,
		ReferrerID: r.UserID,
		CourseID:   r.CourseID,
		Earnings:   r.Earnings.StringFixed(2),
		CreatedAt:  r.CreatedAt,
	}
}
