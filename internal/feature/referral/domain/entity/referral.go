// Package entity defines the domain models for the referral ledger.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral attributes an earning to the referring user. Rows are append-only.
// BuyerID and CourseID are set when the referral came from a course purchase.
type Referral struct {
	ID        uint
	UserID    uint
	BuyerID   *uint
	CourseID  *uint
	Earnings  decimal.Decimal
	CreatedAt time.Time
}
