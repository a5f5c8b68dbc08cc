// Package entity defines the domain models for the course catalog.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is a purchasable course. ReferralBonus is credited to the referrer
// of every attributed purchase.
type Course struct {
	ID            uint            `gorm:"primaryKey"`
	Slug          string          `gorm:"size:128;not null;uniqueIndex"`
	Title         string          `gorm:"size:255;not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReferralBonus decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive      bool            `gorm:"not null;index"`
	SortKey       int             `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Course) TableName() string {
	return "courses"
}
