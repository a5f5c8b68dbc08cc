// Package entity defines the domain entities for the account feature.
package entity

import "time"

// User is a registered account. Rows are never updated after creation.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:50;not null"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	ReferralCode string `gorm:"uniqueIndex;size:16;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName pins the canonical users table.
func (User) TableName() string {
	return "users"
}

// PublicUser is the view of a user that may be shown to anyone.
type PublicUser struct {
	ID           uint
	Username     string
	ReferralCode string
}

// Public strips credentials and contact details.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		ReferralCode: u.ReferralCode,
	}
}
