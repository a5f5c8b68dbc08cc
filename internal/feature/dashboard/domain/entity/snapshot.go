// Package entity defines the derived dashboard values.
package entity

import "github.com/shopspring/decimal"

// MonthlyCount is the number of referrals created in one calendar month.
// Month is formatted "YYYY-MM" in UTC.
type MonthlyCount struct {
	Month     string
	Referrals int64
}

// DashboardSnapshot summarizes a user's referrals. It is computed on demand
// and never stored.
type DashboardSnapshot struct {
	UserID         uint
	TotalReferrals int64
	TotalEarnings  decimal.Decimal
	// Monthly is sparse and ascending by Month.
	Monthly []MonthlyCount
}
