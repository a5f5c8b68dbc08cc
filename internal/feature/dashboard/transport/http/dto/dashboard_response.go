package dto

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"referearn_backend/internal/feature/dashboard/domain/entity"
)

var (
	printer   = message.NewPrinter(language.English)
	usdSymbol = printer.Sprint(currency.Symbol(currency.USD))
)

// MonthRes is one entry of the monthly series.
type MonthRes struct {
	Month     string `json:"month"`
	Referrals int64  `json:"referrals"`
}

// DashboardRes is returned by GET /dashboard. TotalEarnings is a fixed
// two-decimal string; TotalEarningsDisplay is grouped for display.
type DashboardRes struct {
	TotalReferrals       int64      `json:"total_referrals"`
	TotalEarnings        string     `json:"total_earnings"`
	TotalEarningsDisplay string     `json:"total_earnings_display"`
	Monthly              []MonthRes `json:"monthly"`
}

// NewDashboardRes converts a snapshot; Monthly is never null in JSON.
func NewDashboardRes(s *entity.DashboardSnapshot) DashboardRes {
	monthly := make([]MonthRes, 0, len(s.Monthly))
	for _, m := range s.Monthly {
		monthly = append(monthly, MonthRes{Month: m.Month, Referrals: m.Referrals})
	}
	return DashboardRes{
		TotalReferrals:       s.TotalReferrals,
		TotalEarnings:        s.TotalEarnings.StringFixed(2),
		TotalEarningsDisplay: formatUSD(s.TotalEarnings),
		Monthly:              monthly,
	}
}

// formatUSD renders an amount as "$1,234.50" with English digit grouping.
// Totals are far below 2^53 cents, so the float conversion is exact at scale 2.
func formatUSD(amount decimal.Decimal) string {
	return usdSymbol + printer.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}
