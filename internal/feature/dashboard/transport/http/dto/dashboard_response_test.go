package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referearn_backend/internal/feature/dashboard/domain/entity"
)

func TestNewDashboardRes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		earnings    string
		wantFixed   string
		wantDisplay string
	}{
		{name: "zero", earnings: "0", wantFixed: "0.00", wantDisplay: "$0.00"},
		{name: "cents", earnings: "15.75", wantFixed: "15.75", wantDisplay: "$15.75"},
		{name: "grouped", earnings: "1234567.5", wantFixed: "1234567.50", wantDisplay: "$1,234,567.50"},
		{name: "ledger maximum", earnings: "9999999999.99", wantFixed: "9999999999.99", wantDisplay: "$9,999,999,999.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := NewDashboardRes(&entity.DashboardSnapshot{
				TotalReferrals: 2,
				TotalEarnings:  decimal.RequireFromString(tt.earnings),
			})

			assert.Equal(t, tt.wantFixed, res.TotalEarnings)
			assert.Equal(t, tt.wantDisplay, res.TotalEarningsDisplay)
		})
	}
}

func TestNewDashboardRes_EmptySeriesIsArray(t *testing.T) {
	t.Parallel()

	res := NewDashboardRes(&entity.DashboardSnapshot{TotalEarnings: decimal.Zero})

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"monthly":[]`)
}
