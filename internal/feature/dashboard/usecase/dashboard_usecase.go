package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"referearn_backend/internal/feature/dashboard/domain/entity"
)

// ErrMissingUser is returned when Summarize is called without a user.
var ErrMissingUser = errors.New("user id is required")

// SnapshotReader reads referral aggregates for one user. Implementations
// must read totals and the monthly series from the same consistent view.
type SnapshotReader interface {
	Snapshot(ctx context.Context, userID uint) (*entity.DashboardSnapshot, error)
}

type dashboardUsecase struct {
	reader SnapshotReader
}

// NewDashboardUsecase creates the aggregation service.
func NewDashboardUsecase(reader SnapshotReader) *dashboardUsecase {
	return &dashboardUsecase{reader: reader}
}

// Summarize returns the dashboard of userID. A user without referrals gets
// zero totals and an empty series.
func (u *dashboardUsecase) Summarize(ctx context.Context, userID uint) (*entity.DashboardSnapshot, error) {
	if userID == 0 {
		return nil, ErrMissingUser
	}
	snap, err := u.reader.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap.UserID = userID
	snap.TotalEarnings = snap.TotalEarnings.Round(2)
	if snap.TotalReferrals == 0 {
		snap.TotalEarnings = decimal.Zero
	}
	if snap.Monthly == nil {
		snap.Monthly = []entity.MonthlyCount{}
	}
	return snap, nil
}
