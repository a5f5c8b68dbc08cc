// Package adapters reads dashboard aggregates with gorm.
package adapters

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"referearn_backend/internal/feature/dashboard/domain/entity"
	"referearn_backend/internal/feature/dashboard/usecase"
	"referearn_backend/internal/platform/db"
)

const referralsTable = "referrals"

type totalsRow struct {
	Referrals int64
	Earnings  decimal.Decimal
}

type monthRow struct {
	Month     string
	Referrals int64
}

// snapshotRepository implements usecase.SnapshotReader over the referrals table.
type snapshotRepository struct {
	db *gorm.DB
}

var _ usecase.SnapshotReader = (*snapshotRepository)(nil)

// NewSnapshotRepository creates a snapshotRepository on the given handle.
func NewSnapshotRepository(db *gorm.DB) *snapshotRepository {
	return &snapshotRepository{db: db}
}

// monthExpr formats created_at as YYYY-MM for the given dialect. Timestamps
// are stored in UTC so the month is the UTC calendar month.
func monthExpr(dialect string) string {
	switch dialect {
	case db.DriverPostgres:
		return "to_char(created_at, 'YYYY-MM')"
	case db.DriverSQLite:
		return "strftime('%Y-%m', created_at)"
	default:
		return "DATE_FORMAT(created_at, '%Y-%m')"
	}
}

// Snapshot runs the totals and the monthly breakdown in one read-only
// repeatable-read transaction.
func (r *snapshotRepository) Snapshot(ctx context.Context, userID uint) (*entity.DashboardSnapshot, error) {
	var (
		totals totalsRow
		months []monthRow
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Table(referralsTable).
			Select("COUNT(*) AS referrals, COALESCE(SUM(earnings), 0) AS earnings").
			Where("user_id = ?", userID).
			Scan(&totals).Error
		if err != nil {
			return err
		}
		return tx.Table(referralsTable).
			Select(monthExpr(tx.Dialector.Name())+" AS month, COUNT(*) AS referrals").
			Where("user_id = ?", userID).
			Group("month").
			Order("month").
			Scan(&months).Error
	}, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, db.Classify(err)
	}

	snap := &entity.DashboardSnapshot{
		UserID:         userID,
		TotalReferrals: totals.Referrals,
		TotalEarnings:  totals.Earnings,
		Monthly:        make([]entity.MonthlyCount, 0, len(months)),
	}
	for _, m := range months {
		snap.Monthly = append(snap.Monthly, entity.MonthlyCount{Month: m.Month, Referrals: m.Referrals})
	}
	return snap, nil
}
