package di

import (
	"context"

	"gorm.io/gorm"

	accountadapters "referearn_backend/internal/feature/account/adapters"
	accountentity "referearn_backend/internal/feature/account/domain/entity"
	courseentity "referearn_backend/internal/feature/course/domain/entity"
	referraladapters "referearn_backend/internal/feature/referral/adapters"
	"referearn_backend/internal/platform/db"
)

// Migrate creates or updates every table. Users come first so the
// referrals foreign key can be created.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	err := gdb.WithContext(ctx).AutoMigrate(
		&accountentity.User{},
		&accountadapters.SessionModel{},
		&courseentity.Course{},
		&referraladapters.ReferralModel{},
	)
	return db.Classify(err)
}
