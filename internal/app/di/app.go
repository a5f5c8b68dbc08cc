package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	accountadapters "referearn_backend/internal/feature/account/adapters"
	accounthandler "referearn_backend/internal/feature/account/transport/handler"
	accountusecase "referearn_backend/internal/feature/account/usecase"
	coursehandler "referearn_backend/internal/feature/course/transport/handler"
	courseusecase "referearn_backend/internal/feature/course/usecase"
	dashboardadapters "referearn_backend/internal/feature/dashboard/adapters"
	dashboardhandler "referearn_backend/internal/feature/dashboard/transport/handler"
	dashboardusecase "referearn_backend/internal/feature/dashboard/usecase"
	referraladapters "referearn_backend/internal/feature/referral/adapters"
	referralhandler "referearn_backend/internal/feature/referral/transport/handler"
	referralusecase "referearn_backend/internal/feature/referral/usecase"
	"referearn_backend/internal/platform/config"
	platformhandler "referearn_backend/internal/platform/http/handler"
	jwtmw "referearn_backend/internal/platform/jwt"
	"referearn_backend/internal/shared/ratelimiter"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health    *platformhandler.HealthHandler
	Account   *accounthandler.AccountHandler
	Course    *coursehandler.CourseHandler
	Purchase  *referralhandler.PurchaseHandler
	Dashboard *dashboardhandler.DashboardHandler

	// AuthLimiter throttles credential endpoints. It is inert without Redis.
	AuthLimiter *ratelimiter.RateLimiter
}

// NewHandlers wires repositories, usecases and handlers. rdb may be nil.
func NewHandlers(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client) (*Handlers, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	// Repository
	userRepo := accountadapters.NewUserRepository(gdb)
	sessionRepo := NewSessionRepository(rdb, gdb)
	courseRepo := NewCourseRepository(rdb, gdb, cfg.Catalog.CacheTTL)
	referralRepo := referraladapters.NewReferralRepository(gdb)
	snapshotRepo := dashboardadapters.NewSnapshotRepository(gdb)

	// Usecase
	tokens := jwtmw.NewGenerator(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	sessionUC := accountusecase.NewSessionUsecase(sessionRepo, tokens, cfg.Auth.RefreshTokenTTL, cfg.Auth.MaxSessionsPerUser)
	accountUC := accountusecase.NewAccountUsecase(userRepo, sessionUC, nil)
	courseUC := courseusecase.NewCourseUsecase(courseRepo)
	ledgerUC := referralusecase.NewLedgerUsecase(referralRepo, accountUC, courseUC)
	dashboardUC := dashboardusecase.NewDashboardUsecase(snapshotRepo)

	// Handler
	return &Handlers{
		Health:      platformhandler.NewHealthHandler(sqlDB),
		Account:     accounthandler.NewAccountHandler(accountUC, sessionUC),
		Course:      coursehandler.NewCourseHandler(courseUC),
		Purchase:    referralhandler.NewPurchaseHandler(ledgerUC),
		Dashboard:   dashboardhandler.NewDashboardHandler(dashboardUC),
		AuthLimiter: ratelimiter.NewRateLimiter(rdb, cfg.Auth.RateLimit, cfg.Auth.RateLimitWindow, "ratelimit:auth"),
	}, nil
}
