// Package db owns the database connection lifecycle: configuration, DSN building,
// connection pooling and classification of driver errors.
package db

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values for Config.Driver.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval is the wait between connection attempts in ConnectWithRetry.
var retryInterval = 3 * time.Second

// Config holds database connection settings.
type Config struct {
	Driver       string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL instance; takes precedence over Host/Port for mysql
	SSLMode      string // postgres only
	SQLitePath   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	PingTimeout     time.Duration
	RunMigrations   bool
}

// Opener opens a gorm handle for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv reads database settings from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:          envOr("DB_DRIVER", DriverMySQL),
		User:            os.Getenv("DB_USER"),
		Password:        os.Getenv("DB_PASSWORD"),
		Name:            os.Getenv("DB_NAME"),
		Host:            os.Getenv("DB_HOST"),
		Port:            os.Getenv("DB_PORT"),
		InstanceName:    os.Getenv("INSTANCE_CONNECTION_NAME"),
		SSLMode:         envOr("DB_SSLMODE", "disable"),
		SQLitePath:      envOr("DB_SQLITE_PATH", "referearn.db"),
		MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		ConnectTimeout:  envDuration("DB_CONNECT_TIMEOUT", 60*time.Second),
		PingTimeout:     envDuration("DB_PING_TIMEOUT", 5*time.Second),
		RunMigrations:   os.Getenv("RUN_MIGRATIONS") == "true",
	}
}

// BuildDSN builds the driver-specific connection string.
func BuildDSN(cfg Config) string {
	switch cfg.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
	case DriverSQLite:
		return cfg.SQLitePath
	}
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// OpenerFor returns the gorm opener for the configured driver.
func OpenerFor(driver string) Opener {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	return func(dsn string) (*gorm.DB, error) {
		switch driver {
		case DriverPostgres:
			return gorm.Open(postgres.Open(dsn), gcfg)
		case DriverSQLite:
			return gorm.Open(sqlite.Open(dsn), gcfg)
		default:
			return gorm.Open(gmysql.Open(dsn), gcfg)
		}
	}
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("connect failed after %v: %w", timeout, err)
		}
		// DSN carries credentials; log the error only.
		zap.L().Warn("DB connect failed, retrying", zap.Error(err))
		time.Sleep(min(retryInterval, remaining))
	}
}

// Open connects to the configured database, applies pool limits and verifies
// the connection with a bounded ping. Failures wrap ErrConnection.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	gdb, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, OpenerFor(cfg.Driver))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrConnection, err)
	}

	zap.L().Info("database connected",
		zap.String("driver", cfg.Driver),
		zap.Int("max_open_conns", cfg.MaxOpenConns))
	return gdb, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
