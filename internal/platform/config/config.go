// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"referearn_backend/internal/platform/db"
)

// Config is the full application configuration.
type Config struct {
	Env      string
	Server   ServerConfig
	Database db.Config
	Redis    RedisConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// RedisConfig holds Redis connection settings. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// AuthConfig holds token and session settings.
type AuthConfig struct {
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	MaxSessionsPerUser int64
	// RateLimit caps /login and /register calls per client IP and
	// RateLimitWindow. Zero disables it; it also needs Redis.
	RateLimit          int
	RateLimitWindow    time.Duration
}

// CatalogConfig holds course catalog settings.
type CatalogConfig struct {
	CacheTTL    time.Duration
	CoursesFile string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	requestTimeout, err := getEnvDuration("REQUEST_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	accessTTL, err := getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	rateWindow, err := getEnvDuration("AUTH_RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("COURSE_CACHE_TTL", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: getEnvString("APP_ENV", "development"),
		Server: ServerConfig{
			Addr:           getEnvString("HTTP_ADDR", ":8080"),
			RequestTimeout: requestTimeout,
			AllowedOrigins: splitList(getEnvString("CORS_ALLOWED_ORIGINS", "*")),
		},
		Database: db.LoadConfigFromEnv(),
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvString("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("JWT_SECRET"),
			AccessTokenTTL:     accessTTL,
			RefreshTokenTTL:    refreshTTL,
			MaxSessionsPerUser: int64(getEnvInt("MAX_SESSIONS_PER_USER", 5)),
			RateLimit:          getEnvInt("AUTH_RATE_LIMIT", 10),
			RateLimitWindow:    rateWindow,
		},
		Catalog: CatalogConfig{
			CacheTTL:    cacheTTL,
			CoursesFile: getEnvString("COURSES_FILE", "courses.yaml"),
		},
	}

	if cfg.Env == "production" && cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
