package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"referearn_backend/internal/app/di"
	courseentity "referearn_backend/internal/feature/course/domain/entity"
	"referearn_backend/internal/platform/config"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupApp builds the full application on in-memory SQLite. With useRedis the
// sessions and course cache live in miniredis.
func setupApp(t *testing.T, useRedis bool, rateLimit int) *gin.Engine {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, di.Migrate(t.Context(), gdb))

	require.NoError(t, gdb.Create(&courseentity.Course{
		Slug:          "go-basics",
		Title:         "Go Basics",
		Price:         decimal.RequireFromString("49.00"),
		ReferralBonus: decimal.RequireFromString("5.25"),
		IsActive:      true,
		SortKey:       1,
	}).Error)

	var rdb *redis.Client
	if useRedis {
		mr := miniredis.RunT(t)
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          testSecret,
			AccessTokenTTL:     15 * time.Minute,
			RefreshTokenTTL:    24 * time.Hour,
			MaxSessionsPerUser: 5,
			RateLimit:          rateLimit,
			RateLimitWindow:    time.Minute,
		},
		Catalog: config.CatalogConfig{CacheTTL: time.Minute},
	}
	h, err := di.NewHandlers(cfg, gdb, rdb)
	require.NoError(t, err)

	return NewRouter(Options{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"*"},
		RequestTimeout: 5 * time.Second,
	}, h)
}

type authBody struct {
	User struct {
		ID           uint   `json:"id"`
		ReferralCode string `json:"referral_code"`
	} `json:"user"`
	Tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"tokens"`
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, name string) authBody {
	t.Helper()
	w := do(t, r, http.MethodPost, "/register", "", map[string]string{
		"username": name,
		"email":    name + "@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res authBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestRouter_ReferralFlow(t *testing.T) {
	for _, useRedis := range []bool{false, true} {
		t.Run(fmt.Sprintf("redis=%v", useRedis), func(t *testing.T) {
			r := setupApp(t, useRedis, 0)

			alice := register(t, r, "alice")
			bob := register(t, r, "bob")
			assert.Regexp(t, `^[0-9a-f]{8,}$`, alice.User.ReferralCode)
			assert.NotEqual(t, alice.User.ReferralCode, bob.User.ReferralCode)

			// empty dashboard
			w := do(t, r, http.MethodGet, "/dashboard", alice.Tokens.AccessToken, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"total_referrals":0,"total_earnings":"0.00","total_earnings_display":"$0.00","monthly":[]}`, w.Body.String())

			w = do(t, r, http.MethodGet, "/courses", "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var courses struct {
				Courses []struct {
					ID uint `json:"id"`
				} `json:"courses"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
			require.Len(t, courses.Courses, 1)
			path := fmt.Sprintf("/courses/%d/purchase", courses.Courses[0].ID)

			w = do(t, r, http.MethodPost, path, bob.Tokens.AccessToken, map[string]string{"referral_code": alice.User.ReferralCode})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			w = do(t, r, http.MethodPost, path, bob.Tokens.AccessToken, map[string]string{"referral_code": alice.User.ReferralCode})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			w = do(t, r, http.MethodPost, path, alice.Tokens.AccessToken, map[string]string{"referral_code": alice.User.ReferralCode})
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "self referral")

			w = do(t, r, http.MethodGet, "/dashboard", alice.Tokens.AccessToken, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var dash struct {
				TotalReferrals int64  `json:"total_referrals"`
				TotalEarnings  string `json:"total_earnings"`
				Monthly        []struct {
					Month     string `json:"month"`
					Referrals int64  `json:"referrals"`
				} `json:"monthly"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
			assert.Equal(t, int64(2), dash.TotalReferrals)
			assert.Equal(t, "10.50", dash.TotalEarnings)
			require.Len(t, dash.Monthly, 1)
			assert.Equal(t, int64(2), dash.Monthly[0].Referrals)

			w = do(t, r, http.MethodGet, "/me", bob.Tokens.AccessToken, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.NotContains(t, w.Body.String(), "password")
			assert.NotContains(t, w.Body.String(), "email")
		})
	}
}

func TestRouter_RefreshAndLogout(t *testing.T) {
	r := setupApp(t, true, 0)
	alice := register(t, r, "alice")

	w := do(t, r, http.MethodPost, "/refresh", "", map[string]string{"refresh_token": alice.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rotated struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rotated))
	assert.NotEqual(t, alice.Tokens.RefreshToken, rotated.RefreshToken)

	// reuse of the rotated-out token is rejected and revokes the rest
	w = do(t, r, http.MethodPost, "/refresh", "", map[string]string{"refresh_token": alice.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, r, http.MethodPost, "/refresh", "", map[string]string{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/logout", "", map[string]string{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_ConcurrentRefreshRotatesOnce(t *testing.T) {
	for _, useRedis := range []bool{false, true} {
		t.Run(fmt.Sprintf("redis=%v", useRedis), func(t *testing.T) {
			r := setupApp(t, useRedis, 0)
			alice := register(t, r, "alice")
			body, err := json.Marshal(map[string]string{"refresh_token": alice.Tokens.RefreshToken})
			require.NoError(t, err)

			const callers = 6
			codes := make(chan int, callers)
			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(body))
					req.Header.Set("Content-Type", "application/json")
					w := httptest.NewRecorder()
					r.ServeHTTP(w, req)
					codes <- w.Code
				}()
			}
			wg.Wait()
			close(codes)

			ok := 0
			for code := range codes {
				if code == http.StatusOK {
					ok++
					continue
				}
				assert.Equal(t, http.StatusUnauthorized, code)
			}
			assert.Equal(t, 1, ok)
		})
	}
}

func TestRouter_PublicAndProtected(t *testing.T) {
	r := setupApp(t, false, 0)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "health head", method: http.MethodHead, path: "/healthz", wantStatus: http.StatusOK},
		{name: "courses", method: http.MethodGet, path: "/courses", wantStatus: http.StatusOK},
		{name: "me without token", method: http.MethodGet, path: "/me", wantStatus: http.StatusUnauthorized},
		{name: "dashboard without token", method: http.MethodGet, path: "/dashboard", wantStatus: http.StatusUnauthorized},
		{name: "purchase without token", method: http.MethodPost, path: "/courses/1/purchase", wantStatus: http.StatusUnauthorized},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, "", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	r := setupApp(t, false, 0)
	register(t, r, "alice")

	w := do(t, r, http.MethodPost, "/register", "", map[string]string{
		"username": "alice2",
		"email":    "ALICE@example.com",
		"password": "correct-horse",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	r := setupApp(t, true, 2)
	register(t, r, "alice") // first counted call

	creds := map[string]string{"email": "alice@example.com", "password": "wrong-password"}
	w := do(t, r, http.MethodPost, "/login", "", creds)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
