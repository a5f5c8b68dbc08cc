package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referearn_backend/internal/feature/dashboard/domain/entity"
	"referearn_backend/internal/feature/dashboard/transport/http/dto"
	"referearn_backend/internal/platform/db"
	jwtmw "referearn_backend/internal/platform/jwt"
)

type mockSummarizer struct {
	SummarizeFunc func(ctx context.Context, userID uint) (*entity.DashboardSnapshot, error)
}

func (m *mockSummarizer) Summarize(ctx context.Context, userID uint) (*entity.DashboardSnapshot, error) {
	return m.SummarizeFunc(ctx, userID)
}

func setupDashboardRouter(s Summarizer, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/dashboard", func(c *gin.Context) {
		if userID != 0 {
			c.Set(jwtmw.ContextUserID, userID)
		}
		c.Next()
	}, NewDashboardHandler(s).Get)
	return r
}

func TestDashboardHandler_Get(t *testing.T) {
	t.Run("returns the snapshot of the session user", func(t *testing.T) {
		var gotUser uint
		r := setupDashboardRouter(&mockSummarizer{SummarizeFunc: func(ctx context.Context, userID uint) (*entity.DashboardSnapshot, error) {
			gotUser = userID
			return &entity.DashboardSnapshot{
				UserID:         userID,
				TotalReferrals: 3,
				TotalEarnings:  decimal.RequireFromString("15.75"),
				Monthly:        []entity.MonthlyCount{{Month: "2025-01", Referrals: 2}, {Month: "2025-03", Referrals: 1}},
			}, nil
		}}, 8)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(8), gotUser)
		var res dto.DashboardRes
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, int64(3), res.TotalReferrals)
		assert.Equal(t, "15.75", res.TotalEarnings)
		assert.Equal(t, "$15.75", res.TotalEarningsDisplay)
		assert.Len(t, res.Monthly, 2)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		r := setupDashboardRouter(&mockSummarizer{}, 0)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("database unavailable", func(t *testing.T) {
		r := setupDashboardRouter(&mockSummarizer{SummarizeFunc: func(ctx context.Context, userID uint) (*entity.DashboardSnapshot, error) {
			return nil, fmt.Errorf("%w: user=root password=secret", db.ErrConnection)
		}}, 8)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "secret")
	})
}
