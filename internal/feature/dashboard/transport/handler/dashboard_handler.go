// Package handler provides the HTTP handler of the referral dashboard.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"referearn_backend/internal/feature/dashboard/domain/entity"
	"referearn_backend/internal/feature/dashboard/transport/http/dto"
	"referearn_backend/internal/platform/http/httperr"
	jwtmw "referearn_backend/internal/platform/jwt"
)

// Summarizer is the aggregation behaviour the handler needs.
type Summarizer interface {
	Summarize(ctx context.Context, userID uint) (*entity.DashboardSnapshot, error)
}

// DashboardHandler serves the authenticated user's dashboard.
type DashboardHandler struct {
	dashboard Summarizer
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboard Summarizer) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get handles GET /dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		httperr.JSON(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	snap, err := h.dashboard.Summarize(c.Request.Context(), userID)
	if err != nil {
		httperr.Infra(c, "dashboard.summarize", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDashboardRes(snap))
}
