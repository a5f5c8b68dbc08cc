// Package handler provides the HTTP handlers of the referral ledger.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	courseusecase "referearn_backend/internal/feature/course/usecase"
	"referearn_backend/internal/feature/referral/domain/entity"
	"referearn_backend/internal/feature/referral/transport/http/dto"
	"referearn_backend/internal/feature/referral/usecase"
	"referearn_backend/internal/platform/http/httperr"
	jwtmw "referearn_backend/internal/platform/jwt"
)

// PurchaseAttributor is the ledger behaviour the handler needs.
type PurchaseAttributor interface {
	AttributePurchase(ctx context.Context, buyerID, courseID uint, referralCode string) (*entity.Referral, error)
}

// PurchaseHandler records referred course purchases.
type PurchaseHandler struct {
	ledger PurchaseAttributor
}

// NewPurchaseHandler creates a PurchaseHandler.
func NewPurchaseHandler(ledger PurchaseAttributor) *PurchaseHandler {
	return &PurchaseHandler{ledger: ledger}
}

// Purchase handles POST /courses/:id/purchase for the authenticated buyer.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	buyerID, ok := jwtmw.UserID(c)
	if !ok {
		httperr.JSON(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		httperr.JSON(c, http.StatusBadRequest, "invalid course id")
		return
	}
	var req dto.PurchaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, http.StatusBadRequest, "invalid request")
		return
	}

	ref, err := h.ledger.AttributePurchase(c.Request.Context(), buyerID, uint(courseID), req.ReferralCode)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, dto.NewReferralRes(ref))
	case errors.Is(err, courseusecase.ErrCourseNotFound):
		httperr.JSON(c, http.StatusNotFound, "course not found")
	case errors.Is(err, usecase.ErrUnknownReferralCode), errors.Is(err, usecase.ErrUnknownUser):
		httperr.JSON(c, http.StatusNotFound, usecase.ErrUnknownReferralCode.Error())
	case errors.Is(err, usecase.ErrSelfReferral), errors.Is(err, usecase.ErrInvalidAmount):
		httperr.JSON(c, http.StatusUnprocessableEntity, err.Error())
	default:
		httperr.Infra(c, "referral.purchase", err)
	}
}
