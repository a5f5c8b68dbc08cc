// Package handler provides the HTTP handlers of the account feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"referearn_backend/internal/feature/account/domain/entity"
	"referearn_backend/internal/feature/account/transport/http/dto"
	"referearn_backend/internal/feature/account/usecase"
	"referearn_backend/internal/platform/http/httperr"
	jwtmw "referearn_backend/internal/platform/jwt"
)

// AccountUsecase is the account behaviour the handler needs.
type AccountUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput, meta entity.ClientMeta) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string, meta entity.ClientMeta) (*usecase.AuthResult, error)
	GetUser(ctx context.Context, id uint) (*entity.User, error)
}

// SessionUsecase is the session behaviour the handler needs.
type SessionUsecase interface {
	Refresh(ctx context.Context, refreshToken string, meta entity.ClientMeta) (*entity.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// AccountHandler serves registration, login, token and profile endpoints.
type AccountHandler struct {
	accounts AccountUsecase
	sessions SessionUsecase
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts AccountUsecase, sessions SessionUsecase) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions}
}

func clientMeta(c *gin.Context) entity.ClientMeta {
	return entity.ClientMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}

// Register handles POST /register.
//   - 400 when the body does not bind, 422 when the usecase rejects a field
//   - 409 on a taken username or email
//   - 201 with the user, and tokens when a session was opened
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}, clientMeta(c))

	var verr *usecase.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		httperr.JSON(c, http.StatusUnprocessableEntity, verr.Error())
		return
	case errors.Is(err, usecase.ErrUsernameTaken), errors.Is(err, usecase.ErrEmailAlreadyExists):
		httperr.JSON(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, usecase.ErrCodeGenerationExhausted):
		zap.L().Warn("referral code space contended", zap.Error(err))
		httperr.JSON(c, http.StatusConflict, "referral code conflict, please retry")
		return
	case errors.Is(err, usecase.ErrSessionNotEstablished) && res != nil:
		zap.L().Warn("user registered without session", zap.Uint("user_id", res.User.ID), zap.Error(err))
	default:
		httperr.Infra(c, "account.register", err)
		return
	}

	zap.L().Info("user registered", zap.Uint("user_id", res.User.ID))
	c.JSON(http.StatusCreated, dto.AuthRes{
		User:   dto.NewUserRes(res.User),
		Tokens: dto.NewTokenRes(res.Tokens),
	})
}

// Login handles POST /login. Every credential failure gets the same 401.
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, http.StatusBadRequest, "invalid request")
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		zap.L().Warn("login failed", zap.String("remote_addr", c.ClientIP()))
		httperr.JSON(c, http.StatusUnauthorized, usecase.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		httperr.Infra(c, "account.login", err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthRes{
		User:   dto.NewUserRes(res.User),
		Tokens: dto.NewTokenRes(res.Tokens),
	})
}

func isRefreshRejection(err error) bool {
	return errors.Is(err, usecase.ErrInvalidRefreshToken) ||
		errors.Is(err, usecase.ErrSessionNotFound) ||
		errors.Is(err, usecase.ErrSessionRevoked) ||
		errors.Is(err, usecase.ErrSessionExpired)
}

// Refresh handles POST /refresh.
func (h *AccountHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, http.StatusBadRequest, "invalid request")
		return
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken, clientMeta(c))
	if isRefreshRejection(err) {
		httperr.JSON(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		httperr.Infra(c, "account.refresh", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTokenRes(pair))
}

// Logout handles POST /logout.
func (h *AccountHandler) Logout(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, http.StatusBadRequest, "invalid request")
		return
	}

	err := h.sessions.Logout(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, usecase.ErrInvalidRefreshToken) {
		httperr.JSON(c, http.StatusBadRequest, "invalid refresh token")
		return
	}
	if err != nil {
		httperr.Infra(c, "account.logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me handles GET /me for the authenticated user.
func (h *AccountHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		httperr.JSON(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.accounts.GetUser(c.Request.Context(), userID)
	if errors.Is(err, usecase.ErrUserNotFound) {
		httperr.JSON(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		httperr.Infra(c, "account.me", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}
