package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"referearn_backend/internal/feature/account/domain/entity"
)

const refreshTokenBytes = 32

// AccessTokenGenerator issues signed access tokens.
// Defined here by the consumer; platform/jwt provides the implementation.
type AccessTokenGenerator interface {
	GenerateToken(userID uint) (string, error)
	TTL() time.Duration
}

// sessionUsecase opens, rotates and closes refresh-token sessions.
type sessionUsecase struct {
	sessions    SessionRepository
	tokens      AccessTokenGenerator
	refreshTTL  time.Duration
	maxSessions int64
	now         func() time.Time
}

// NewSessionUsecase creates a sessionUsecase. maxSessions <= 0 disables the per-user cap.
func NewSessionUsecase(sessions SessionRepository, tokens AccessTokenGenerator, refreshTTL time.Duration, maxSessions int64) *sessionUsecase {
	return &sessionUsecase{
		sessions:    sessions,
		tokens:      tokens,
		refreshTTL:  refreshTTL,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// EstablishSession opens a new session for userID, evicting the oldest
// sessions when the user is at the cap.
func (u *sessionUsecase) EstablishSession(ctx context.Context, userID uint, meta entity.ClientMeta) (*entity.TokenPair, error) {
	if u.maxSessions > 0 {
		count, err := u.sessions.CountByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count sessions: %w", err)
		}
		for ; count >= u.maxSessions; count-- {
			if err := u.sessions.DeleteOldestByUserID(ctx, userID); err != nil {
				return nil, fmt.Errorf("evict oldest session: %w", err)
			}
		}
	}
	return u.open(ctx, userID, meta)
}

// Refresh rotates the refresh token. Presenting a revoked token revokes every
// session of its owner.
func (u *sessionUsecase) Refresh(ctx context.Context, refreshToken string, meta entity.ClientMeta) (*entity.TokenPair, error) {
	if !validRefreshToken(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.IsRevoked() {
		return nil, u.revokeReused(ctx, session.UserID)
	}
	if session.IsExpired(u.now()) {
		return nil, ErrSessionExpired
	}

	// A concurrent refresh of the same token that won the revoke makes this
	// one a reuse.
	err = u.sessions.Revoke(ctx, session.ID)
	if errors.Is(err, ErrSessionRevoked) {
		return nil, u.revokeReused(ctx, session.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("revoke session: %w", err)
	}
	return u.open(ctx, session.UserID, meta)
}

func (u *sessionUsecase) revokeReused(ctx context.Context, userID uint) error {
	zap.L().Warn("revoked refresh token reused, revoking all sessions", zap.Uint("user_id", userID))
	if err := u.sessions.RevokeAllByUserID(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return ErrSessionRevoked
}

// Logout revokes the session. Unknown and already revoked tokens are ignored.
func (u *sessionUsecase) Logout(ctx context.Context, refreshToken string) error {
	if !validRefreshToken(refreshToken) {
		return ErrInvalidRefreshToken
	}
	err := u.sessions.Revoke(ctx, refreshToken)
	if err != nil && !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionRevoked) {
		return err
	}
	return nil
}

func (u *sessionUsecase) open(ctx context.Context, userID uint, meta entity.ClientMeta) (*entity.TokenPair, error) {
	id, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	now := u.now()
	session := &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.refreshTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	access, err := u.tokens.GenerateToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &entity.TokenPair{
		AccessToken:  access,
		RefreshToken: id,
		ExpiresIn:    int64(u.tokens.TTL() / time.Second),
	}, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func validRefreshToken(s string) bool {
	if len(s) != refreshTokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
