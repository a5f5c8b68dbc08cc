package dto

import "referearn_backend/internal/feature/account/domain/entity"

// UserRes is the public view of a user.
type UserRes struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	ReferralCode string `json:"referral_code"`
}

// TokenRes carries an issued token pair.
type TokenRes struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthRes is returned by register and login. Tokens is omitted when the
// account was created but no session could be opened.
type AuthRes struct {
	User   UserRes   `json:"user"`
	Tokens *TokenRes `json:"tokens,omitempty"`
}

// NewUserRes exposes only the public fields of u.
func NewUserRes(u *entity.User) UserRes {
	p := u.Public()
	return UserRes{ID: p.ID, Username: p.Username, ReferralCode: p.ReferralCode}
}

// NewTokenRes converts a token pair; nil stays nil.
func NewTokenRes(t *entity.TokenPair) *TokenRes {
	if t == nil {
		return nil
	}
	return &TokenRes{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    t.ExpiresIn,
	}
}
