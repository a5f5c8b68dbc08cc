// Package dto defines the JSON bodies of the account endpoints.
package dto

// RegisterReq is the body of POST /register.
type RegisterReq struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginReq is the body of POST /login.
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshReq is the body of POST /refresh and POST /logout.
type RefreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
