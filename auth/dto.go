// Package auth provides authentication and authorization functionality
// This file, `dto.go` (Data Transfer Object), defines structures used for
// transferring data in API requests and responses related to authentication.
package auth

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=320" example:"a@x.com"`
	Password string `json:"password" validate:"required,max=1024" example:"pw1"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=320" example:"a@x.com"`
	Password string `json:"password" validate:"required,max=1024" example:"pw1"`
}

// TokenResponse represents the authentication token response
// returned to the client upon successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"86400"` // Lifetime of the access token in seconds.
}
