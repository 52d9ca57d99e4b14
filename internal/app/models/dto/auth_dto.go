package dto

import "github.com/dawan/studentprojects/internal/app/models"

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Username string `json:"username" binding:"required,username" example:"jdoe"`
	Email    string `json:"email" binding:"required,email,max=254" example:"jdoe@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"s3cret-pass"`
}

// LoginRequest represents login credentials, sent as JSON or as a form
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int    `json:"expires_in,omitempty" example:"3600"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username" example:"jdoe"`
	Email    string `json:"email" example:"jdoe@example.com"`
	IsActive bool   `json:"is_active" example:"true"`
}

// NewUserResponse maps a user model to its public response
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}
