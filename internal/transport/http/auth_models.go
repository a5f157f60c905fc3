package http

import (
	"github.com/rksharma7071/TrueStyle-API/internal/domain"
)

// AuthUser is the sanitized user representation returned by auth and user
// endpoints.
type AuthUser struct {
	ID        string  `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Username  string  `json:"username" example:"truestyleuser"`
	Email     string  `json:"email" example:"user@example.com"`
	FirstName *string `json:"first_name,omitempty" example:"True"`
	LastName  *string `json:"last_name,omitempty" example:"Style"`
	Role      string  `json:"role" example:"user"`
}

func buildAuthUser(user *domain.User) AuthUser {
	return AuthUser{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}

// SignUpRequest carries registration fields.
type SignUpRequest struct {
	Username  string  `json:"username" example:"truestyleuser"`
	Email     string  `json:"email" example:"user@example.com"`
	Password  string  `json:"password" example:"StrongPass!23"`
	FirstName *string `json:"first_name,omitempty" example:"True"`
	LastName  *string `json:"last_name,omitempty" example:"Style"`
}

// LoginRequest carries email login fields.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

// GoogleLoginRequest carries the Google ID token for login.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ChangePasswordRequest captures the payload for password updates.
type ChangePasswordRequest struct {
	Email       string `json:"email" example:"user@example.com"`
	OldPassword string `json:"oldPassword" example:"OldPass!23"`
	NewPassword string `json:"newPassword" example:"NewPass!45"`
}

// RequestOTPRequest captures the payload for requesting a reset code.
type RequestOTPRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// VerifyOTPRequest captures the payload for verifying a reset code.
type VerifyOTPRequest struct {
	Email string `json:"email" example:"user@example.com"`
	OTP   string `json:"otp" example:"123456"`
}

// ResetPasswordRequest captures the payload for the final reset step. The
// reset token comes from a successful verify-otp response.
type ResetPasswordRequest struct {
	Email      string `json:"email" example:"user@example.com"`
	ResetToken string `json:"reset_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Password   string `json:"password" example:"NewPass!45"`
}

// UpdateUserRequest captures optional user fields for admin updates.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
}
