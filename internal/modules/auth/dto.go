package auth

import "time"

// Wire format is camelCase throughout; the dashboard relies on it.

type RegisterRequest struct {
	Username   string `json:"username" binding:"required" validate:"required,min=2"`
	Email      string `json:"email" binding:"required,email" validate:"required,email"`
	Password   string `json:"password" binding:"required,min=6" validate:"required,min=6"`
	DeviceIP   string `json:"deviceIp,omitempty"`
	Department string `json:"department,omitempty"`
	Section    string `json:"section,omitempty"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=employee manager admin"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyOTPRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	OTP    string `json:"otp" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	AccessToken  string     `json:"accessToken,omitempty"`
	RefreshToken string     `json:"refreshToken,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Requires2FA  bool       `json:"requires2FA,omitempty"`
	UserID       int64      `json:"userId,omitempty"`
}

type MeResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type TwoFactorStatusResponse struct {
	TwoFactorEnabled bool `json:"twoFactorEnabled"`
}

// SessionResponse is one refresh-token row in the caller's session list. The
// token string itself is never echoed back.
type SessionResponse struct {
	ID            int64      `json:"id"`
	CreatedAt     time.Time  `json:"createdAt"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	Active        bool       `json:"active"`
	RevokedAt     *time.Time `json:"revokedAt,omitempty"`
	RevokedReason *string    `json:"revokedReason,omitempty"`
}
