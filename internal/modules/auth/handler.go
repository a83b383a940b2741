package auth

import (
	"errors"
	"net/http"
	"time"

	"fptrack/internal/device"
	"fptrack/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	// Cookie lifetime is generous on purpose: the tokens inside carry their
	// own expiry, the cookie is just transport.
	cookieMaxAge = 30 * 24 * 60 * 60
)

// CookieSettings is the slice of config the handler needs to write cookies.
type CookieSettings struct {
	Secure   bool
	SameSite string
	Path     string
}

// Handler manages all HTTP interactions for authentication.
type Handler struct {
	service *Service
	cookies CookieSettings
}

func NewHandler(service *Service, cookies CookieSettings) *Handler {
	return &Handler{service: service, cookies: cookies}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify-otp", h.VerifyOTP)
		authGroup.POST("/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.POST("/revoke", h.Revoke)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", h.Me)
		authGroup.GET("/sessions", h.Sessions)
		authGroup.POST("/enable-2fa", h.Enable2FA)
		authGroup.POST("/disable-2fa", h.Disable2FA)
		authGroup.GET("/2fa-status", h.Get2FAStatus)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration data", vErr.Fields)
		case errors.Is(err, ErrUsernameTaken):
			response.Error(c, http.StatusConflict, "USERNAME_TAKEN", "Username already taken")
		case errors.Is(err, ErrEmailTaken):
			response.Error(c, http.StatusConflict, "EMAIL_TAKEN", "This email is already registered")
		case errors.Is(err, device.ErrProvisioningFailed):
			response.Error(c, http.StatusInternalServerError, "DEVICE_ERROR", "Failed to add user to fingerprint device")
		default:
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "An error occurred during registration")
		}
		return
	}

	h.setTokenCookies(c, result.AccessToken, result.RefreshToken)
	response.Success(c, http.StatusOK, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    &result.ExpiresAt,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		case errors.Is(err, ErrEmailRequired):
			response.Error(c, http.StatusBadRequest, "EMAIL_REQUIRED", "2FA is enabled but no email is on file")
		case errors.Is(err, ErrMailDispatch):
			response.Error(c, http.StatusInternalServerError, "MAIL_ERROR", "Failed to send the verification code")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "An error occurred during login")
		}
		return
	}

	if result.Requires2FA {
		// No cookies, no tokens: the session starts only after the OTP step.
		response.Success(c, http.StatusOK, AuthResponse{
			Requires2FA: true,
			UserID:      result.UserID,
		})
		return
	}

	h.setTokenCookies(c, result.AccessToken, result.RefreshToken)
	response.Success(c, http.StatusOK, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    &result.ExpiresAt,
	})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.VerifyOTP(c.Request.Context(), req.UserID, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, ErrOTPExpired):
			response.Error(c, http.StatusUnauthorized, "OTP_EXPIRED", "OTP expired")
		case errors.Is(err, ErrTooManyOTPAttempts):
			response.Error(c, http.StatusUnauthorized, "TOO_MANY_ATTEMPTS", "Too many attempts")
		case errors.Is(err, ErrInvalidOTP):
			response.Error(c, http.StatusUnauthorized, "INVALID_OTP", "Invalid OTP")
		default:
			response.Error(c, http.StatusInternalServerError, "OTP_VERIFICATION_FAILED", "An error occurred during verification")
		}
		return
	}

	h.setTokenCookies(c, result.AccessToken, result.RefreshToken)
	response.Success(c, http.StatusOK, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    &result.ExpiresAt,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	_ = c.ShouldBindJSON(&req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			refreshToken = cookie
		}
	}
	if refreshToken == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Refresh token is required")
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REFRESH_FAILED", "An error occurred during token refresh")
		return
	}

	h.setTokenCookies(c, result.AccessToken, result.RefreshToken)
	response.Success(c, http.StatusOK, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    &result.ExpiresAt,
	})
}

func (h *Handler) Revoke(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Refresh token is required")
		return
	}

	err := h.service.Revoke(c.Request.Context(), req.RefreshToken, "")
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenNotFound):
			response.Error(c, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found")
		case errors.Is(err, ErrTokenNotActive):
			response.Error(c, http.StatusConflict, "TOKEN_NOT_ACTIVE", "Token is already revoked or expired")
		default:
			response.Error(c, http.StatusInternalServerError, "REVOKE_FAILED", "An error occurred during token revocation")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Token revoked successfully"})
}

func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "An error occurred during logout")
		return
	}

	h.clearTokenCookies(c)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, MeResponse{
		ID:       c.GetInt64("user_id"),
		Username: c.GetString("username"),
		Role:     c.GetString("role"),
	})
}

func (h *Handler) Sessions(c *gin.Context) {
	userID := c.GetInt64("user_id")

	tokens, err := h.service.Sessions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "SESSIONS_FAILED", "An error occurred while listing sessions")
		return
	}

	now := time.Now().UTC()
	sessions := make([]SessionResponse, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, SessionResponse{
			ID:            t.ID,
			CreatedAt:     t.CreatedAt,
			ExpiresAt:     t.ExpiresAt,
			Active:        t.IsActive(now),
			RevokedAt:     t.RevokedAt,
			RevokedReason: t.RevokedReason,
		})
	}
	response.Success(c, http.StatusOK, sessions)
}

func (h *Handler) Enable2FA(c *gin.Context) {
	h.toggle2FA(c, true)
}

func (h *Handler) Disable2FA(c *gin.Context) {
	h.toggle2FA(c, false)
}

func (h *Handler) toggle2FA(c *gin.Context, enable bool) {
	userID := c.GetInt64("user_id")

	var err error
	if enable {
		err = h.service.Enable2FA(c.Request.Context(), userID)
	} else {
		err = h.service.Disable2FA(c.Request.Context(), userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, ErrEmailRequired):
			response.Error(c, http.StatusBadRequest, "EMAIL_REQUIRED", "An email address is required to enable 2FA")
		default:
			response.Error(c, http.StatusInternalServerError, "TWO_FACTOR_UPDATE_FAILED", "An error occurred while updating 2FA")
		}
		return
	}

	msg := "2FA disabled successfully"
	if enable {
		msg = "2FA enabled successfully"
	}
	response.Success(c, http.StatusOK, gin.H{"message": msg})
}

func (h *Handler) Get2FAStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")

	enabled, err := h.service.Get2FAStatus(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "TWO_FACTOR_STATUS_FAILED", "An error occurred while checking 2FA status")
		return
	}

	response.Success(c, http.StatusOK, TwoFactorStatusResponse{TwoFactorEnabled: enabled})
}

func (h *Handler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(sameSiteMode(h.cookies.SameSite))
	c.SetCookie(accessTokenCookie, accessToken, cookieMaxAge, h.cookies.Path, "", h.cookies.Secure, true)
	c.SetCookie(refreshTokenCookie, refreshToken, cookieMaxAge, h.cookies.Path, "", h.cookies.Secure, true)
}

func (h *Handler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(sameSiteMode(h.cookies.SameSite))
	c.SetCookie(accessTokenCookie, "", -1, h.cookies.Path, "", h.cookies.Secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, h.cookies.Path, "", h.cookies.Secure, true)
}

func sameSiteMode(v string) http.SameSite {
	switch v {
	case "None", "none":
		return http.SameSiteNoneMode
	case "Strict", "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
