package middleware

import (
	"net/http"
	"strings"

	jwtsvc "fptrack/internal/pkg/jwt"
	"fptrack/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const accessTokenCookie = "accessToken"

// RequireAuth validates the access token and puts user_id, username and role
// into the gin context. Tokens come from the Authorization header or, for the
// cookie-based dashboard, from the accessToken cookie.
func RequireAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			if cookie, err := c.Cookie(accessTokenCookie); err == nil {
				tokenStr = cookie
			}
		}
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing access token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
