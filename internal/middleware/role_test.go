package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fptrack/internal/domain"
	jwtsvc "fptrack/internal/pkg/jwt"
)

func staffRouter(jwt *jwtsvc.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireAuth(jwt), StaffOnly())
	router.GET("/staff", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func roleToken(t *testing.T, jwt *jwtsvc.Service, role domain.UserRole) string {
	t.Helper()
	token, err := jwt.GenerateToken(&domain.User{ID: 1, Username: "u", Role: role})
	require.NoError(t, err)
	return token
}

func TestStaffOnly(t *testing.T) {
	jwt := jwtsvc.New("test-secret", "fptrack", "fptrack-dashboard", time.Hour)
	router := staffRouter(jwt)

	cases := []struct {
		role domain.UserRole
		want int
	}{
		{domain.RoleAdmin, http.StatusOK},
		{domain.RoleManager, http.StatusOK},
		{domain.RoleEmployee, http.StatusForbidden},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/staff", nil)
		req.Header.Set("Authorization", "Bearer "+roleToken(t, jwt, tc.role))
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "role %s", tc.role)
	}
}

func TestAdminOnly(t *testing.T) {
	jwt := jwtsvc.New("test-secret", "fptrack", "fptrack-dashboard", time.Hour)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireAuth(jwt), AdminOnly())
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+roleToken(t, jwt, domain.RoleManager))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
