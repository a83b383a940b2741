package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fptrack/internal/middleware"
	jwtsvc "fptrack/internal/pkg/jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := newTestEnv(t)
	j := jwtsvc.New("test-secret", "fptrack", "fptrack-dashboard", 15*time.Minute)
	// The service in env was built with the same jwt settings.
	handler := NewHandler(env.service, CookieSettings{SameSite: "Lax", Path: "/"})

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterPublicRoutes(v1)
	protected := v1.Group("/")
	protected.Use(middleware.RequireAuth(j))
	handler.RegisterProtectedRoutes(protected)

	return router, env
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, mutate ...func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func cookieValue(w *httptest.ResponseRecorder, name string) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestHandler_RegisterAndLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	w, env := doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, cookieValue(w, "accessToken"))
	assert.NotEmpty(t, cookieValue(w, "refreshToken"))

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	w, env = doJSON(t, router, "POST", "/api/v1/auth/login", LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestHandler_RegisterConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "USERNAME_TAKEN", env.Error.Code)
}

func TestHandler_LoginWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})

	w, env := doJSON(t, router, "POST", "/api/v1/auth/login", LoginRequest{
		Username: "alice", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestHandler_RefreshFromCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	refresh := cookieValue(w, "refreshToken")
	require.NotEmpty(t, refresh)

	w, env := doJSON(t, router, "POST", "/api/v1/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEqual(t, refresh, resp.RefreshToken)

	// The rotated token is no longer accepted.
	w, env = doJSON(t, router, "POST", "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", env.Error.Code)
}

func TestHandler_TwoFactorLoginFlow(t *testing.T) {
	router, env := newTestRouter(t)

	w, _ := doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	access := cookieValue(w, "accessToken")
	require.NotEmpty(t, access)

	w, _ = doJSON(t, router, "POST", "/api/v1/auth/enable-2fa", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access)
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, respEnv := doJSON(t, router, "POST", "/api/v1/auth/login", LoginRequest{
		Username: "alice", Password: "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var challenge AuthResponse
	require.NoError(t, json.Unmarshal(respEnv.Data, &challenge))
	assert.True(t, challenge.Requires2FA)
	assert.Empty(t, challenge.AccessToken)
	assert.Empty(t, cookieValue(w, "accessToken"), "no session cookies before the OTP step")

	w, respEnv = doJSON(t, router, "POST", "/api/v1/auth/verify-otp", VerifyOTPRequest{
		UserID: challenge.UserID,
		OTP:    env.mailer.code,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var final AuthResponse
	require.NoError(t, json.Unmarshal(respEnv.Data, &final))
	assert.NotEmpty(t, final.AccessToken)
	assert.NotEmpty(t, cookieValue(w, "refreshToken"))
}

func TestHandler_LogoutClearsCookies(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	access := cookieValue(w, "accessToken")
	refresh := cookieValue(w, "refreshToken")

	w, env := doJSON(t, router, "POST", "/api/v1/auth/logout", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value, "cookie %s should be cleared", c.Name)
	}

	// The refresh token died with the session.
	w, _ = doJSON(t, router, "POST", "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Sessions(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	access := cookieValue(w, "accessToken")
	refresh := cookieValue(w, "refreshToken")

	// Rotate once so the list shows one revoked and one active session.
	w, _ = doJSON(t, router, "POST", "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: refresh})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, router, "GET", "/api/v1/auth/sessions", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access)
	})
	require.Equal(t, http.StatusOK, w.Code)

	var sessions []SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	require.Len(t, sessions, 2)

	active := 0
	for _, s := range sessions {
		if s.Active {
			active++
		} else {
			require.NotNil(t, s.RevokedReason)
		}
	}
	assert.Equal(t, 1, active)
}

func TestHandler_MeRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, "GET", "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	reg, _ := doJSON(t, router, "POST", "/api/v1/auth/register", RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	access := cookieValue(reg, "accessToken")

	w, env := doJSON(t, router, "GET", "/api/v1/auth/me", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access)
	})
	require.Equal(t, http.StatusOK, w.Code)

	var me MeResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice", me.Username)
}
