package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fptrack/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       42,
		Username: "alice",
		Role:     domain.RoleManager,
	}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", "fptrack", "fptrack-dashboard", 15*time.Minute)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID, "every token carries a jti")
}

func TestUniqueJTI(t *testing.T) {
	svc := New("secret", "fptrack", "fptrack-dashboard", 15*time.Minute)

	a, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	b, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	ca, err := svc.ValidateToken(a)
	require.NoError(t, err)
	cb, err := svc.ValidateToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := New("secret", "fptrack", "fptrack-dashboard", 15*time.Minute)
	other := New("other-secret", "fptrack", "fptrack-dashboard", 15*time.Minute)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuerAndAudience(t *testing.T) {
	svc := New("secret", "fptrack", "fptrack-dashboard", 15*time.Minute)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	wrongIssuer := New("secret", "someone-else", "fptrack-dashboard", 15*time.Minute)
	_, err = wrongIssuer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := New("secret", "fptrack", "other-app", 15*time.Minute)
	_, err = wrongAudience.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := New("secret", "fptrack", "fptrack-dashboard", -time.Minute)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := New("secret", "fptrack", "fptrack-dashboard", 15*time.Minute)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
