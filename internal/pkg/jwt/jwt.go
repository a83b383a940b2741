package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"fptrack/internal/domain"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Service issues and validates HS256 access tokens. Refresh tokens are not
// JWTs; they live in internal/modules/auth.
type Service struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwtlib.RegisteredClaims
}

func New(secret, issuer, audience string, ttl time.Duration) *Service {
	return &Service{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// TTL returns the configured access-token lifetime. Handlers use it to report
// the expiry timestamp alongside issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// GenerateToken signs a short-lived access token for user. Every token gets a
// unique jti so individual tokens can be told apart in logs.
func (s *Service) GenerateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Audience:  jwtlib.ClaimStrings{s.audience},
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies signature, issuer, audience and expiry (no leeway)
// and returns the embedded claims. Any failure is reported as a descriptive
// error; callers treat all of them as Unauthorized.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithIssuer(s.issuer),
		jwtlib.WithAudience(s.audience),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		// Fall back to the subject claim for tokens minted by older builds.
		id, convErr := strconv.ParseInt(claims.Subject, 10, 64)
		if convErr != nil || id == 0 {
			return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
		}
		claims.UserID = id
	}

	return claims, nil
}
