package auth

import (
	"context"
	"time"

	"fptrack/internal/domain"

	"gorm.io/gorm"
)

// UserRepositoryInterface — only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetTwoFactorChallenge(ctx context.Context, userID int64, codeHash string, expiresAt time.Time) error
	SetTwoFactorAttempts(ctx context.Context, userID int64, attempts int) error
	ClearTwoFactorChallenge(ctx context.Context, userID int64) error
	SetTwoFactorEnabled(ctx context.Context, userID int64, enabled bool) error
	DB() *gorm.DB // rotation runs in a transaction
}

// RefreshTokenRepositoryInterface — storage for refresh tokens.
type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, id int64, reason string, replacedByToken *string) (bool, error)
	RevokeAllForUser(ctx context.Context, userID int64, reason string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.RefreshToken, error)
}

type jwtService interface {
	GenerateToken(user *domain.User) (string, error)
	TTL() time.Duration
}

// Mailer dispatches one-time codes. Implemented in internal/mailer.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// DeviceProvisioner registers a user on a fingerprint terminal during
// registration. Implemented in internal/device.
type DeviceProvisioner interface {
	AddUser(ctx context.Context, deviceIP, username string) (string, error)
}
