package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"fptrack/internal/domain"
	"fptrack/internal/pkg/otp"
	"fptrack/internal/pkg/password"
	pkgvalidator "fptrack/internal/pkg/validator"

	"gorm.io/gorm"
)

const maxOTPAttempts = 3

// Service contains all business logic for authentication and the session
// lifecycle. It is the boundary that turns store and collaborator failures
// into the module's sentinel errors; nothing below it leaks raw
// infrastructure errors to the HTTP layer.
type Service struct {
	users      UserRepositoryInterface
	tokens     RefreshTokenRepositoryInterface
	jwt        jwtService
	mailer     Mailer
	devices    DeviceProvisioner
	otpTTL     time.Duration
	refreshTTL time.Duration
}

// AuthResult is what a successful auth step yields: either a token pair or,
// when a second factor is pending, the challenge marker.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Requires2FA  bool
	UserID       int64
}

func NewService(
	users UserRepositoryInterface,
	tokens RefreshTokenRepositoryInterface,
	jwt jwtService,
	mailer Mailer,
	devices DeviceProvisioner,
	otpTTL time.Duration,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		jwt:        jwt,
		mailer:     mailer,
		devices:    devices,
		otpTTL:     otpTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a user and signs them in. When a device IP is supplied the
// user is provisioned on the terminal first; a provisioning failure aborts
// the whole registration so no local user is left without a device identity.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if exists, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrUsernameTaken
	}
	if exists, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrEmailTaken
	}

	role := domain.UserRole(req.Role)
	if role == "" {
		role = domain.RoleEmployee
	}

	var deviceUserID string
	if strings.TrimSpace(req.DeviceIP) != "" {
		id, err := s.devices.AddUser(ctx, req.DeviceIP, req.Username)
		if err != nil {
			log.Printf("register: device provisioning failed device=%s user=%s err=%v", req.DeviceIP, req.Username, err)
			return nil, err
		}
		deviceUserID = id
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		DeviceIP:     strings.TrimSpace(req.DeviceIP),
		DeviceUserID: deviceUserID,
		Department:   req.Department,
		Section:      req.Section,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("new user registered: user_id=%d", user.ID)

	return s.issueTokens(ctx, user)
}

// Login verifies the password and either issues tokens directly or, for 2FA
// users, stores an OTP challenge and mails the code. The challenge response
// carries no tokens.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.lookupUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if err := s.issueOTPChallenge(ctx, user); err != nil {
			return nil, err
		}
		return &AuthResult{Requires2FA: true, UserID: user.ID}, nil
	}

	log.Printf("user logged in: user_id=%d", user.ID)
	return s.issueTokens(ctx, user)
}

// lookupUser resolves a username or email. Every miss maps to the generic
// credential error so callers cannot probe for account existence.
func (s *Service) lookupUser(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if strings.Contains(usernameOrEmail, "@") {
		user, err = s.users.GetByEmail(ctx, usernameOrEmail)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, ErrInvalidCredentials
}

func (s *Service) issueOTPChallenge(ctx context.Context, user *domain.User) error {
	if user.Email == "" {
		return ErrEmailRequired
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.otpTTL)
	if err := s.users.SetTwoFactorChallenge(ctx, user.ID, otp.Hash(code), expiresAt); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(ctx, user.Email, code); err != nil {
		log.Printf("login: otp dispatch failed user_id=%d err=%v", user.ID, err)
		return ErrMailDispatch
	}

	log.Printf("otp challenge issued: user_id=%d", user.ID)
	return nil
}

// VerifyOTP runs the pending-challenge state machine: expired or missing
// challenges and exhausted attempts are terminal, a mismatch burns one
// attempt, and a match consumes the challenge exactly once before tokens are
// issued.
func (s *Service) VerifyOTP(ctx context.Context, userID int64, code string) (*AuthResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPExpired
		}
		return nil, err
	}

	now := time.Now().UTC()
	if !user.HasPendingChallenge(now) {
		// Covers no challenge and expired challenge alike. Clear leftovers so
		// the hash/expiry pair never outlives its validity.
		if user.TwoFactorCodeHash != nil {
			if err := s.users.ClearTwoFactorChallenge(ctx, user.ID); err != nil {
				return nil, err
			}
		}
		return nil, ErrOTPExpired
	}

	if user.TwoFactorFailedAttempts >= maxOTPAttempts {
		return nil, ErrTooManyOTPAttempts
	}

	if otp.Hash(code) != *user.TwoFactorCodeHash {
		attempts := user.TwoFactorFailedAttempts + 1
		if err := s.users.SetTwoFactorAttempts(ctx, user.ID, attempts); err != nil {
			return nil, err
		}
		if attempts >= maxOTPAttempts {
			return nil, ErrTooManyOTPAttempts
		}
		return nil, ErrInvalidOTP
	}

	// Challenge consumed: a replay of the same code must fail.
	if err := s.users.ClearTwoFactorChallenge(ctx, user.ID); err != nil {
		return nil, err
	}

	log.Printf("otp verified, user logged in: user_id=%d", user.ID)
	return s.issueTokens(ctx, user)
}

// Logout revokes every active refresh token the user owns. Already-issued
// access tokens stay valid until their natural expiry; there is no denylist.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	n, err := s.tokens.RevokeAllForUser(ctx, userID, domain.ReasonLogout)
	if err != nil {
		return err
	}
	log.Printf("user logged out: user_id=%d revoked=%d", userID, n)
	return nil
}

// Enable2FA turns the second factor on. It needs an email on file and is a
// no-op when already enabled.
func (s *Service) Enable2FA(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.TwoFactorEnabled {
		return nil
	}
	if user.Email == "" {
		return ErrEmailRequired
	}
	return s.users.SetTwoFactorEnabled(ctx, userID, true)
}

// Disable2FA turns the second factor off and drops any in-flight challenge.
// No-op when already disabled.
func (s *Service) Disable2FA(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.TwoFactorEnabled {
		return nil
	}
	return s.users.SetTwoFactorEnabled(ctx, userID, false)
}

// Sessions lists the user's refresh tokens, newest first, for the dashboard's
// session view.
func (s *Service) Sessions(ctx context.Context, userID int64) ([]domain.RefreshToken, error) {
	return s.tokens.ListByUser(ctx, userID)
}

func (s *Service) Get2FAStatus(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.TwoFactorEnabled, nil
}
