package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"fptrack/internal/domain"

	"gorm.io/gorm"
)

const refreshTokenBytes = 64 // 512 bits of entropy

// generateRefreshToken returns a pure-entropy opaque token. URL-safe base64
// so it survives cookies and query strings untouched.
func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// createRefreshToken persists a new active token for userID with the full
// expiry window.
func (s *Service) createRefreshToken(ctx context.Context, userID int64) (*domain.RefreshToken, error) {
	raw, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	token := &domain.RefreshToken{
		UserID:    userID,
		Token:     raw,
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// issueTokens mints an access token and a fresh refresh token for user.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.createRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresAt:    time.Now().UTC().Add(s.jwt.TTL()),
	}, nil
}

// Refresh rotates a refresh token: the old token is revoked with a pointer to
// its successor and a new access/refresh pair is issued. Token and user are
// loaded before the transaction opens — the transaction pins a pool
// connection, so no repository call may run inside it or a saturated pool
// deadlocks. Staleness of those reads is harmless: the revoked_at IS NULL
// guard on the revoke update means a token can win exactly one rotation, and
// a concurrent or replayed attempt sees zero rows updated and gets
// ErrInvalidRefreshToken (the transaction rolls its new token back).
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	now := time.Now().UTC()

	current, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !current.IsActive(now) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	raw, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next := &domain.RefreshToken{
			UserID:    current.UserID,
			Token:     raw,
			ExpiresAt: now.Add(s.refreshTTL),
		}
		if err := tx.Create(next).Error; err != nil {
			return err
		}

		res := tx.Model(&domain.RefreshToken{}).
			Where("id = ? AND revoked_at IS NULL", current.ID).
			Updates(map[string]any{
				"revoked_at":        now,
				"revoked_reason":    domain.ReasonRotated,
				"replaced_by_token": raw,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race: someone else rotated this token first.
			return ErrInvalidRefreshToken
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: raw,
		ExpiresAt:    now.Add(s.jwt.TTL()),
	}, nil
}

// Revoke marks a single token revoked with a caller-supplied reason.
func (s *Service) Revoke(ctx context.Context, refreshToken, reason string) error {
	if reason == "" {
		reason = domain.ReasonUserRevoked
	}

	token, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if !token.IsActive(time.Now().UTC()) {
		return ErrTokenNotActive
	}

	done, err := s.tokens.Revoke(ctx, token.ID, reason, nil)
	if err != nil {
		return err
	}
	if !done {
		return ErrTokenNotActive
	}
	return nil
}
