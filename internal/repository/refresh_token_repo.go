package repository

import (
	"context"
	"time"

	"fptrack/internal/domain"

	"gorm.io/gorm"
)

// RefreshTokenRepository provides DB access for refresh tokens.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Revoke marks a token revoked with a reason and, for rotation, the successor
// token string. The revoked_at IS NULL guard makes the transition optimistic:
// of two concurrent attempts exactly one observes revoked=false and wins. The
// boolean reports whether this call performed the transition.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, id int64, reason string, replacedByToken *string) (bool, error) {
	now := time.Now().UTC()
	updates := map[string]any{
		"revoked_at":     now,
		"revoked_reason": reason,
	}
	if replacedByToken != nil {
		updates["replaced_by_token"] = *replacedByToken
	}
	tx := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// RevokeAllForUser revokes every active token the user owns. Tokens revoked
// concurrently are skipped by the revoked_at IS NULL filter, so the bulk
// transition is monotonic without being atomic.
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64, reason string) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]any{
			"revoked_at":     now,
			"revoked_reason": reason,
		})
	return tx.RowsAffected, tx.Error
}

// DeleteExpired hard-deletes every row past its expiry, revoked or not.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&domain.RefreshToken{})
	return tx.RowsAffected, tx.Error
}

// ListByUser is used by the dashboard's session view and by tests.
func (r *RefreshTokenRepository) ListByUser(ctx context.Context, userID int64) ([]domain.RefreshToken, error) {
	var tokens []domain.RefreshToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}
