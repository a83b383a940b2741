package repository

import (
	"context"
	"strings"
	"time"

	"fptrack/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	Username     string  `gorm:"column:username;uniqueIndex;not null"`
	Email        string  `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	Role         string  `gorm:"column:role;not null"`
	DeviceIP     *string `gorm:"column:device_ip"`
	DeviceUserID *string `gorm:"column:device_user_id"`
	Department   *string `gorm:"column:department"`
	Section      *string `gorm:"column:section"`

	TwoFactorEnabled        bool       `gorm:"column:two_factor_enabled;not null;default:false"`
	TwoFactorCodeHash       *string    `gorm:"column:two_factor_code_hash"`
	TwoFactorCodeExpiresAt  *time.Time `gorm:"column:two_factor_code_expires_at"`
	TwoFactorFailedAttempts int        `gorm:"column:two_factor_failed_attempts;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	u := &domain.User{
		ID:                      m.ID,
		Username:                m.Username,
		Email:                   m.Email,
		PasswordHash:            m.PasswordHash,
		Role:                    domain.UserRole(m.Role),
		TwoFactorEnabled:        m.TwoFactorEnabled,
		TwoFactorCodeHash:       m.TwoFactorCodeHash,
		TwoFactorCodeExpiresAt:  m.TwoFactorCodeExpiresAt,
		TwoFactorFailedAttempts: m.TwoFactorFailedAttempts,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	if m.DeviceIP != nil {
		u.DeviceIP = *m.DeviceIP
	}
	if m.DeviceUserID != nil {
		u.DeviceUserID = *m.DeviceUserID
	}
	if m.Department != nil {
		u.Department = *m.Department
	}
	if m.Section != nil {
		u.Section = *m.Section
	}
	return u
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:                      u.ID,
		Username:                strings.TrimSpace(u.Username),
		Email:                   strings.ToLower(strings.TrimSpace(u.Email)),
		PasswordHash:            u.PasswordHash,
		Role:                    string(u.Role),
		DeviceIP:                nullable(u.DeviceIP),
		DeviceUserID:            nullable(u.DeviceUserID),
		Department:              nullable(u.Department),
		Section:                 nullable(u.Section),
		TwoFactorEnabled:        u.TwoFactorEnabled,
		TwoFactorCodeHash:       u.TwoFactorCodeHash,
		TwoFactorCodeExpiresAt:  u.TwoFactorCodeExpiresAt,
		TwoFactorFailedAttempts: u.TwoFactorFailedAttempts,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

func nullable(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

// GetByUsername is case-insensitive: the dashboard lets people type the
// username however they remember it.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// SetTwoFactorChallenge stores a fresh OTP digest with its expiry and resets
// the failed-attempt counter.
func (r *UserRepository) SetTwoFactorChallenge(ctx context.Context, userID int64, codeHash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"two_factor_code_hash":       codeHash,
			"two_factor_code_expires_at": expiresAt,
			"two_factor_failed_attempts": 0,
		}).Error
}

func (r *UserRepository) SetTwoFactorAttempts(ctx context.Context, userID int64, attempts int) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Update("two_factor_failed_attempts", attempts).Error
}

// ClearTwoFactorChallenge wipes the pending OTP state. Hash, expiry and the
// counter always go together.
func (r *UserRepository) ClearTwoFactorChallenge(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"two_factor_code_hash":       nil,
			"two_factor_code_expires_at": nil,
			"two_factor_failed_attempts": 0,
		}).Error
}

// SetTwoFactorEnabled toggles the flag. Disabling also clears any in-flight
// challenge.
func (r *UserRepository) SetTwoFactorEnabled(ctx context.Context, userID int64, enabled bool) error {
	updates := map[string]any{"two_factor_enabled": enabled}
	if !enabled {
		updates["two_factor_code_hash"] = nil
		updates["two_factor_code_expires_at"] = nil
		updates["two_factor_failed_attempts"] = 0
	}
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (r *UserRepository) DB() *gorm.DB {
	return r.db
}
