package domain

import "time"

type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleManager  UserRole = "manager"
	RoleAdmin    UserRole = "admin"
)

// User is a credential + profile record. The device linkage fields identify
// the person on the fingerprint terminal; auth logic carries them opaquely.
type User struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`

	DeviceIP     string `json:"deviceIp,omitempty"`
	DeviceUserID string `json:"deviceUserId,omitempty"`
	Department   string `json:"department,omitempty"`
	Section      string `json:"section,omitempty"`

	// 2FA challenge state. CodeHash and CodeExpiresAt are set together when a
	// login challenge is issued and cleared together on success or expiry.
	// An exhausted attempt counter keeps the row until the TTL passes so the
	// limit stays observable.
	TwoFactorEnabled        bool       `json:"twoFactorEnabled"`
	TwoFactorCodeHash       *string    `json:"-"`
	TwoFactorCodeExpiresAt  *time.Time `json:"-"`
	TwoFactorFailedAttempts int        `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPendingChallenge reports whether an OTP challenge is outstanding and not
// yet past its expiry.
func (u *User) HasPendingChallenge(now time.Time) bool {
	return u.TwoFactorCodeHash != nil &&
		u.TwoFactorCodeExpiresAt != nil &&
		u.TwoFactorCodeExpiresAt.After(now)
}
