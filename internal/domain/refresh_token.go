package domain

import "time"

// Revocation reasons recorded on refresh tokens. The dashboard shows these
// verbatim, so they are fixed strings rather than an enum.
const (
	ReasonRotated     = "Replaced by new token"
	ReasonUserRevoked = "Revoked by user"
	ReasonLogout      = "User logout"
)

// RefreshToken is a long-lived opaque credential persisted server-side.
//
// Tokens are revoked, never updated in place: rotation revokes the old row
// with ReasonRotated and records the successor in ReplacedByToken. Rows are
// physically deleted only by the expiry sweeper once past ExpiresAt.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	// UserID references users.id. No gorm association on purpose: the users
	// table is owned by the repository's row model.
	UserID int64 `json:"userId" gorm:"index;not null"`

	Token string `json:"-" gorm:"size:128;uniqueIndex;not null"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index;not null"`

	RevokedAt       *time.Time `json:"revokedAt" gorm:"index"`
	RevokedReason   *string    `json:"revokedReason"`
	ReplacedByToken *string    `json:"-"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token may still be exchanged: not revoked and
// not past expiry.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}
