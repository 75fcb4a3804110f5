package entity

import (
	"time"

	"github.com/google/uuid"
)

// Revocation reasons recorded when a refresh token is burned. Stored verbatim
// so the audit trail reads the same across rotation, logout and bulk events.
const (
	RevokeReasonRotated = "replaced by new token"
	RevokeReasonLogout  = "user logout"
	RevokeReasonBulk    = "bulk revocation"
)

// RefreshToken represents a long-lived session continuation. The Token value
// is an opaque high-entropy random string; it is the lookup key and is stored
// as-is, unlike a password.
type RefreshToken struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Token  string

	CreatedByIP string
	ExpiresAt   time.Time
	CreatedAt   time.Time

	// Revocation metadata, written exactly once. RevokedAt being set is the
	// single source of truth for "revoked".
	RevokedAt     *time.Time
	RevokedByIP   string
	RevokedReason string

	// ReplacedByToken links a rotated token to its successor's value. Audit
	// chain only; validation never follows it.
	ReplacedByToken string
}

// IsExpired reports whether the token's lifetime has elapsed at the given instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsRevoked reports whether the token has been explicitly burned.
// Monotonic: once true it never becomes false again.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token may still be redeemed.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}
