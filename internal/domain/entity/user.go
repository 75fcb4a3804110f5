// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform account: a storefront client or a back-office
// operator. The credential hash lives on the record itself; there is a single
// email/password provider.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         Role
	PasswordHash string

	// Status flags. An access token minted before a flag flips is caught by
	// the auth gateway's per-request account re-fetch.
	IsActive      bool
	IsArchived    bool
	EmailVerified bool

	// Single-use email-verification token, set at registration and cleared
	// the moment it is redeemed.
	VerificationToken     *string
	VerificationExpiresAt *time.Time

	// Single-use password-reset token, set by forgot-password and cleared
	// when the reset completes.
	ResetToken     *string
	ResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAuthenticate reports whether the account may hold a live session at all.
// Verification status is checked separately so login can surface a distinct
// "verify your email first" failure.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsArchived
}

// VerificationTokenActive reports whether the stored verification token
// matches and has not expired at the given instant.
func (u *User) VerificationTokenActive(token string, now time.Time) bool {
	return u.VerificationToken != nil && *u.VerificationToken == token &&
		u.VerificationExpiresAt != nil && now.Before(*u.VerificationExpiresAt)
}

// ResetTokenActive reports whether the stored password-reset token matches
// and has not expired at the given instant.
func (u *User) ResetTokenActive(token string, now time.Time) bool {
	return u.ResetToken != nil && *u.ResetToken == token &&
		u.ResetExpiresAt != nil && now.Before(*u.ResetExpiresAt)
}

// ClearVerificationToken burns the single-use verification token.
func (u *User) ClearVerificationToken() {
	u.VerificationToken = nil
	u.VerificationExpiresAt = nil
}

// ClearResetToken burns the single-use password-reset token.
func (u *User) ClearResetToken() {
	u.ResetToken = nil
	u.ResetExpiresAt = nil
}
