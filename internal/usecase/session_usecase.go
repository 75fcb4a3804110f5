// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"roam/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenPair is a freshly minted access/refresh credential pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RefreshInput carries the presented refresh token for rotation.
type RefreshInput struct {
	RefreshToken string
	IP           string
}

// RefreshOutput returns the rotated pair plus the owning account so the
// caller can refresh its cached identity.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// LogoutInput carries the refresh token being surrendered.
type LogoutInput struct {
	RefreshToken string
	IP           string
}

// SessionUsecase is the session issuer: the only component that mints and
// rotates token pairs, and the only place session-security policy lives.
type SessionUsecase interface {
	// IssuePair mints an access/refresh pair for an authenticated account.
	// Existing sessions are untouched; multi-device is the default policy.
	IssuePair(ctx context.Context, user *entity.User, ip string) (*TokenPair, error)

	// Refresh performs strict one-time-use rotation of the presented token.
	Refresh(ctx context.Context, input RefreshInput) (*RefreshOutput, error)

	// Logout revokes the presented token. Failure kinds are surfaced here;
	// the HTTP handler reports success regardless.
	Logout(ctx context.Context, input LogoutInput) error

	// GetActiveSessions lists the account's currently active sessions.
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.SessionInfo, error)

	// RevokeSession revokes one session owned by the account.
	RevokeSession(ctx context.Context, userID, sessionID uuid.UUID, ip string) error

	// RevokeAllSessions revokes every active session for the account and
	// returns how many were revoked.
	RevokeAllSessions(ctx context.Context, userID uuid.UUID, ip string) (int64, error)

	// PurgeStaleSessions deletes expired records and revoked records past the
	// retention window. Maintenance only.
	PurgeStaleSessions(ctx context.Context) (int64, error)
}
