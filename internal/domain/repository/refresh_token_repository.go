package repository

import (
	"context"
	"time"

	"roam/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenNotFound is returned when no record matches the lookup.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenInactive is returned by MarkRevoked when the record was
	// already revoked or expired, i.e. the conditional update matched no row.
	ErrRefreshTokenInactive = errors.New("refresh token already revoked or expired")
)

// RefreshTokenRepository defines the persistence operations for long-lived
// session records. Revocation is a one-way conditional update, never a delete,
// so the audit chain survives until the retention sweep.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new refresh token, representing a session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByValue retrieves a record by its opaque token value.
	// Expired and revoked records are still returned; activity is the
	// caller's concern so it can produce the right failure kind.
	FindRefreshTokenByValue(ctx context.Context, token string) (*entity.RefreshToken, error)

	// FindRefreshTokenByID retrieves a record by its unique ID.
	FindRefreshTokenByID(ctx context.Context, id uuid.UUID) (*entity.RefreshToken, error)

	// FindRefreshTokensByUserID retrieves all records for a user, newest first.
	FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)

	// MarkRevoked burns a token in a single conditional update: the write
	// succeeds only if the record is still active at the database. Returns
	// ErrRefreshTokenInactive when the condition matched nothing, which is
	// what makes rotation strictly one-time-use even under concurrent redeems.
	MarkRevoked(ctx context.Context, token string, ip string, reason string) error

	// SetReplacedBy records the successor token's value on a just-revoked
	// record, completing the rotation audit chain.
	SetReplacedBy(ctx context.Context, token string, replacement string) error

	// RevokeAllByUserID burns every currently-active record for the user with
	// reason "bulk revocation" and returns how many were revoked.
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID, ip string) (int64, error)

	// DeleteStale removes records that are past expiry or were revoked before
	// the given cutoff. Maintenance only; auth decisions never depend on it.
	DeleteStale(ctx context.Context, revokedBefore time.Time) (int64, error)

	// CountActiveByUserID returns the number of active (not expired, not
	// revoked) sessions for a user, used by the optional session cap.
	CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error)
}
