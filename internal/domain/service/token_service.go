// Package service defines domain-level contracts implemented by the
// infrastructure layer, such as token codecs and password hashing.
package service

import (
	"time"

	"roam/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Verification failures are split so callers can tell a stale-but-genuine
// credential from a forged or malformed one.
var (
	// ErrTokenExpired means the token was well-formed and authentic but its
	// validity window has passed.
	ErrTokenExpired = errors.New("access token expired")
	// ErrTokenInvalid covers every other failure: bad signature, wrong
	// algorithm, malformed payload, missing claims.
	ErrTokenInvalid = errors.New("access token invalid")
)

// AccessClaims is the identity payload carried by a short-lived access token.
type AccessClaims struct {
	UserID   uuid.UUID
	Role     entity.Role
	IssuedAt time.Time
	Expiry   time.Time
}

// TokenService is the stateless codec for access tokens. Verification never
// touches storage; the signature and expiry alone decide validity.
type TokenService interface {
	// GenerateAccessToken signs a token embedding the user's identity and role.
	GenerateAccessToken(userID uuid.UUID, role entity.Role) (string, error)

	// ValidateAccessToken checks signature and expiry, returning the embedded
	// claims. Fails with ErrTokenExpired or ErrTokenInvalid.
	ValidateAccessToken(tokenString string) (*AccessClaims, error)
}

// OpaqueTokenGenerator mints the unguessable values used for refresh,
// verification, and reset tokens.
type OpaqueTokenGenerator interface {
	// Generate returns a fresh token with at least 256 bits of entropy,
	// encoded for safe transport in URLs and JSON.
	Generate() (string, error)
}
