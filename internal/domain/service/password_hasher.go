package service

import "github.com/pkg/errors"

// ErrPasswordTooWeak is returned when a candidate password fails the
// strength policy.
var ErrPasswordTooWeak = errors.New("password does not meet strength requirements")

// PasswordHasher abstracts one-way credential hashing so the application
// layer never handles plaintext beyond the request boundary.
type PasswordHasher interface {
	// Hash derives a storable hash from the plaintext password.
	Hash(password string) (string, error)

	// Check reports whether the plaintext matches the stored hash.
	Check(hashedPassword, password string) bool

	// ValidateStrength enforces the password policy before hashing.
	// Returns ErrPasswordTooWeak with detail when the policy is not met.
	ValidateStrength(password string) error
}
