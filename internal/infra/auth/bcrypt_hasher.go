// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"roam/config"
	"roam/internal/domain/service"

	"github.com/pkg/errors"
)

// bcrypt silently truncates input beyond 72 bytes, so that is the hard
// ceiling regardless of configuration.
const bcryptMaxPasswordBytes = 72

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	strength := config.PasswordStrengthConfig{
		MinLength:        8,
		MaxLength:        bcryptMaxPasswordBytes,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
	}
	if cfg.PasswordStrength != nil {
		strength = *cfg.PasswordStrength
		if strength.MinLength <= 0 {
			strength.MinLength = 8
		}
	}
	if strength.MaxLength <= 0 || strength.MaxLength > bcryptMaxPasswordBytes {
		strength.MaxLength = bcryptMaxPasswordBytes
	}

	return &bcryptHasher{cost: cost, strength: strength}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// The strength policy is enforced first so a weak credential never reaches storage.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if err := h.ValidateStrength(password); err != nil {
		return "", err
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt.GenerateFromPassword")
	}
	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidateStrength enforces the configured password policy.
func (h *bcryptHasher) ValidateStrength(password string) error {
	if len(password) < h.strength.MinLength {
		return errors.Wrapf(service.ErrPasswordTooWeak,
			"password must be at least %d characters long", h.strength.MinLength)
	}
	if len(password) > h.strength.MaxLength {
		return errors.Wrapf(service.ErrPasswordTooWeak,
			"password must be at most %d characters long", h.strength.MaxLength)
	}
	if h.strength.RequireUppercase && !hasClass(password, unicode.IsUpper) {
		return errors.Wrap(service.ErrPasswordTooWeak,
			"password must contain at least one uppercase letter")
	}
	if h.strength.RequireLowercase && !hasClass(password, unicode.IsLower) {
		return errors.Wrap(service.ErrPasswordTooWeak,
			"password must contain at least one lowercase letter")
	}
	if h.strength.RequireNumbers && !hasClass(password, unicode.IsDigit) {
		return errors.Wrap(service.ErrPasswordTooWeak,
			"password must contain at least one number")
	}
	if h.strength.RequireSpecial && !hasClass(password, isSpecialChar) {
		return errors.Wrap(service.ErrPasswordTooWeak,
			"password must contain at least one special character")
	}
	return nil
}

func hasClass(s string, match func(rune) bool) bool {
	for _, r := range s {
		if match(r) {
			return true
		}
	}
	return false
}

func isSpecialChar(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
