// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"roam/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrUserNotFound is returned when a user record does not exist.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	// Create persists a new user account. A duplicate email surfaces as
	// a domain conflict error, not a raw constraint violation.
	Create(ctx context.Context, user *entity.User) error

	// Update persists mutated account state (flags, credential hash,
	// single-use token fields).
	Update(ctx context.Context, user *entity.User) error

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByVerificationToken retrieves the user holding the given
	// email-verification token. Expiry is checked by the caller.
	FindByVerificationToken(ctx context.Context, token string) (*entity.User, error)

	// FindByResetToken retrieves the user holding the given password-reset
	// token. Expiry is checked by the caller.
	FindByResetToken(ctx context.Context, token string) (*entity.User, error)
}
