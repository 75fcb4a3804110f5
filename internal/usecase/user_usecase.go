// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"roam/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterUserInput defines the data required to register a new account.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	// Role defaults to client when empty. Elevated roles are only reachable
	// through admin-gated endpoints.
	Role entity.Role
}

// VerifyEmailInput carries the single-use verification token from the mailed link.
type VerifyEmailInput struct {
	Token string
	IP    string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// ForgotPasswordInput starts the password recovery flow.
type ForgotPasswordInput struct {
	Email string
}

// ResetPasswordInput completes the password recovery flow.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
	IP          string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	User *entity.User
}

// AuthOutput returns the issued token pair after a successful login or
// email verification.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// UserUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*RegisterOutput, error)
	VerifyEmail(ctx context.Context, input VerifyEmailInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)
	ForgotPassword(ctx context.Context, input ForgotPasswordInput) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error

	// GetUserByID resolves current account state. The auth gateway re-fetches
	// on every request so suspensions take effect before access tokens expire.
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// SuspendUser deactivates an account and revokes its outstanding sessions.
	SuspendUser(ctx context.Context, userID uuid.UUID, actorIP string) error
}
