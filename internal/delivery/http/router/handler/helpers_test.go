package handler

import (
	"time"

	"roam/internal/domain/entity"

	"github.com/google/uuid"
)

// verifiedUserFixture returns an active, verified client account for tests.
func verifiedUserFixture(email string) *entity.User {
	return &entity.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          "Test User",
		Role:          entity.RoleClient,
		PasswordHash:  "$2a$04$fixturehashfixturehashfixturehashfixtureha",
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}
