package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionInfo is the user-facing projection of a refresh token record,
// exposed so account holders can review and revoke their own devices.
type SessionInfo struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CreatedByIP string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	IsActive    bool
}
