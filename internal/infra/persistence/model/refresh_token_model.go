package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel mirrors the 'refresh_tokens' table. The opaque token value
// is stored as-is and doubles as the lookup key; revocation columns stay NULL
// while the session is live.
type RefreshTokenModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Token       string    `gorm:"type:varchar(64);unique;not null"`
	CreatedByIP string    `gorm:"type:varchar(45)"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time

	RevokedAt       *time.Time `gorm:"index"`
	RevokedByIP     string     `gorm:"type:varchar(45)"`
	RevokedReason   string     `gorm:"type:varchar(100)"`
	ReplacedByToken string     `gorm:"type:varchar(64)"`
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
