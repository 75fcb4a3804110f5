package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	Name         string    `gorm:"type:varchar(100)"`
	Role         string    `gorm:"type:varchar(20);not null;default:'client'"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`

	IsActive      bool `gorm:"not null;default:true"`
	IsArchived    bool `gorm:"not null;default:false"`
	EmailVerified bool `gorm:"not null;default:false"`

	// Single-use onboarding and recovery tokens. NULL once consumed.
	VerificationToken     *string    `gorm:"type:varchar(64);uniqueIndex"`
	VerificationExpiresAt *time.Time
	ResetToken            *string    `gorm:"type:varchar(64);uniqueIndex"`
	ResetExpiresAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
