package postgres

import (
	"context"
	"time"

	"roam/internal/domain/entity"
	domainerrors "roam/internal/domain/errors"
	"roam/internal/domain/repository"
	"roam/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// CreateRefreshToken persists a new refresh token, representing a user session.
func (repo *refreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := fromRefreshTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInternalError.WrapMessage("missing required token information")
		}
		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	// Update the entity with generated values
	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindRefreshTokenByValue retrieves a record by its opaque token value.
// Revoked and expired records are returned too so the caller can decide
// how to report the failure.
func (repo *refreshTokenRepository) FindRefreshTokenByValue(ctx context.Context, token string) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("token = ?", token).
		First(&tokenM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toRefreshTokenDomain(&tokenM), nil
}

// FindRefreshTokenByID retrieves a record by its unique ID.
func (repo *refreshTokenRepository) FindRefreshTokenByID(ctx context.Context, id uuid.UUID) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tokenM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toRefreshTokenDomain(&tokenM), nil
}

// FindRefreshTokensByUserID retrieves all token records for a user, newest first.
func (repo *refreshTokenRepository) FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	var tokenModels []model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tokenModels).Error

	if err != nil {
		return nil, errors.WithStack(err)
	}

	tokens := make([]*entity.RefreshToken, 0, len(tokenModels))
	for i := range tokenModels {
		tokens = append(tokens, toRefreshTokenDomain(&tokenModels[i]))
	}

	return tokens, nil
}

// MarkRevoked burns a token with a single conditional UPDATE. The WHERE clause
// requires the record to still be active, so of two concurrent attempts only
// one can succeed; the loser observes zero affected rows.
func (repo *refreshTokenRepository) MarkRevoked(ctx context.Context, token string, ip string, reason string) error {
	now := time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token = ? AND revoked_at IS NULL AND expires_at > ?", token, now).
		Updates(map[string]any{
			"revoked_at":     now,
			"revoked_by_ip":  ip,
			"revoked_reason": reason,
		})

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrRefreshTokenInactive
	}

	return nil
}

// SetReplacedBy records the successor token on a just-revoked record.
func (repo *refreshTokenRepository) SetReplacedBy(ctx context.Context, token string, replacement string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token = ?", token).
		Update("replaced_by_token", replacement)

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrRefreshTokenNotFound
	}

	return nil
}

// RevokeAllByUserID burns every active token for the user in one statement.
func (repo *refreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID, ip string) (int64, error) {
	now := time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Updates(map[string]any{
			"revoked_at":     now,
			"revoked_by_ip":  ip,
			"revoked_reason": entity.RevokeReasonBulk,
		})

	if result.Error != nil {
		return 0, errors.WithStack(result.Error)
	}

	return result.RowsAffected, nil
}

// DeleteStale removes expired records and revoked records past the retention cutoff.
func (repo *refreshTokenRepository) DeleteStale(ctx context.Context, revokedBefore time.Time) (int64, error) {
	now := time.Now()

	result := repo.db.WithContext(ctx).
		Where("expires_at <= ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", now, revokedBefore).
		Delete(&model.RefreshTokenModel{})

	if result.Error != nil {
		return 0, errors.WithStack(result.Error)
	}

	return result.RowsAffected, nil
}

// CountActiveByUserID returns the number of active sessions for a user.
func (repo *refreshTokenRepository) CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	now := time.Now()

	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Count(&count).Error

	if err != nil {
		return 0, errors.WithStack(err)
	}

	return int(count), nil
}

// --- Mapper Functions ---

// toRefreshTokenDomain converts a GORM RefreshTokenModel to a domain RefreshToken entity.
func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:              data.ID,
		UserID:          data.UserID,
		Token:           data.Token,
		CreatedByIP:     data.CreatedByIP,
		ExpiresAt:       data.ExpiresAt,
		CreatedAt:       data.CreatedAt,
		RevokedAt:       data.RevokedAt,
		RevokedByIP:     data.RevokedByIP,
		RevokedReason:   data.RevokedReason,
		ReplacedByToken: data.ReplacedByToken,
	}
}

// fromRefreshTokenDomain converts a domain RefreshToken entity to a GORM RefreshTokenModel.
func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	return &model.RefreshTokenModel{
		ID:              data.ID,
		UserID:          data.UserID,
		Token:           data.Token,
		CreatedByIP:     data.CreatedByIP,
		ExpiresAt:       data.ExpiresAt,
		CreatedAt:       data.CreatedAt,
		RevokedAt:       data.RevokedAt,
		RevokedByIP:     data.RevokedByIP,
		RevokedReason:   data.RevokedReason,
		ReplacedByToken: data.ReplacedByToken,
	}
}
