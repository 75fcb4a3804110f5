// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"roam/config"
	deliverycontext "roam/internal/delivery/context"
	"roam/internal/domain/entity"
	domainerrors "roam/internal/domain/errors"
	"roam/internal/domain/repository"
	"roam/internal/domain/service"
	"roam/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface. It is the only
// component that mints and rotates token pairs.
type sessionService struct {
	txManager         repository.TransactionManager
	refreshTokenRepo  repository.RefreshTokenRepository
	tokenService      service.TokenService
	tokenGenerator    service.OpaqueTokenGenerator
	eventPublisher    service.EventPublisher
	refreshTokenTTL   time.Duration
	revokedRetention  time.Duration
	maxActiveSessions int
	logger            *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	RefreshTokenRepo repository.RefreshTokenRepository
	TokenService     service.TokenService
	TokenGenerator   service.OpaqueTokenGenerator
	EventPublisher   service.EventPublisher
	Config           *config.Config
	Logger           *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	refreshTokenTTL := 7 * 24 * time.Hour
	revokedRetention := 30 * 24 * time.Hour
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.RefreshTokenTTL > 0 {
			refreshTokenTTL = params.Config.Auth.RefreshTokenTTL
		}
		if params.Config.Auth.RevokedRetention > 0 {
			revokedRetention = params.Config.Auth.RevokedRetention
		}
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &sessionService{
		txManager:         params.TxManager,
		refreshTokenRepo:  params.RefreshTokenRepo,
		tokenService:      params.TokenService,
		tokenGenerator:    params.TokenGenerator,
		eventPublisher:    params.EventPublisher,
		refreshTokenTTL:   refreshTokenTTL,
		revokedRetention:  revokedRetention,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// IssuePair mints an access token and a fresh refresh token for the account.
// Existing sessions are never touched here: login adds a session, it does not
// replace one.
func (srv *sessionService) IssuePair(ctx context.Context, user *entity.User, ip string) (*usecase.TokenPair, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		srv.log(ctx).Error("Failed to generate access token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshValue, err := srv.tokenGenerator.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token value")
	}

	if err := srv.persistRefreshToken(ctx, user.ID, refreshValue, ip); err != nil {
		srv.log(ctx).Warn("Failed to persist refresh token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Issued token pair", slog.Any("userID", user.ID))

	return &usecase.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
	}, nil
}

func (srv *sessionService) persistRefreshToken(ctx context.Context, userID uuid.UUID, value, ip string) error {
	if srv.maxActiveSessions > 0 {
		// When the session cap is enabled, keep count and insert in one short transaction.
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			refreshRepo := repoFactory.RefreshTokenRepo()

			active, err := refreshRepo.CountActiveByUserID(ctx, userID)
			if err != nil {
				return errors.Wrap(err, "failed to count active sessions")
			}
			if active >= srv.maxActiveSessions {
				return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
			}

			return srv.storeRefreshToken(ctx, refreshRepo, userID, value, ip)
		}); err != nil {
			return errors.Wrap(err, "failed to execute session issue transaction")
		}

		return nil
	}

	// No session cap: direct insert avoids unnecessary transaction overhead.
	return srv.storeRefreshToken(ctx, srv.refreshTokenRepo, userID, value, ip)
}

func (srv *sessionService) storeRefreshToken(ctx context.Context, refreshRepo repository.RefreshTokenRepository, userID uuid.UUID, value, ip string) error {
	newRefreshToken := &entity.RefreshToken{
		UserID:      userID,
		Token:       value,
		CreatedByIP: ip,
		ExpiresAt:   time.Now().Add(srv.refreshTokenTTL),
	}

	if err := refreshRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}

// Refresh exchanges a presented refresh token for a new pair. Rotation is
// strict one-time-use: the presented token is burned by a conditional update
// before the new pair exists, so of two concurrent redeems exactly one
// succeeds and the loser sees the token as already revoked.
func (srv *sessionService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	srv.log(ctx).Info("Attempting to rotate refresh token")

	record, err := srv.refreshTokenRepo.FindRefreshTokenByValue(ctx, input.RefreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "presented refresh token is unknown")
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}

	if !record.IsActive(time.Now()) {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenExpired, "presented refresh token is no longer active")
	}

	var output *usecase.RefreshOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		// 1. Resolve the owning account before burning anything. Referential
		// integrity should make this impossible to miss, checked anyway.
		user, err := userRepo.FindByID(ctx, record.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "refresh token references a missing account")
			}

			return errors.Wrap(err, "failed to resolve token owner")
		}

		// 2. Rotate: burn the presented token first. The conditional update
		// is the single authority on whether this token was still active, so
		// a concurrent redeem of the same value loses here.
		if err := refreshRepo.MarkRevoked(ctx, input.RefreshToken, input.IP, entity.RevokeReasonRotated); err != nil {
			if errors.Is(err, repository.ErrRefreshTokenInactive) {
				return errors.Wrap(domainerrors.ErrRefreshTokenExpired, "refresh token was already redeemed or revoked")
			}

			return errors.Wrap(err, "failed to revoke presented refresh token")
		}

		// 3. Mint the new pair for the same account.
		accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Role)
		if err != nil {
			return errors.Wrap(err, "failed to generate access token")
		}

		newValue, err := srv.tokenGenerator.Generate()
		if err != nil {
			return errors.Wrap(err, "failed to generate replacement refresh token")
		}

		if err := srv.storeRefreshToken(ctx, refreshRepo, user.ID, newValue, input.IP); err != nil {
			return err
		}

		// 4. Record the replacement pointer on the burned record for audit.
		if err := refreshRepo.SetReplacedBy(ctx, input.RefreshToken, newValue); err != nil {
			return errors.Wrap(err, "failed to record replacement pointer")
		}

		output = &usecase.RefreshOutput{
			AccessToken:  accessToken,
			RefreshToken: newValue,
			User:         user,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Refresh token rotation failed", slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Refresh token rotated", slog.Any("userID", output.User.ID))

	return output, nil
}

// Logout revokes the presented token with reason "user logout". The failure
// kinds here are real, but the HTTP handler reports success for all of them
// since the end state (no usable session) is identical for the client.
func (srv *sessionService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	record, err := srv.refreshTokenRepo.FindRefreshTokenByValue(ctx, input.RefreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return errors.Wrap(domainerrors.ErrRefreshTokenNotFound, "logout token is unknown")
		}

		return errors.Wrap(err, "failed to look up refresh token")
	}

	if !record.IsActive(time.Now()) {
		// Already-revoked metadata stays untouched; revocation is one-way.
		return errors.Wrap(domainerrors.ErrRefreshTokenExpired, "logout token is already inactive")
	}

	if err := srv.refreshTokenRepo.MarkRevoked(ctx, input.RefreshToken, input.IP, entity.RevokeReasonLogout); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenInactive) {
			return errors.Wrap(domainerrors.ErrRefreshTokenExpired, "logout token is already inactive")
		}

		return errors.Wrap(err, "failed to revoke refresh token")
	}

	srv.log(ctx).Info("Successfully logged out", slog.Any("userID", record.UserID))

	return nil
}

// GetActiveSessions lists the account's currently active sessions, newest first.
func (srv *sessionService) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.SessionInfo, error) {
	srv.log(ctx).Debug("Getting active sessions", slog.Any("userID", userID))

	records, err := srv.refreshTokenRepo.FindRefreshTokensByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to get active sessions", slog.Any("error", err), slog.Any("userID", userID))

		return nil, errors.Wrap(err, "failed to get active sessions")
	}

	now := time.Now()
	sessions := make([]*entity.SessionInfo, 0, len(records))
	for _, record := range records {
		if !record.IsActive(now) {
			continue
		}
		sessions = append(sessions, &entity.SessionInfo{
			ID:          record.ID,
			UserID:      record.UserID,
			CreatedByIP: record.CreatedByIP,
			CreatedAt:   record.CreatedAt,
			ExpiresAt:   record.ExpiresAt,
			IsActive:    true,
		})
	}

	return sessions, nil
}

// RevokeSession revokes a single session after verifying ownership.
func (srv *sessionService) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID, ip string) error {
	srv.log(ctx).Info("Attempting to revoke session", slog.Any("userID", userID), slog.Any("sessionID", sessionID))

	record, err := srv.refreshTokenRepo.FindRefreshTokenByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return errors.Wrap(domainerrors.ErrRefreshTokenNotFound, "session not found")
		}

		return errors.Wrap(err, "failed to find session")
	}

	if record.UserID != userID {
		return errors.Wrap(domainerrors.ErrSessionOwnershipViolation, "session does not belong to user")
	}

	if err := srv.refreshTokenRepo.MarkRevoked(ctx, record.Token, ip, entity.RevokeReasonLogout); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenInactive) {
			return errors.Wrap(domainerrors.ErrRefreshTokenExpired, "session is already inactive")
		}

		return errors.Wrap(err, "failed to revoke session")
	}

	srv.log(ctx).Info("Successfully revoked session", slog.Any("userID", userID), slog.Any("sessionID", sessionID))

	return nil
}

// RevokeAllSessions burns every active session for the account, used after a
// password reset so a stolen refresh token cannot outlive the old password.
func (srv *sessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID, ip string) (int64, error) {
	srv.log(ctx).Info("Revoking all sessions", slog.Any("userID", userID))

	count, err := srv.refreshTokenRepo.RevokeAllByUserID(ctx, userID, ip)
	if err != nil {
		srv.log(ctx).Error("Failed to revoke all sessions", slog.Any("error", err), slog.Any("userID", userID))

		return 0, errors.Wrap(err, "failed to revoke all sessions")
	}

	srv.publishSecurityEvent(ctx, service.SecurityEvent{
		Kind:       "session.bulk_revocation",
		UserID:     userID,
		IP:         ip,
		Detail:     "all active sessions revoked",
		OccurredAt: time.Now(),
	})

	srv.log(ctx).Info("Revoked all sessions", slog.Any("userID", userID), slog.Int64("count", count))

	return count, nil
}

// PurgeStaleSessions deletes records that can no longer influence any auth
// decision: expired ones and revoked ones past the retention window.
func (srv *sessionService) PurgeStaleSessions(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-srv.revokedRetention)

	count, err := srv.refreshTokenRepo.DeleteStale(ctx, cutoff)
	if err != nil {
		srv.log(ctx).Error("Failed to purge stale sessions", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to purge stale sessions")
	}

	if count > 0 {
		srv.log(ctx).Info("Purged stale sessions", slog.Int64("count", count))
	}

	return count, nil
}

// publishSecurityEvent forwards an audit event, best effort.
func (srv *sessionService) publishSecurityEvent(ctx context.Context, event service.SecurityEvent) {
	if err := srv.eventPublisher.PublishSecurity(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish security event", slog.String("kind", event.Kind), slog.Any("error", err))
	}
}
