package impl

import (
	"context"
	"log/slog"
	"net/url"
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

// userService implements the UserUsecase interface.
type userService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	sessionUsecase usecase.SessionUsecase
	hasher         service.PasswordHasher
	tokenGenerator service.OpaqueTokenGenerator
	eventPublisher service.EventPublisher
	qrcodeService  service.QRCodeService
	authCfg        config.AuthConfig
	mailCfg        config.MailConfig
	logger         *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	SessionUsecase usecase.SessionUsecase
	Hasher         service.PasswordHasher
	TokenGenerator service.OpaqueTokenGenerator
	EventPublisher service.EventPublisher
	QRCodeService  service.QRCodeService
	Config         *config.Config
	Logger         *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	authCfg := config.AuthConfig{
		VerificationTokenTTL: 24 * time.Hour,
		ResetTokenTTL:        time.Hour,
	}
	if params.Config != nil && params.Config.Auth != nil {
		authCfg = *params.Config.Auth
	}

	mailCfg := config.MailConfig{}
	if params.Config != nil && params.Config.Mail != nil {
		mailCfg = *params.Config.Mail
	}

	return &userService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		sessionUsecase: params.SessionUsecase,
		hasher:         params.Hasher,
		tokenGenerator: params.TokenGenerator,
		eventPublisher: params.EventPublisher,
		qrcodeService:  params.QRCodeService,
		authCfg:        authCfg,
		mailCfg:        mailCfg,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser creates an unverified account and requests a verification mail.
// Mail dispatch is best effort: a failed send never undoes the created record.
func (srv *userService) RegisterUser(ctx context.Context, input usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	role := input.Role
	if role == "" {
		role = entity.RoleClient
	}
	if !role.Valid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown role")
	}

	// Password work happens outside the transaction, bcrypt is CPU-bound.
	if err := srv.hasher.ValidateStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordStrength, err.Error())
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	verificationToken, err := srv.tokenGenerator.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate verification token")
	}
	verificationExpiry := time.Now().Add(srv.authCfg.VerificationTokenTTL)

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check existing email")
		}

		newUser := &entity.User{
			Email:                 input.Email,
			Name:                  input.Name,
			Role:                  role,
			PasswordHash:          hashedPassword,
			IsActive:              true,
			VerificationToken:     &verificationToken,
			VerificationExpiresAt: &verificationExpiry,
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		registeredUser = newUser

		return nil
	})

	if err != nil {
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			// A courtesy note to the existing address, so the legitimate owner
			// learns someone tried to re-register it.
			srv.publishMail(ctx, service.MailEvent{
				Kind:       service.MailKindAlreadyExists,
				To:         input.Email,
				OccurredAt: time.Now(),
			})
		}
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.publishMail(ctx, srv.buildActionMail(ctx, service.MailKindVerification,
		registeredUser, srv.mailCfg.VerifyBaseURL, verificationToken))

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// VerifyEmail consumes a single-use verification token and, on success, logs
// the account in by issuing its first token pair.
func (srv *userService) VerifyEmail(ctx context.Context, input usecase.VerifyEmailInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Attempting email verification")

	var verifiedUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByVerificationToken(ctx, input.Token)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "verification token is unknown")
			}

			return errors.Wrap(err, "failed to find user by verification token")
		}

		if !user.VerificationTokenActive(input.Token, time.Now()) {
			return errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "verification token has expired")
		}

		user.EmailVerified = true
		user.ClearVerificationToken()

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to mark email verified")
		}

		verifiedUser = user

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Email verification failed", slog.Any("error", err))

		return nil, err
	}

	pair, err := srv.sessionUsecase.IssuePair(ctx, verifiedUser, input.IP)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token pair after verification")
	}

	srv.log(ctx).Info("Email verified", slog.Any("userID", verifiedUser.ID))

	return &usecase.AuthOutput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         verifiedUser,
	}, nil
}

// Login authenticates credentials and issues a token pair. The credential
// failure message never reveals whether the email exists.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.loadUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load login user")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(user.PasswordHash, input.Password) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	// Only after the credential proves account ownership do the specific
	// account-state failures become safe to reveal.
	if !user.EmailVerified {
		return nil, errors.Wrap(domainerrors.ErrEmailNotVerified, "email not verified")
	}
	if !user.CanAuthenticate() {
		return nil, errors.Wrap(domainerrors.ErrAccountSuspended, "account suspended or archived")
	}

	pair, err := srv.sessionUsecase.IssuePair(ctx, user, input.IP)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token pair during login")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

// ForgotPassword starts the recovery flow. The acknowledgement is identical
// whether or not the address exists, so the endpoint cannot be used to probe
// for accounts.
func (srv *userService) ForgotPassword(ctx context.Context, input usecase.ForgotPasswordInput) error {
	srv.log(ctx).Info("Password recovery requested")

	user, err := srv.loadUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Debug("Password recovery for unknown email, acknowledging anyway")

			return nil
		}

		return errors.Wrap(err, "failed to load user for password recovery")
	}

	resetToken, err := srv.tokenGenerator.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}
	resetExpiry := time.Now().Add(srv.authCfg.ResetTokenTTL)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user.ResetToken = &resetToken
		user.ResetExpiresAt = &resetExpiry

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to store reset token")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute password recovery transaction")
	}

	srv.publishMail(ctx, srv.buildActionMail(ctx, service.MailKindPasswordReset,
		user, srv.mailCfg.ResetBaseURL, resetToken))

	return nil
}

// ResetPassword consumes a single-use reset token, replaces the credential
// hash, and bulk-revokes every outstanding session so a stolen refresh token
// cannot outlive the compromised password.
func (srv *userService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	srv.log(ctx).Info("Attempting password reset")

	if err := srv.hasher.ValidateStrength(input.NewPassword); err != nil {
		return errors.Wrap(domainerrors.ErrPasswordStrength, err.Error())
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash new password")
	}

	var resetUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByResetToken(ctx, input.Token)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrResetTokenInvalid, "reset token is unknown")
			}

			return errors.Wrap(err, "failed to find user by reset token")
		}

		if !user.ResetTokenActive(input.Token, time.Now()) {
			return errors.Wrap(domainerrors.ErrResetTokenInvalid, "reset token has expired")
		}

		user.PasswordHash = hashedPassword
		user.ClearResetToken()

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		resetUser = user

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Password reset failed", slog.Any("error", err))

		return err
	}

	// The new password is committed; now invalidate every outstanding session.
	count, err := srv.sessionUsecase.RevokeAllSessions(ctx, resetUser.ID, input.IP)
	if err != nil {
		return errors.Wrap(err, "failed to revoke sessions after password reset")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", resetUser.ID), slog.Int64("sessionsRevoked", count))

	return nil
}

// GetUserByID resolves current account state for the auth gateway.
func (srv *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load user")
	}

	return user, nil
}

// SuspendUser deactivates the account and revokes all of its sessions.
func (srv *userService) SuspendUser(ctx context.Context, userID uuid.UUID, actorIP string) error {
	srv.log(ctx).Info("Suspending account", slog.Any("userID", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
			}

			return errors.Wrap(err, "failed to load user for suspension")
		}

		user.IsActive = false

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to suspend user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to suspend account", slog.Any("userID", userID), slog.Any("error", err))

		return err
	}

	if _, err := srv.sessionUsecase.RevokeAllSessions(ctx, userID, actorIP); err != nil {
		return errors.Wrap(err, "failed to revoke sessions after suspension")
	}

	return nil
}

// loadUserByEmail reads the account from the primary in a short transaction
// to avoid stale reads on replicas.
func (srv *userService) loadUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user *entity.User

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var findErr error
		user, findErr = userRepo.FindByEmail(ctx, email)

		return findErr
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// buildActionMail assembles a verification or reset mail event carrying the
// action link and a QR rendering of it. Sender settings come from injected
// config, never ambient state.
func (srv *userService) buildActionMail(ctx context.Context, kind string, user *entity.User, baseURL, token string) service.MailEvent {
	actionURL := baseURL
	if parsed, err := url.Parse(baseURL); err == nil {
		query := parsed.Query()
		query.Set("token", token)
		parsed.RawQuery = query.Encode()
		actionURL = parsed.String()
	}

	event := service.MailEvent{
		Kind:       kind,
		To:         user.Email,
		From:       srv.mailCfg.FromAddress,
		ReplyTo:    srv.mailCfg.ReplyToDepartment,
		UserName:   user.Name,
		ActionURL:  actionURL,
		OccurredAt: time.Now(),
	}

	qrPNG, err := srv.qrcodeService.GeneratePNG(actionURL, 0)
	if err != nil {
		srv.log(ctx).Warn("Failed to render action link QR code", slog.String("kind", kind), slog.Any("error", err))
	} else {
		event.QRCodePNG = qrPNG
	}

	return event
}

// publishMail forwards a mail event, best effort. A failed dispatch is
// logged and never fails the auth operation that produced it.
func (srv *userService) publishMail(ctx context.Context, event service.MailEvent) {
	if err := srv.eventPublisher.PublishMail(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish mail event", slog.String("kind", event.Kind), slog.Any("error", err))
	}
}
