package impl

import (
	"context"
	"testing"
	"time"

	"roam/internal/domain/entity"
	domainerrors "roam/internal/domain/errors"
	"roam/internal/domain/repository"
	"roam/internal/domain/service"
	mockRepo "roam/internal/mocks/repository"
	mockSvc "roam/internal/mocks/service"
	mockUc "roam/internal/mocks/usecase"
	"roam/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service        usecase.UserUsecase
	txManager      *mockRepo.MockTransactionManager
	userRepo       *mockRepo.MockUserRepository
	sessionUsecase *mockUc.MockSessionUsecase
	hasher         *mockSvc.MockPasswordHasher
	tokenGenerator *mockSvc.MockOpaqueTokenGenerator
	eventPublisher *mockSvc.MockEventPublisher
	qrcodeService  *mockSvc.MockQRCodeService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	sessionUsecase := mockUc.NewMockSessionUsecase(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenGenerator := mockSvc.NewMockOpaqueTokenGenerator(t)
	eventPublisher := mockSvc.NewMockEventPublisher(t)
	qrcodeService := mockSvc.NewMockQRCodeService(t)

	service := NewUserService(UserServiceParams{
		TxManager:      txManager,
		UserRepo:       userRepo,
		SessionUsecase: sessionUsecase,
		Hasher:         hasher,
		TokenGenerator: tokenGenerator,
		EventPublisher: eventPublisher,
		QRCodeService:  qrcodeService,
		Config:         newTestConfig(0),
		Logger:         newDiscardLogger(),
	})

	return userServiceFixtures{
		service:        service,
		txManager:      txManager,
		userRepo:       userRepo,
		sessionUsecase: sessionUsecase,
		hasher:         hasher,
		tokenGenerator: tokenGenerator,
		eventPublisher: eventPublisher,
		qrcodeService:  qrcodeService,
	}
}

func TestUserService_RegisterUser_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RegisterUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().ValidateStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.tokenGenerator.EXPECT().Generate().Return("verification-token", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrUserNotFound)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					user.ID = uuid.New()
					assert.Equal(t, entity.RoleClient, user.Role)
					assert.Equal(t, "hashed_password", user.PasswordHash)
					assert.False(t, user.EmailVerified)
					require.NotNil(t, user.VerificationToken)
					assert.Equal(t, "verification-token", *user.VerificationToken)
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.qrcodeService.EXPECT().
		GeneratePNG("https://roam.example/verify?token=verification-token", 0).
		Return([]byte{0x89, 0x50}, nil)
	fx.eventPublisher.EXPECT().
		PublishMail(ctx, mock.AnythingOfType("service.MailEvent")).
		Run(func(ctx context.Context, event service.MailEvent) {
			assert.Equal(t, service.MailKindVerification, event.Kind)
			assert.Equal(t, input.Email, event.To)
			assert.Equal(t, "no-reply@roam.example", event.From)
			assert.Contains(t, event.ActionURL, "token=verification-token")
			assert.NotEmpty(t, event.QRCodePNG)
		}).
		Return(nil)

	output, err := fx.service.RegisterUser(ctx, input)

	require.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, input.Email, output.User.Email)
}

func TestUserService_RegisterUser_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RegisterUserInput{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().ValidateStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.tokenGenerator.EXPECT().Generate().Return("verification-token", nil)

	existing := &entity.User{ID: uuid.New(), Email: input.Email}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, input.Email).Return(existing, nil)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered"))

	// The existing address still gets a courtesy note.
	fx.eventPublisher.EXPECT().
		PublishMail(ctx, mock.AnythingOfType("service.MailEvent")).
		Run(func(ctx context.Context, event service.MailEvent) {
			assert.Equal(t, service.MailKindAlreadyExists, event.Kind)
			assert.Equal(t, input.Email, event.To)
		}).
		Return(nil)

	output, err := fx.service.RegisterUser(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserService_RegisterUser_WeakPassword(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RegisterUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "short",
	}

	fx.hasher.EXPECT().
		ValidateStrength(input.Password).
		Return(errors.Wrap(service.ErrPasswordTooWeak, "password must be at least 8 characters long"))

	output, err := fx.service.RegisterUser(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
}

func TestUserService_RegisterUser_UnknownRole(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RegisterUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
		Role:     entity.Role("superuser"),
	}

	output, err := fx.service.RegisterUser(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestUserService_VerifyEmail_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	token := "verification-token"
	expiry := time.Now().Add(time.Hour)
	user := &entity.User{
		ID:                    uuid.New(),
		Email:                 "test@example.com",
		Role:                  entity.RoleClient,
		IsActive:              true,
		VerificationToken:     &token,
		VerificationExpiresAt: &expiry,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByVerificationToken(ctx, token).Return(user, nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, updated *entity.User) {
					assert.True(t, updated.EmailVerified)
					assert.Nil(t, updated.VerificationToken)
					assert.Nil(t, updated.VerificationExpiresAt)
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.sessionUsecase.EXPECT().
		IssuePair(ctx, user, "203.0.113.7").
		Return(&usecase.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil)

	output, err := fx.service.VerifyEmail(ctx, usecase.VerifyEmailInput{Token: token, IP: "203.0.113.7"})

	require.NoError(t, err)
	assert.Equal(t, "access", output.AccessToken)
	assert.Equal(t, "refresh", output.RefreshToken)
	assert.Equal(t, user.ID, output.User.ID)
}

func TestUserService_VerifyEmail_UnknownToken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().
				FindByVerificationToken(ctx, "forged").
				Return(nil, repository.ErrUserNotFound)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "verification token is unknown"))

	output, err := fx.service.VerifyEmail(ctx, usecase.VerifyEmailInput{Token: "forged", IP: "203.0.113.7"})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrVerificationTokenInvalid))
}

func TestUserService_VerifyEmail_ExpiredToken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	token := "stale-token"
	expiry := time.Now().Add(-time.Hour)
	user := &entity.User{
		ID:                    uuid.New(),
		IsActive:              true,
		VerificationToken:     &token,
		VerificationExpiresAt: &expiry,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByVerificationToken(ctx, token).Return(user, nil)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "verification token has expired"))

	output, err := fx.service.VerifyEmail(ctx, usecase.VerifyEmailInput{Token: token, IP: "203.0.113.7"})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrVerificationTokenInvalid))
}

func verifiedUser(email string) *entity.User {
	return &entity.User{
		ID:            uuid.New(),
		Email:         email,
		Role:          entity.RoleClient,
		PasswordHash:  "stored_hash",
		IsActive:      true,
		EmailVerified: true,
	}
}

func expectLoadUserByEmail(t *testing.T, fx userServiceFixtures, ctx context.Context, email string, user *entity.User, findErr error) {
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, email).Return(user, findErr)

			_ = fn(mockFactory)
		}).
		Return(findErr).
		Once()
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := verifiedUser("test@example.com")
	input := usecase.LoginInput{Email: user.Email, Password: "Password123!", IP: "203.0.113.7"}

	expectLoadUserByEmail(t, fx, ctx, user.Email, user, nil)
	fx.hasher.EXPECT().Check(user.PasswordHash, input.Password).Return(true)
	fx.sessionUsecase.EXPECT().
		IssuePair(ctx, user, input.IP).
		Return(&usecase.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "access", output.AccessToken)
	assert.Equal(t, user.ID, output.User.ID)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "ghost@example.com", Password: "whatever", IP: "203.0.113.7"}

	expectLoadUserByEmail(t, fx, ctx, input.Email, nil, repository.ErrUserNotFound)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := verifiedUser("test@example.com")
	input := usecase.LoginInput{Email: user.Email, Password: "wrong", IP: "203.0.113.7"}

	expectLoadUserByEmail(t, fx, ctx, user.Email, user, nil)
	fx.hasher.EXPECT().Check(user.PasswordHash, input.Password).Return(false)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_EmailNotVerified(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := verifiedUser("test@example.com")
	user.EmailVerified = false
	input := usecase.LoginInput{Email: user.Email, Password: "Password123!", IP: "203.0.113.7"}

	expectLoadUserByEmail(t, fx, ctx, user.Email, user, nil)
	fx.hasher.EXPECT().Check(user.PasswordHash, input.Password).Return(true)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailNotVerified))
}

func TestUserService_Login_AccountSuspended(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := verifiedUser("test@example.com")
	user.IsActive = false
	input := usecase.LoginInput{Email: user.Email, Password: "Password123!", IP: "203.0.113.7"}

	expectLoadUserByEmail(t, fx, ctx, user.Email, user, nil)
	fx.hasher.EXPECT().Check(user.PasswordHash, input.Password).Return(true)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountSuspended))
}

// An unknown address gets the same silent acknowledgement as a known one.
func TestUserService_ForgotPassword_UnknownEmailAcknowledged(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	expectLoadUserByEmail(t, fx, ctx, "ghost@example.com", nil, repository.ErrUserNotFound)

	err := fx.service.ForgotPassword(ctx, usecase.ForgotPasswordInput{Email: "ghost@example.com"})

	require.NoError(t, err)
}

func TestUserService_ForgotPassword_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := verifiedUser("test@example.com")

	expectLoadUserByEmail(t, fx, ctx, user.Email, user, nil)
	fx.tokenGenerator.EXPECT().Generate().Return("reset-token", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, updated *entity.User) {
					require.NotNil(t, updated.ResetToken)
					assert.Equal(t, "reset-token", *updated.ResetToken)
					assert.True(t, updated.ResetExpiresAt.After(time.Now()))
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil).
		Once()

	fx.qrcodeService.EXPECT().
		GeneratePNG("https://roam.example/reset?token=reset-token", 0).
		Return([]byte{0x89, 0x50}, nil)
	fx.eventPublisher.EXPECT().
		PublishMail(ctx, mock.AnythingOfType("service.MailEvent")).
		Run(func(ctx context.Context, event service.MailEvent) {
			assert.Equal(t, service.MailKindPasswordReset, event.Kind)
			assert.Equal(t, user.Email, event.To)
		}).
		Return(nil)

	err := fx.service.ForgotPassword(ctx, usecase.ForgotPasswordInput{Email: user.Email})

	require.NoError(t, err)
}

func TestUserService_ResetPassword_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	token := "reset-token"
	expiry := time.Now().Add(time.Hour)
	user := verifiedUser("test@example.com")
	user.ResetToken = &token
	user.ResetExpiresAt = &expiry

	fx.hasher.EXPECT().ValidateStrength("NewPassword123!").Return(nil)
	fx.hasher.EXPECT().Hash("NewPassword123!").Return("new_hash", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByResetToken(ctx, token).Return(user, nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, updated *entity.User) {
					assert.Equal(t, "new_hash", updated.PasswordHash)
					assert.Nil(t, updated.ResetToken)
					assert.Nil(t, updated.ResetExpiresAt)
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.sessionUsecase.EXPECT().
		RevokeAllSessions(ctx, user.ID, "203.0.113.7").
		Return(int64(2), nil)

	err := fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
		Token:       token,
		NewPassword: "NewPassword123!",
		IP:          "203.0.113.7",
	})

	require.NoError(t, err)
}

func TestUserService_ResetPassword_UnknownToken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.hasher.EXPECT().ValidateStrength("NewPassword123!").Return(nil)
	fx.hasher.EXPECT().Hash("NewPassword123!").Return("new_hash", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().
				FindByResetToken(ctx, "forged").
				Return(nil, repository.ErrUserNotFound)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrResetTokenInvalid, "reset token is unknown"))

	err := fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
		Token:       "forged",
		NewPassword: "NewPassword123!",
		IP:          "203.0.113.7",
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrResetTokenInvalid))
}

func TestUserService_ResetPassword_ExpiredToken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	token := "stale-reset"
	expiry := time.Now().Add(-time.Minute)
	user := verifiedUser("test@example.com")
	user.ResetToken = &token
	user.ResetExpiresAt = &expiry

	fx.hasher.EXPECT().ValidateStrength("NewPassword123!").Return(nil)
	fx.hasher.EXPECT().Hash("NewPassword123!").Return("new_hash", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByResetToken(ctx, token).Return(user, nil)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrResetTokenInvalid, "reset token has expired"))

	err := fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
		Token:       token,
		NewPassword: "NewPassword123!",
		IP:          "203.0.113.7",
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrResetTokenInvalid))
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)

	user, err := fx.service.GetUserByID(ctx, userID)

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_SuspendUser_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := verifiedUser("test@example.com")

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, updated *entity.User) {
					assert.False(t, updated.IsActive)
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.sessionUsecase.EXPECT().
		RevokeAllSessions(ctx, user.ID, "203.0.113.7").
		Return(int64(1), nil)

	err := fx.service.SuspendUser(ctx, user.ID, "203.0.113.7")

	require.NoError(t, err)
}
