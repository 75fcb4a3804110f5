package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "roam/internal/delivery/context"
	"roam/internal/domain/entity"
	domainerrors "roam/internal/domain/errors"
	"roam/internal/domain/service"
	mockSvc "roam/internal/mocks/service"
	mockUc "roam/internal/mocks/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authMiddlewareFixtures struct {
	middleware     *AuthMiddleware
	tokenService   *mockSvc.MockTokenService
	userUsecase    *mockUc.MockUserUsecase
	eventPublisher *mockSvc.MockEventPublisher
}

func createTestAuthMiddleware(t *testing.T) authMiddlewareFixtures {
	tokenService := mockSvc.NewMockTokenService(t)
	userUsecase := mockUc.NewMockUserUsecase(t)
	eventPublisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return authMiddlewareFixtures{
		middleware:     NewAuthMiddleware(tokenService, userUsecase, eventPublisher, logger),
		tokenService:   tokenService,
		userUsecase:    userUsecase,
		eventPublisher: eventPublisher,
	}
}

func newAuthedContext(authHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec)
}

func passthroughHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	userID := uuid.New()
	user := &entity.User{
		ID:       userID,
		Email:    "test@example.com",
		Name:     "Test User",
		Role:     entity.RoleClient,
		IsActive: true,
	}

	fixtures.tokenService.EXPECT().
		ValidateAccessToken("valid-token").
		Return(&service.AccessClaims{UserID: userID, Role: entity.RoleClient}, nil)
	fixtures.userUsecase.EXPECT().
		GetUserByID(mock.Anything, userID).
		Return(user, nil)

	c := newAuthedContext("Bearer valid-token")
	err := fixtures.middleware.Authenticate(func(c echo.Context) error {
		identity := deliverycontext.GetIdentity(c)
		require.NotNil(t, identity)
		assert.Equal(t, userID, identity.ID)
		assert.Equal(t, entity.RoleClient, identity.Role)

		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
}

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	c := newAuthedContext("")
	err := fixtures.middleware.Authenticate(passthroughHandler)(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
}

func TestAuthMiddleware_Authenticate_NotBearer(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	c := newAuthedContext("Basic dXNlcjpwYXNz")
	err := fixtures.middleware.Authenticate(passthroughHandler)(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccessTokenInvalid))
}

// An expired token and a forged token are distinct failures: the client
// should refresh for the former and re-login for the latter.
func TestAuthMiddleware_Authenticate_ExpiredToken(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	fixtures.tokenService.EXPECT().
		ValidateAccessToken("stale-token").
		Return(nil, service.ErrTokenExpired)

	c := newAuthedContext("Bearer stale-token")
	err := fixtures.middleware.Authenticate(passthroughHandler)(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccessTokenExpired))
	assert.False(t, errors.Is(err, domainerrors.ErrAccessTokenInvalid))
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	fixtures.tokenService.EXPECT().
		ValidateAccessToken("forged-token").
		Return(nil, service.ErrTokenInvalid)

	c := newAuthedContext("Bearer forged-token")
	err := fixtures.middleware.Authenticate(passthroughHandler)(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccessTokenInvalid))
	assert.False(t, errors.Is(err, domainerrors.ErrAccessTokenExpired))
}

func TestAuthMiddleware_Authenticate_MissingAccount(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	userID := uuid.New()

	fixtures.tokenService.EXPECT().
		ValidateAccessToken("orphan-token").
		Return(&service.AccessClaims{UserID: userID, Role: entity.RoleClient}, nil)
	fixtures.userUsecase.EXPECT().
		GetUserByID(mock.Anything, userID).
		Return(nil, errors.Wrap(domainerrors.ErrUserNotFound, "account no longer exists"))

	c := newAuthedContext("Bearer orphan-token")
	err := fixtures.middleware.Authenticate(passthroughHandler)(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
}

// A valid token for a suspended account is rejected with 403, not 401: the
// per-request account re-fetch is what makes suspension immediate.
func TestAuthMiddleware_Authenticate_SuspendedAccount(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	userID := uuid.New()
	user := &entity.User{ID: userID, Role: entity.RoleClient, IsActive: false}

	fixtures.tokenService.EXPECT().
		ValidateAccessToken("valid-token").
		Return(&service.AccessClaims{UserID: userID, Role: entity.RoleClient}, nil)
	fixtures.userUsecase.EXPECT().
		GetUserByID(mock.Anything, userID).
		Return(user, nil)

	c := newAuthedContext("Bearer valid-token")
	err := fixtures.middleware.Authenticate(passthroughHandler)(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountSuspended))
}

func TestAuthMiddleware_RequireRole_Allowed(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	c := newAuthedContext("")
	deliverycontext.SetIdentity(c, &deliverycontext.Identity{
		ID:   uuid.New(),
		Role: entity.RoleAdmin,
	})

	err := fixtures.middleware.RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin)(passthroughHandler)(c)

	require.NoError(t, err)
}

func TestAuthMiddleware_RequireRole_Denied(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	fixtures.eventPublisher.EXPECT().
		PublishSecurity(mock.Anything, mock.AnythingOfType("service.SecurityEvent")).
		Run(func(ctx context.Context, event service.SecurityEvent) {
			assert.Equal(t, "authz.role_denied", event.Kind)
			assert.Equal(t, http.MethodGet+" /sessions", event.Detail)
		}).
		Return(nil)

	c := newAuthedContext("")
	deliverycontext.SetIdentity(c, &deliverycontext.Identity{
		ID:   uuid.New(),
		Role: entity.RoleClient,
	})

	err := fixtures.middleware.RequireRole(entity.RoleAdmin)(passthroughHandler)(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestAuthMiddleware_OptionalAuth_Anonymous(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	c := newAuthedContext("")
	err := fixtures.middleware.OptionalAuth(func(c echo.Context) error {
		assert.Nil(t, deliverycontext.GetIdentity(c))

		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
}

func TestAuthMiddleware_OptionalAuth_ValidToken(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com", Role: entity.RoleClient, IsActive: true}

	fixtures.tokenService.EXPECT().
		ValidateAccessToken("valid-token").
		Return(&service.AccessClaims{UserID: userID, Role: entity.RoleClient}, nil)
	fixtures.userUsecase.EXPECT().
		GetUserByID(mock.Anything, userID).
		Return(user, nil)

	c := newAuthedContext("Bearer valid-token")
	err := fixtures.middleware.OptionalAuth(func(c echo.Context) error {
		identity := deliverycontext.GetIdentity(c)
		require.NotNil(t, identity)
		assert.Equal(t, userID, identity.ID)

		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
}

// A bad token on an optional-auth route never blocks the request.
func TestAuthMiddleware_OptionalAuth_InvalidTokenIgnored(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	fixtures.tokenService.EXPECT().
		ValidateAccessToken("forged-token").
		Return(nil, service.ErrTokenInvalid)

	c := newAuthedContext("Bearer forged-token")
	err := fixtures.middleware.OptionalAuth(func(c echo.Context) error {
		assert.Nil(t, deliverycontext.GetIdentity(c))

		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
}

func TestAuthMiddleware_RequireRole_NoIdentity(t *testing.T) {
	fixtures := createTestAuthMiddleware(t)

	c := newAuthedContext("")
	err := fixtures.middleware.RequireRole(entity.RoleAdmin)(passthroughHandler)(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
}
