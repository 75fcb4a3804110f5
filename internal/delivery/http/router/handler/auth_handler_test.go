package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roam/internal/delivery/http/validator"
	domainerrors "roam/internal/domain/errors"
	mockUc "roam/internal/mocks/usecase"
	"roam/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authHandlerFixtures struct {
	handler        *AuthHandler
	userUsecase    *mockUc.MockUserUsecase
	sessionUsecase *mockUc.MockSessionUsecase
	echo           *echo.Echo
}

func createTestAuthHandler(t *testing.T) authHandlerFixtures {
	userUsecase := mockUc.NewMockUserUsecase(t)
	sessionUsecase := mockUc.NewMockSessionUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.Validator = validator.New()

	return authHandlerFixtures{
		handler:        NewAuthHandler(userUsecase, sessionUsecase, logger),
		userUsecase:    userUsecase,
		sessionUsecase: sessionUsecase,
		echo:           e,
	}
}

func (fx authHandlerFixtures) postJSON(path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return fx.echo.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

// Logout reports success whether the token was live, already revoked, or
// never existed, so the endpoint cannot be used to probe token state.
func TestAuthHandler_Logout_AlwaysReportsSuccess(t *testing.T) {
	cases := []struct {
		name      string
		logoutErr error
	}{
		{name: "live token revoked", logoutErr: nil},
		{name: "unknown token", logoutErr: errors.Wrap(domainerrors.ErrRefreshTokenNotFound, "refresh token not found")},
		{name: "already inactive", logoutErr: errors.Wrap(domainerrors.ErrRefreshTokenExpired, "refresh token already inactive")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fixtures := createTestAuthHandler(t)

			fixtures.sessionUsecase.EXPECT().
				Logout(mock.Anything, mock.AnythingOfType("usecase.LogoutInput")).
				Return(tc.logoutErr)

			c, rec := fixtures.postJSON("/auth/logout", `{"refresh_token":"some-token"}`)
			err := fixtures.handler.Logout(c)

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)

			body := decodeBody(t, rec)
			assert.Equal(t, true, body["success"])
		})
	}
}

// The forgot-password acknowledgement must be byte-identical for registered
// and unregistered addresses.
func TestAuthHandler_ForgotPassword_IdenticalAcknowledgement(t *testing.T) {
	knownFixtures := createTestAuthHandler(t)
	knownFixtures.userUsecase.EXPECT().
		ForgotPassword(mock.Anything, usecase.ForgotPasswordInput{Email: "known@example.com"}).
		Return(nil)

	c, knownRec := knownFixtures.postJSON("/auth/forgot-password", `{"email":"known@example.com"}`)
	require.NoError(t, knownFixtures.handler.ForgotPassword(c))

	unknownFixtures := createTestAuthHandler(t)
	unknownFixtures.userUsecase.EXPECT().
		ForgotPassword(mock.Anything, usecase.ForgotPasswordInput{Email: "unknown@example.com"}).
		Return(nil)

	c, unknownRec := unknownFixtures.postJSON("/auth/forgot-password", `{"email":"unknown@example.com"}`)
	require.NoError(t, unknownFixtures.handler.ForgotPassword(c))

	assert.Equal(t, http.StatusOK, knownRec.Code)
	assert.Equal(t, knownRec.Code, unknownRec.Code)
	assert.Equal(t, knownRec.Body.String(), unknownRec.Body.String())
}

func TestAuthHandler_Register_Success(t *testing.T) {
	fixtures := createTestAuthHandler(t)

	user := verifiedUserFixture("new@example.com")
	user.EmailVerified = false

	fixtures.userUsecase.EXPECT().
		RegisterUser(mock.Anything, usecase.RegisterUserInput{
			Name:     "New User",
			Email:    "new@example.com",
			Password: "correct horse battery",
		}).
		Return(&usecase.RegisterOutput{User: user}, nil)

	c, rec := fixtures.postJSON("/auth/register", `{"name":"New User","email":"new@example.com","password":"correct horse battery"}`)
	err := fixtures.handler.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "new@example.com", data["email"])
	assert.Equal(t, false, data["email_verified"])

	// Credential material never appears in the payload.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	fixtures := createTestAuthHandler(t)

	c, rec := fixtures.postJSON("/auth/register", `{"name":"New User","email":"not-an-email","password":"correct horse battery"}`)
	err := fixtures.handler.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	fixtures := createTestAuthHandler(t)

	user := verifiedUserFixture("client@example.com")

	fixtures.userUsecase.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("usecase.LoginInput")).
		Return(&usecase.AuthOutput{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			User:         user,
		}, nil)

	c, rec := fixtures.postJSON("/auth/login", `{"email":"client@example.com","password":"correct horse battery"}`)
	err := fixtures.handler.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "access-token", data["access_token"])
	assert.Equal(t, "refresh-token", data["refresh_token"])
}

// Failed logins surface the domain error so the centralized error handler
// renders it; the handler itself writes nothing.
func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	fixtures := createTestAuthHandler(t)

	fixtures.userUsecase.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("usecase.LoginInput")).
		Return(nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch"))

	c, _ := fixtures.postJSON("/auth/login", `{"email":"client@example.com","password":"wrong"}`)
	err := fixtures.handler.Login(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	fixtures := createTestAuthHandler(t)

	user := verifiedUserFixture("client@example.com")

	fixtures.sessionUsecase.EXPECT().
		Refresh(mock.Anything, mock.AnythingOfType("usecase.RefreshInput")).
		Return(&usecase.RefreshOutput{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			User:         user,
		}, nil)

	c, rec := fixtures.postJSON("/auth/refresh", `{"refresh_token":"old-refresh"}`)
	err := fixtures.handler.Refresh(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "new-refresh", data["refresh_token"])
}

func TestAuthHandler_Refresh_ReusedToken(t *testing.T) {
	fixtures := createTestAuthHandler(t)

	fixtures.sessionUsecase.EXPECT().
		Refresh(mock.Anything, mock.AnythingOfType("usecase.RefreshInput")).
		Return(nil, errors.Wrap(domainerrors.ErrRefreshTokenExpired, "refresh token already used"))

	c, _ := fixtures.postJSON("/auth/refresh", `{"refresh_token":"burned-token"}`)
	err := fixtures.handler.Refresh(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenExpired))
}
