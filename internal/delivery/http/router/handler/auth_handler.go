// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"roam/internal/delivery/http/response"
	"roam/internal/domain/entity"
	"roam/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// --- Request DTOs ---

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// --- Response DTOs ---

// accountResponse is the public projection of an account. Credential hashes
// and single-use tokens never leave the server.
type accountResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// authResponse carries a freshly issued token pair.
type authResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Account      accountResponse `json:"account"`
}

func newAccountResponse(user *entity.User) accountResponse {
	return accountResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role.String(),
		EmailVerified: user.EmailVerified,
	}
}

func newAuthResponse(accessToken, refreshToken string, user *entity.User) authResponse {
	return authResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account:      newAccountResponse(user),
	}
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	userUsecase    usecase.UserUsecase
	sessionUsecase usecase.SessionUsecase
	logger         *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(userUsecase usecase.UserUsecase, sessionUsecase usecase.SessionUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userUsecase:    userUsecase,
		sessionUsecase: sessionUsecase,
		logger:         logger,
	}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid registration input")
	}

	output, err := h.userUsecase.RegisterUser(c.Request().Context(), usecase.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newAccountResponse(output.User), "Registration successful, please verify your email")
}

// VerifyEmail redeems the mailed verification token and logs the account in.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid verification input")
	}

	output, err := h.userUsecase.VerifyEmail(c.Request().Context(), usecase.VerifyEmailInput{
		Token: req.Token,
		IP:    c.RealIP(),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAuthResponse(output.AccessToken, output.RefreshToken, output.User), "Email verified successfully")
}

// Login handles the credential login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid login input")
	}

	output, err := h.userUsecase.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.RealIP(),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAuthResponse(output.AccessToken, output.RefreshToken, output.User), "Login successful")
}

// Refresh rotates the presented refresh token for a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid refresh input")
	}

	output, err := h.sessionUsecase.Refresh(c.Request().Context(), usecase.RefreshInput{
		RefreshToken: req.RefreshToken,
		IP:           c.RealIP(),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAuthResponse(output.AccessToken, output.RefreshToken, output.User), "Token refreshed successfully")
}

// Logout revokes the presented refresh token. The response reports success
// regardless of whether the token was found or already inactive, so the
// endpoint cannot be used to probe which tokens exist.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid logout input")
	}

	if err := h.sessionUsecase.Logout(c.Request().Context(), usecase.LogoutInput{
		RefreshToken: req.RefreshToken,
		IP:           c.RealIP(),
	}); err != nil {
		h.logger.Debug("Logout did not revoke a live token", slog.Any("error", err))
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// ForgotPassword starts password recovery. The acknowledgement is identical
// whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid input")
	}

	if err := h.userUsecase.ForgotPassword(c.Request().Context(), usecase.ForgotPasswordInput{
		Email: req.Email,
	}); err != nil {
		// The usecase already absorbs unknown-email, so anything reaching
		// here is an internal fault. Log it, but the acknowledgement must
		// stay identical either way.
		h.logger.Error("Forgot-password flow failed", slog.Any("error", err))
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "If the email is registered, a reset link has been sent"}, "Request accepted")
}

// ResetPassword completes password recovery with the mailed token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid reset input")
	}

	if err := h.userUsecase.ResetPassword(c.Request().Context(), usecase.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
		IP:          c.RealIP(),
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password has been reset, please log in again"}, "Password reset successful")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
