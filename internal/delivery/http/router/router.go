// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"roam/internal/delivery/http/middleware"
	"roam/internal/delivery/http/router/handler"
	"roam/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	SessionHandler *handler.SessionHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	sessionHandler *handler.SessionHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		sessionHandler: params.SessionHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public auth routes. Refresh and logout authenticate with the refresh
	// token in the body, not with a bearer access token.
	authGroup := e.Group("/auth")
	authGroup.Use(r.authMiddleware.OptionalAuth)
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/verify-email", r.authHandler.VerifyEmail)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
	}

	// Session management for the authenticated account's own devices.
	sessionGroup := e.Group("/sessions")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.GET("", r.sessionHandler.ListSessions)
		sessionGroup.DELETE("/:id", r.sessionHandler.RevokeSession)
		sessionGroup.DELETE("", r.sessionHandler.RevokeAllSessions)
	}

	// Back-office routes require an elevated role on top of authentication.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin))
	{
		adminGroup.POST("/users/:id/suspend", r.adminHandler.SuspendUser)
		adminGroup.POST("/sessions/purge", r.adminHandler.PurgeStaleSessions)
	}
}
