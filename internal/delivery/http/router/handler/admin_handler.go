package handler

import (
	"log/slog"
	"net/http"

	"roam/internal/delivery/http/response"
	"roam/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds back-office operations gated behind elevated roles.
type AdminHandler struct {
	userUsecase    usecase.UserUsecase
	sessionUsecase usecase.SessionUsecase
	logger         *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(userUsecase usecase.UserUsecase, sessionUsecase usecase.SessionUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		userUsecase:    userUsecase,
		sessionUsecase: sessionUsecase,
		logger:         logger,
	}
}

// SuspendUser deactivates an account and revokes all of its sessions.
func (h *AdminHandler) SuspendUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	if err := h.userUsecase.SuspendUser(c.Request().Context(), userID, c.RealIP()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Account suspended"}, "Account suspended successfully")
}

// PurgeStaleSessions triggers the maintenance sweep on demand. The periodic
// worker runs the same operation on a schedule.
func (h *AdminHandler) PurgeStaleSessions(c echo.Context) error {
	purged, err := h.sessionUsecase.PurgeStaleSessions(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	h.logger.Info("Manual session purge completed", slog.Int64("purged", purged))

	return response.Success(c, http.StatusOK, map[string]int64{"purged": purged}, "Stale sessions purged")
}
