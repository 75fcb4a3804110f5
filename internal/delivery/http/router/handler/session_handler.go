package handler

import (
	"log/slog"
	"net/http"
	"time"

	deliverycontext "roam/internal/delivery/context"
	"roam/internal/delivery/http/response"
	"roam/internal/domain/entity"
	"roam/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// sessionResponse is the device-list projection of an active session.
type sessionResponse struct {
	ID          string    `json:"id"`
	CreatedByIP string    `json:"created_by_ip"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newSessionResponses(sessions []*entity.SessionInfo) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			ID:          s.ID.String(),
			CreatedByIP: s.CreatedByIP,
			CreatedAt:   s.CreatedAt,
			ExpiresAt:   s.ExpiresAt,
		})
	}

	return out
}

// SessionHandler exposes the authenticated account's own session list.
type SessionHandler struct {
	sessionUsecase usecase.SessionUsecase
	logger         *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(sessionUsecase usecase.SessionUsecase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUsecase: sessionUsecase,
		logger:         logger,
	}
}

// ListSessions returns the caller's active sessions.
func (h *SessionHandler) ListSessions(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	sessions, err := h.sessionUsecase.GetActiveSessions(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newSessionResponses(sessions), "Active sessions retrieved")
}

// RevokeSession revokes one of the caller's sessions by ID. A session ID
// belonging to another account is reported as not found.
func (h *SessionHandler) RevokeSession(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid session ID")
	}

	if err := h.sessionUsecase.RevokeSession(c.Request().Context(), identity.ID, sessionID, c.RealIP()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Session revoked"}, "Session revoked successfully")
}

// RevokeAllSessions revokes every active session of the caller, including the
// one behind the current access token.
func (h *SessionHandler) RevokeAllSessions(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	revoked, err := h.sessionUsecase.RevokeAllSessions(c.Request().Context(), identity.ID, c.RealIP())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"revoked": revoked}, "All sessions revoked")
}
