package middleware

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	deliverycontext "roam/internal/delivery/context"
	"roam/internal/domain/entity"
	domainerrors "roam/internal/domain/errors"
	"roam/internal/domain/service"
	"roam/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware is the auth gateway: it verifies the bearer token, then
// re-fetches the account so suspension and archival take effect immediately
// instead of when the access token expires.
type AuthMiddleware struct {
	tokenSvc       service.TokenService
	userUsecase    usecase.UserUsecase
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userUsecase usecase.UserUsecase, eventPublisher service.EventPublisher, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc:       tokenSvc,
		userUsecase:    userUsecase,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Authenticate validates the bearer access token and attaches the verified
// identity to the request. An expired token and a malformed or forged one
// produce distinct failures so clients know whether to refresh or re-login.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.resolveClaims(c)
		if err != nil {
			return err
		}

		// Stateless verification passed; now check live account state.
		user, err := m.userUsecase.GetUserByID(c.Request().Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUnauthorized, "token references a missing account")
			}

			return errors.Wrap(err, "failed to resolve account for auth gateway")
		}

		if !user.CanAuthenticate() {
			// Deliberately 403, not 401: the credential is genuine, the
			// account is not allowed in.
			return errors.Wrap(domainerrors.ErrAccountSuspended, "account suspended or archived")
		}

		deliverycontext.SetIdentity(c, &deliverycontext.Identity{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		})

		return next(c)
	}
}

// RequireRole allows the request through only when the authenticated identity
// holds one of the given roles. Denials are recorded as security events.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := deliverycontext.GetIdentity(c)
			if identity == nil {
				return errors.Wrap(domainerrors.ErrUnauthorized, "role check requires an authenticated identity")
			}

			if !slices.Contains(roles, identity.Role) {
				m.logger.Warn("Role check denied",
					slog.Any("userID", identity.ID),
					slog.String("role", identity.Role.String()),
					slog.String("path", c.Request().URL.Path),
				)
				m.publishDenied(c, identity)

				return errors.Wrap(domainerrors.ErrForbidden, "insufficient role")
			}

			return next(c)
		}
	}
}

// OptionalAuth attaches the identity when a valid bearer token is presented
// and continues anonymously otherwise. Public endpoints use it so request
// logs and audit events can name the caller when one is known.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.resolveClaims(c)
		if err != nil {
			return next(c)
		}

		user, err := m.userUsecase.GetUserByID(c.Request().Context(), claims.UserID)
		if err != nil || !user.CanAuthenticate() {
			return next(c)
		}

		deliverycontext.SetIdentity(c, &deliverycontext.Identity{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		})

		return next(c)
	}
}

func (m *AuthMiddleware) resolveClaims(c echo.Context) (*service.AccessClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthorized, "authorization header is missing")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errors.Wrap(domainerrors.ErrAccessTokenInvalid, "authorization header is not a bearer token")
	}

	claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrAccessTokenExpired, "access token expired")
		}

		return nil, errors.Wrap(domainerrors.ErrAccessTokenInvalid, "access token invalid")
	}

	return claims, nil
}

// publishDenied forwards the denial to the audit pipeline, best effort.
func (m *AuthMiddleware) publishDenied(c echo.Context, identity *deliverycontext.Identity) {
	event := service.SecurityEvent{
		Kind:       "authz.role_denied",
		UserID:     identity.ID,
		IP:         c.RealIP(),
		Detail:     c.Request().Method + " " + c.Request().URL.Path,
		OccurredAt: time.Now(),
	}
	if err := m.eventPublisher.PublishSecurity(c.Request().Context(), event); err != nil {
		m.logger.Warn("Failed to publish security event", slog.String("kind", event.Kind), slog.Any("error", err))
	}
}
