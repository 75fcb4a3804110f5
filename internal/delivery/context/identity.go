package context

import (
	"roam/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// KeyIdentity is the key for the authenticated identity attached by the auth
// gateway.
const KeyIdentity ContextKey = "identity"

// Identity is the trusted per-request view of the authenticated account,
// attached after the bearer token and account state have been verified.
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  entity.Role
}

// SetIdentity attaches the verified identity to the request.
func SetIdentity(c echo.Context, identity *Identity) {
	c.Set(string(KeyIdentity), identity)
}

// GetIdentity returns the identity attached by the auth gateway, or nil when
// the request is unauthenticated.
func GetIdentity(c echo.Context) *Identity {
	val := c.Get(string(KeyIdentity))
	if identity, ok := val.(*Identity); ok {
		return identity
	}

	return nil
}
