// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"roam/config"
	"roam/internal/domain/entity"
	"roam/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Only short-lived access tokens are signed here; refresh tokens are opaque
// database-backed values and never pass through this codec.
type jwtService struct {
	accessSecret string        // Secret key for signing access tokens.
	accessTTL    time.Duration // Time-to-live for access tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt access secret must be provided")
	}
	accessTTL := time.Hour
	if cfg.Auth != nil && cfg.Auth.AccessTokenTTL > 0 {
		accessTTL = cfg.Auth.AccessTokenTTL
	}
	return &jwtService{
		accessSecret: cfg.SecretKey.Access,
		accessTTL:    accessTTL,
	}, nil
}

// GenerateAccessToken creates a signed token embedding the user's identity and role.
func (s *jwtService) GenerateAccessToken(userID uuid.UUID, role entity.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),             // Subject (who the token is for)
		"role": role.String(),               // Role snapshot for stateless authorization
		"iat":  now.Unix(),                  // Issued At
		"exp":  now.Add(s.accessTTL).Unix(), // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.accessSecret))
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}
	return signed, nil
}

// ValidateAccessToken checks signature and expiry and extracts the claims.
// An expired-but-authentic token yields ErrTokenExpired; every other failure
// collapses into ErrTokenInvalid so callers leak nothing about the cause.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.AccessClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.accessSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, service.ErrTokenExpired
		}
		return nil, service.ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, service.ErrTokenInvalid
	}
	return extractClaims(mapClaims)
}

// extractClaims converts raw JWT claims into the typed domain payload.
func extractClaims(claims jwt.MapClaims) (*service.AccessClaims, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, service.ErrTokenInvalid
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, service.ErrTokenInvalid
	}

	roleValue, ok := claims["role"].(string)
	if !ok {
		return nil, service.ErrTokenInvalid
	}
	role := entity.Role(roleValue)
	if !role.Valid() {
		return nil, service.ErrTokenInvalid
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return nil, service.ErrTokenInvalid
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return nil, service.ErrTokenInvalid
	}

	return &service.AccessClaims{
		UserID:   userID,
		Role:     role,
		IssuedAt: issuedAt.Time,
		Expiry:   expiry.Time,
	}, nil
}
