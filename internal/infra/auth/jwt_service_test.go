package auth

import (
	"testing"
	"time"

	"roam/config"
	"roam/internal/domain/entity"
	"roam/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig(accessTTL time.Duration) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{AccessTokenTTL: accessTTL},
	}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := uuid.New()

	token, err := jwtService.GenerateAccessToken(userID, entity.RoleClient)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateAccessToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleClient, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expiry, 5*time.Second)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	// A negative TTL yields a token that is already past its expiry.
	jwtService, err := NewJWTService(newTestJWTConfig(-time.Minute))
	require.NoError(t, err)

	token, err := jwtService.GenerateAccessToken(uuid.New(), entity.RoleAdmin)
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(token)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, service.ErrTokenExpired))
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig(time.Hour))
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken("clearly-not-a-jwt-token-format")
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, service.ErrTokenInvalid))
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestJWTConfig(time.Hour))
	require.NoError(t, err)

	other := newTestJWTConfig(time.Hour)
	other.SecretKey.Access = "a_completely_different_secret_key_for_testing"
	verifier, err := NewJWTService(other)
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken(uuid.New(), entity.RoleClient)
	require.NoError(t, err)

	// A signature mismatch must not look like an expiry problem.
	claims, err := verifier.ValidateAccessToken(token)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, service.ErrTokenInvalid))
	assert.False(t, errors.Is(err, service.ErrTokenExpired))
}

func TestJWTService_TamperedToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig(time.Hour))
	require.NoError(t, err)

	token, err := jwtService.GenerateAccessToken(uuid.New(), entity.RoleClient)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	claims, err := jwtService.ValidateAccessToken(tampered)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, service.ErrTokenInvalid))
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{AccessTokenTTL: time.Hour}}

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt access secret must be provided")
}
