package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomTokenGenerator_Generate(t *testing.T) {
	generator := NewRandomTokenGenerator()

	token, err := generator.Generate()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// The token must decode back to the full 32 bytes of entropy.
	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, opaqueTokenBytes)
}

func TestRandomTokenGenerator_Uniqueness(t *testing.T) {
	generator := NewRandomTokenGenerator()

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		token, err := generator.Generate()
		require.NoError(t, err)

		_, dup := seen[token]
		require.False(t, dup, "generator produced a duplicate token")
		seen[token] = struct{}{}
	}
}

func TestRandomTokenGenerator_URLSafe(t *testing.T) {
	generator := NewRandomTokenGenerator()

	for range 100 {
		token, err := generator.Generate()
		require.NoError(t, err)
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "=")
	}
}
