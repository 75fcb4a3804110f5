package auth

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"

	"roam/internal/domain/service"
)

// opaqueTokenBytes is the entropy per token. 32 bytes gives 256 bits, which
// makes guessing infeasible without any server-side signing.
const opaqueTokenBytes = 32

// randomTokenGenerator mints opaque tokens from the OS entropy source.
type randomTokenGenerator struct{}

// NewRandomTokenGenerator is the constructor for randomTokenGenerator.
func NewRandomTokenGenerator() service.OpaqueTokenGenerator {
	return &randomTokenGenerator{}
}

// Generate returns a fresh URL-safe token carrying 256 bits of entropy.
func (g *randomTokenGenerator) Generate() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
