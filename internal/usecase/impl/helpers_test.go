package impl

import (
	"io"
	"log/slog"
	"time"

	"roam/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:           4,
			MaxActiveSessions:    maxActiveSessions,
			AccessTokenTTL:       time.Hour,
			RefreshTokenTTL:      7 * 24 * time.Hour,
			VerificationTokenTTL: 24 * time.Hour,
			ResetTokenTTL:        time.Hour,
			RevokedRetention:     30 * 24 * time.Hour,
		},
		Mail: &config.MailConfig{
			FromAddress:       "no-reply@roam.example",
			ReplyToDepartment: "support@roam.example",
			VerifyBaseURL:     "https://roam.example/verify",
			ResetBaseURL:      "https://roam.example/reset",
		},
	}

	return cfg
}
