package config

import (
	"testing"
	"time"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"auth": map[string]any{
			"refreshTokenTtl": "168h",
		},
		"mail": map[string]any{
			"fromAddress": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "AUTH_REFRESHTOKENTTL", want: "auth.refreshTokenTtl"},
		{envKey: "MAIL_FROMADDRESS", want: "mail.fromAddress"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyAuthDefaults_FillsLifecycleWindows(t *testing.T) {
	cfg := &Config{}

	applyAuthDefaults(cfg)

	if cfg.Auth == nil {
		t.Fatal("expected Auth config to be initialized")
	}
	if cfg.Auth.AccessTokenTTL != time.Hour {
		t.Fatalf("AccessTokenTTL = %v, want %v", cfg.Auth.AccessTokenTTL, time.Hour)
	}
	if cfg.Auth.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("RefreshTokenTTL = %v, want %v", cfg.Auth.RefreshTokenTTL, 7*24*time.Hour)
	}
	if cfg.Auth.RevokedRetention != 30*24*time.Hour {
		t.Fatalf("RevokedRetention = %v, want %v", cfg.Auth.RevokedRetention, 30*24*time.Hour)
	}
}

func TestApplyAuthDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Auth: &AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}

	applyAuthDefaults(cfg)

	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("AccessTokenTTL = %v, want explicit value preserved", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != 24*time.Hour {
		t.Fatalf("RefreshTokenTTL = %v, want explicit value preserved", cfg.Auth.RefreshTokenTTL)
	}
}
