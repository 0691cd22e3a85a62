package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"decorize-backend/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-google-key")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_JWT_SECRET", "test-jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.GeminiAPIBaseURL)
	assert.Equal(t, "room-images", cfg.SupabaseStorageBucket)
	assert.Equal(t, 2*time.Second, cfg.StatusPollInterval)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoad_PollIntervalOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STATUS_POLL_INTERVAL", "500ms")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.StatusPollInterval)
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STATUS_POLL_INTERVAL", "soon")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATUS_POLL_INTERVAL")
}

func TestValidate_MissingRequired(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"missing google key", config.Config{SupabaseURL: "u", SupabaseJWTSecret: "s", StatusPollInterval: time.Second}, "GOOGLE_API_KEY"},
		{"missing supabase url", config.Config{GeminiAPIKey: "k", SupabaseJWTSecret: "s", StatusPollInterval: time.Second}, "SUPABASE_URL"},
		{"missing jwt secret", config.Config{GeminiAPIKey: "k", SupabaseURL: "u", StatusPollInterval: time.Second}, "SUPABASE_JWT_SECRET"},
		{"non-positive interval", config.Config{GeminiAPIKey: "k", SupabaseURL: "u", SupabaseJWTSecret: "s"}, "STATUS_POLL_INTERVAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
