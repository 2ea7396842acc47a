package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MansiJagta/echo-forge-create/platform/config"
)

func validEnv(t *testing.T) {
	t.Helper()

	t.Setenv("TOKEN_SECRET", "a-strong-secret")
	t.Setenv("ELEVENLABS_API_KEY", "xi-key")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
}

func TestLoadConfigDefaults(t *testing.T) {
	validEnv(t)

	cfg := config.LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(15*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, "supabase", cfg.HistoryBackend)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, "uploads/voice_samples", cfg.UploadDir)
	assert.Equal(t, "outputs/generated_speech", cfg.OutputDir)
	assert.False(t, cfg.SniffContent)
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	validEnv(t)
	t.Setenv("TOKEN_SECRET", "")

	cfg := config.LoadConfig()
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsPlaceholderSecret(t *testing.T) {
	validEnv(t)
	t.Setenv("TOKEN_SECRET", "your_secret_key")

	cfg := config.LoadConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestValidateRejectsMissingProviderKey(t *testing.T) {
	validEnv(t)
	t.Setenv("ELEVENLABS_API_KEY", "")

	cfg := config.LoadConfig()
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownBackends(t *testing.T) {
	validEnv(t)
	t.Setenv("HISTORY_BACKEND", "dynamo")

	cfg := config.LoadConfig()
	assert.Error(t, cfg.Validate())

	t.Setenv("HISTORY_BACKEND", "supabase")
	t.Setenv("STORAGE_BACKEND", "s3")

	cfg = config.LoadConfig()
	assert.Error(t, cfg.Validate())
}
