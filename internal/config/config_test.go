package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 60000, cfg.GenerationTimeoutMs)
	assert.Equal(t, 5000, cfg.MaxOutputTokens)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, int64(20971520), cfg.MaxUploadSize)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("TEMPERATURE", "0.7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, 0.7, cfg.Temperature)
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadConfigIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidateBounds(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:                8080,
			MaxUploadSize:       20971520,
			GeminiAPIKey:        "key",
			GeminiModel:         "gemini-2.5-flash",
			GenerationTimeoutMs: 60000,
			MaxOutputTokens:     5000,
			Temperature:         0.3,
		}
	}

	cfg := base()
	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.GenerationTimeoutMs = 100
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Temperature = 3.5
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.MaxUploadSize = 10
	assert.Error(t, cfg.Validate())

	assert.NoError(t, base().Validate())
}
