package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.MultiModel)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.SingleModel)
	assert.Equal(t, 12, cfg.Agent.MaxSteps)
	assert.Equal(t, "https://api.exa.ai", cfg.Tools.ExaBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Tools.HTTPTimeout)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("GEMINI_MODEL_SINGLE", "  gemini-custom  ")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("AGENT_MAX_STEPS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "gemini-custom", cfg.Gemini.SingleModel)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 4, cfg.Agent.MaxSteps)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("AGENT_MAX_STEPS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGENT_MAX_STEPS")
}
