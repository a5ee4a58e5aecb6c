package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutes-whisper/internal/config"
)

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		Verbose = false
		ProviderOverride = ""
		ProvidersConfigOverride = ""
	})
}

func TestLoadSettings_Overrides(t *testing.T) {
	resetFlags(t)
	t.Setenv("MINUTES_PROVIDER", "whisper_cpp")
	t.Setenv("WHISPER_SERVER_URL", "http://localhost:8080")

	ProviderOverride = "whisper_server"
	Verbose = true

	settings, logger, err := LoadSettings(func(s *config.Settings) { s.Port = "9000" })
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.Equal(t, "whisper_server", settings.Provider)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, "9000", settings.Port)
}

func TestLoadSettings_Invalid(t *testing.T) {
	resetFlags(t)
	t.Setenv("WHISPER_SERVER_URL", "http://localhost:8080")
	ProviderOverride = "whisper_server"

	_, _, err := LoadSettings(func(s *config.Settings) { s.Port = "not-a-port" })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid settings")
}

func TestLoadSettings_BadEnvironment(t *testing.T) {
	resetFlags(t)
	t.Setenv("MINUTES_CHUNK_SECONDS", "thirty")

	_, _, err := LoadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MINUTES_CHUNK_SECONDS")
}
