package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "minutes-whisper/internal/app/errors"
	"minutes-whisper/internal/config"
)

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	return &config.Settings{
		Provider:         "whisper_server",
		Language:         "ja",
		ChunkSeconds:     30,
		TempDir:          t.TempDir(),
		FFmpegPath:       "ffmpeg",
		WhisperServerURL: "http://127.0.0.1:8178",
	}
}

func TestInitializeApplication(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := InitializeApplication(testSettings(t), logger)
	require.NoError(t, err)

	assert.Equal(t, "whisper_server", application.Converter.ProviderName())
	assert.Equal(t, []string{"whisper_server"}, application.Registry.ListProviders())
	assert.Equal(t, "whisper_server", application.Registry.DefaultName())
	assert.NotNil(t, application.Metrics.Registry())
	assert.NotNil(t, application.Stats)
}

func TestInitializeApplication_InvalidProviderIsModelError(t *testing.T) {
	settings := testSettings(t)
	settings.WhisperServerURL = ""

	_, err := InitializeApplication(settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindModel, apperrors.KindOf(err))
}

func TestInitializeApplication_ProvidersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	t.Setenv("TEST_WHISPER_URL", "http://10.0.0.2:8080")
	require.NoError(t, os.WriteFile(path, []byte(`
default_provider: remote
providers:
  local:
    type: whisper_server
    enabled: true
    settings:
      base_url: http://127.0.0.1:8178
  remote:
    type: whisper_server
    enabled: true
    settings:
      base_url: ${TEST_WHISPER_URL}
`), 0o644))

	settings := testSettings(t)
	settings.ProvidersConfig = path

	application, err := InitializeApplication(settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, []string{"local", "remote"}, application.Registry.ListProviders())
	assert.Equal(t, "remote", application.Registry.DefaultName())
}
