package app

import (
	"log/slog"

	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/app/audio"
	appconfig "minutes-whisper/internal/app/config"
	"minutes-whisper/internal/app/converter"
	apperrors "minutes-whisper/internal/app/errors"
	"minutes-whisper/internal/config"
	"minutes-whisper/internal/metrics"

	// Provider creators register themselves on import
	_ "minutes-whisper/internal/app/api/gemini"
	_ "minutes-whisper/internal/app/api/openai/whisper"
	_ "minutes-whisper/internal/app/api/whisper_cpp"
	_ "minutes-whisper/internal/app/api/whisper_server"
)

// Application is the wired object graph shared by the HTTP server and the CLI
type Application struct {
	Settings  *config.Settings
	Logger    *slog.Logger
	Converter *converter.Converter
	Registry  *provider.DefaultProviderRegistry
	Stats     *provider.DefaultProviderMetrics
	Metrics   *metrics.Metrics
}

// provideProvidersConfig reads the YAML provider file when one is configured,
// otherwise derives a single provider from the environment
func provideProvidersConfig(settings *config.Settings) (*appconfig.ProvidersConfig, error) {
	if settings.ProvidersConfig != "" {
		cfg, err := appconfig.LoadProvidersConfig(settings.ProvidersConfig)
		if err != nil {
			return nil, apperrors.Model(err)
		}
		return cfg, nil
	}
	return appconfig.FromSettings(settings), nil
}

// provideProviderRegistry builds every enabled provider
func provideProviderRegistry(cfg *appconfig.ProvidersConfig, logger *slog.Logger) (*provider.DefaultProviderRegistry, error) {
	registry, err := appconfig.BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Providers registered",
		"providers", registry.ListProviders(),
		"default", registry.DefaultName(),
	)
	return registry, nil
}

// provideDefaultProvider selects the provider jobs run on
func provideDefaultProvider(registry *provider.DefaultProviderRegistry) (provider.TranscriptionProvider, error) {
	p, err := registry.GetDefaultProvider()
	if err != nil {
		return nil, apperrors.Model(err)
	}
	return p, nil
}

func provideDecoder(settings *config.Settings, logger *slog.Logger) audio.Decoder {
	return audio.NewFFmpegDecoder(settings.FFmpegPath, settings.TempDir, logger)
}

func provideOptions(settings *config.Settings) converter.Options {
	return converter.Options{
		ChunkSeconds: settings.ChunkSeconds,
		Language:     settings.Language,
		FP16:         settings.FP16,
		TempDir:      settings.TempDir,
	}
}
