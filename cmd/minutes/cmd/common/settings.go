// Package common holds what every minutes subcommand shares: global flags and settings loading.
package common

import (
	"fmt"
	"log/slog"
	"os"

	"minutes-whisper/internal/config"
)

var (
	Verbose                 bool
	ProviderOverride        string
	ProvidersConfigOverride string
)

// LoadSettings reads settings from the environment, applies the global flags and
// any command specific overrides, then validates the result.
func LoadSettings(overrides ...func(*config.Settings)) (*config.Settings, *slog.Logger, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if ProviderOverride != "" {
		settings.Provider = ProviderOverride
	}
	if ProvidersConfigOverride != "" {
		settings.ProvidersConfig = ProvidersConfigOverride
	}
	if Verbose {
		settings.LogLevel = "debug"
	}
	for _, apply := range overrides {
		apply(settings)
	}

	if err := settings.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger := config.NewLogger(settings.LogLevel, settings.LogFormat, os.Stderr)
	slog.SetDefault(logger)
	return settings, logger, nil
}
