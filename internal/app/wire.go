//go:build wireinject
// +build wireinject

package app

import (
	"log/slog"

	"github.com/google/wire"

	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/app/converter"
	"minutes-whisper/internal/config"
	"minutes-whisper/internal/metrics"
)

var providerSet = wire.NewSet(
	provideProvidersConfig,
	provideProviderRegistry,
	provideDefaultProvider,
	provideDecoder,
	provideOptions,
	provider.NewProviderMetrics,
	wire.Bind(new(provider.ProviderMetrics), new(*provider.DefaultProviderMetrics)),
	metrics.NewMetrics,
	converter.NewConverter,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication wires the provider registry, the converter and the metrics from settings
func InitializeApplication(settings *config.Settings, logger *slog.Logger) (*Application, error) {
	wire.Build(providerSet)
	return &Application{}, nil
}
