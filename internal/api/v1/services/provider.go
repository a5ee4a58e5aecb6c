package services

import (
	"context"
	"time"

	"minutes-whisper/internal/api/errors"
	"minutes-whisper/internal/api/v1/dto"
	"minutes-whisper/internal/app/api/provider"
)

// ProviderServiceImpl implements ProviderService
type ProviderServiceImpl struct {
	registry provider.ProviderRegistry
	stats    provider.ProviderMetrics
}

// NewProviderService creates a new provider service. stats may be nil.
func NewProviderService(registry provider.ProviderRegistry, stats provider.ProviderMetrics) *ProviderServiceImpl {
	return &ProviderServiceImpl{
		registry: registry,
		stats:    stats,
	}
}

// ListProviders lists all registered providers with a fresh health check
func (s *ProviderServiceImpl) ListProviders(ctx context.Context) ([]dto.ProviderResponse, error) {
	names := s.registry.ListProviders()
	health := s.registry.HealthCheckAll(ctx)
	defaultName := s.registry.DefaultName()

	responses := make([]dto.ProviderResponse, 0, len(names))
	for _, name := range names {
		p, err := s.registry.GetProvider(name)
		if err != nil {
			continue
		}
		responses = append(responses, dto.ToProviderResponse(name, p.GetProviderInfo(), healthStatus(health[name]), name == defaultName))
	}

	return responses, nil
}

// GetProvider gets detailed information about a specific provider
func (s *ProviderServiceImpl) GetProvider(ctx context.Context, id string) (*dto.ProviderResponse, error) {
	p, err := s.registry.GetProvider(id)
	if err != nil {
		return nil, errors.NewNotFoundError("provider")
	}

	resp := dto.ToProviderResponse(id, p.GetProviderInfo(), healthStatus(p.HealthCheck(ctx)), id == s.registry.DefaultName())
	return &resp, nil
}

// GetProviderStatus gets the health status of a provider
func (s *ProviderServiceImpl) GetProviderStatus(ctx context.Context, id string) (*dto.ProviderStatusResponse, error) {
	p, err := s.registry.GetProvider(id)
	if err != nil {
		return nil, errors.NewNotFoundError("provider")
	}

	start := time.Now()
	healthErr := p.HealthCheck(ctx)
	responseTime := time.Since(start).Milliseconds()

	resp := &dto.ProviderStatusResponse{
		ID:           id,
		Name:         p.GetProviderInfo().DisplayName,
		Status:       healthStatus(healthErr),
		ResponseTime: responseTime,
		CheckedAt:    time.Now(),
	}
	if healthErr != nil {
		resp.ErrorMessage = healthErr.Error()
	}
	return resp, nil
}

// GetProviderStats gets chunk statistics recorded for a provider since process start
func (s *ProviderServiceImpl) GetProviderStats(ctx context.Context, id string) (*dto.ProviderStatsResponse, error) {
	p, err := s.registry.GetProvider(id)
	if err != nil {
		return nil, errors.NewNotFoundError("provider")
	}

	info := p.GetProviderInfo()
	var stats provider.ProviderStats
	if s.stats != nil {
		stats = s.stats.GetProviderMetrics(info.Name)
	}

	resp := dto.ToProviderStatsResponse(id, info.DisplayName, stats)
	return &resp, nil
}

func healthStatus(err error) string {
	if err != nil {
		return "unhealthy"
	}
	return "healthy"
}
