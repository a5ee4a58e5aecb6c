package provider

import (
	"context"
)

// TranscriptionProvider is a speech-to-text backend fed one audio chunk file at a time.
type TranscriptionProvider interface {
	// Transcript transcribes a file with the provider's configured defaults
	Transcript(inputFilePath string) (string, error)

	// TranscriptWithOptions transcribes with per-request language and options
	TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	GetProviderInfo() ProviderInfo

	// ValidateConfiguration reports whether the provider can be used at all (binary, model, credentials)
	ValidateConfiguration() error

	HealthCheck(ctx context.Context) error
}

// ProviderRegistry manages the transcription provider instances of a running process
type ProviderRegistry interface {
	RegisterProvider(name string, provider TranscriptionProvider) error
	GetProvider(name string) (TranscriptionProvider, error)
	ListProviders() []string
	GetDefaultProvider() (TranscriptionProvider, error)
	DefaultName() string
	SetDefaultProvider(name string) error
	HealthCheckAll(ctx context.Context) map[string]error
}

// ProviderMetrics records per-provider chunk outcomes
type ProviderMetrics interface {
	RecordSuccess(provider string, latencyMs int64, audioLengthSec float64)
	RecordFailure(provider string, errorType string)
	GetProviderMetrics(provider string) ProviderStats
}

// ProviderStats contains statistics for a specific provider
type ProviderStats struct {
	Provider            string           `json:"provider"`
	TotalRequests       int64            `json:"total_requests"`
	SuccessfulRequests  int64            `json:"successful_requests"`
	FailedRequests      int64            `json:"failed_requests"`
	SuccessRate         float64          `json:"success_rate"`
	AverageLatencyMs    float64          `json:"average_latency_ms"`
	TotalAudioProcessed float64          `json:"total_audio_processed_sec"`
	LastUsed            int64            `json:"last_used_timestamp"`
	IsHealthy           bool             `json:"is_healthy"`
	ErrorBreakdown      map[string]int64 `json:"error_breakdown"`
}
