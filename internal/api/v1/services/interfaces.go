package services

import (
	"context"
	"io"

	"minutes-whisper/internal/api/v1/dto"
	"minutes-whisper/internal/app/converter"
	"minutes-whisper/internal/app/minutes"
)

// MinutesService runs minutes jobs on uploaded audio
type MinutesService interface {
	Modes() []dto.ModeResponse
	ProviderName() string
	// CreateMinutes stores upload in a transient file, runs the job and removes the file.
	// observe, when non-nil, is called after every transcribed chunk.
	CreateMinutes(ctx context.Context, upload io.Reader, filename string, mode minutes.Mode, observe func(converter.Progress)) (*converter.Result, error)
}

// ProviderService defines the interface for provider operations
type ProviderService interface {
	ListProviders(ctx context.Context) ([]dto.ProviderResponse, error)
	GetProvider(ctx context.Context, id string) (*dto.ProviderResponse, error)
	GetProviderStatus(ctx context.Context, id string) (*dto.ProviderStatusResponse, error)
	GetProviderStats(ctx context.Context, id string) (*dto.ProviderStatsResponse, error)
}

// Converter is the job runner behind MinutesService
type Converter interface {
	Convert(ctx context.Context, inputPath string, mode minutes.Mode, observe func(converter.Progress)) (*converter.Result, error)
	ProviderName() string
}
