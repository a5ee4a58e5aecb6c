package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"minutes-whisper/internal/app/api/provider"
	apperrors "minutes-whisper/internal/app/errors"
)

const providerName = "openai"

// Config represents configuration specific to the OpenAI Whisper provider
type Config struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Language    string  `yaml:"language"`
	Temperature float32 `yaml:"temperature"`
	Prompt      string  `yaml:"prompt"`
	BaseURL     string  `yaml:"base_url"`
}

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	provider.BaseProvider
	client *openai.Client
	config Config
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(config Config) *RemoteTranscriber {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if config.Language == "" {
		config.Language = "ja"
	}

	base := provider.NewBaseProvider(providerName, "OpenAI Whisper API", provider.ProviderTypeRemote, "1.0.0")
	base.SupportedFormats = []provider.AudioFormat{provider.FormatWAV, provider.FormatMP3, provider.FormatM4A, provider.FormatWEBM}
	base.MaxFileSizeMB = 25
	base.RequiresAPIKey = true
	base.DefaultModel = openai.Whisper1

	return &RemoteTranscriber{
		BaseProvider: base,
		client:       openai.NewClientWithConfig(clientConfig),
		config:       config,
	}
}

// Transcript uses the OpenAI API for remote transcription.
func (rt *RemoteTranscriber) Transcript(inputFilePath string) (string, error) {
	resp, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: inputFilePath})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// TranscriptWithOptions sends one chunk file to the transcription endpoint
func (rt *RemoteTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, provider.NewTranscriptionError(providerName, "invalid_input", "input file path is required", false)
	}
	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, provider.NewTranscriptionError(providerName, "file_not_found",
			fmt.Sprintf("input file not found: %s", request.InputFilePath), false)
	}

	audioRequest := openai.AudioRequest{
		Model:       rt.pick(request.Model, rt.config.Model),
		FilePath:    request.InputFilePath,
		Prompt:      rt.pick(request.Prompt, rt.config.Prompt),
		Language:    rt.pick(request.Language, rt.config.Language),
		Temperature: rt.config.Temperature,
		Format:      openai.AudioResponseFormatJSON,
	}

	resp, err := rt.client.CreateTranscription(ctx, audioRequest)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, rt.handleAPIError(err)
	}

	return &provider.TranscriptionResponse{
		Text:           strings.TrimSpace(resp.Text),
		Language:       rt.pick(resp.Language, audioRequest.Language),
		Duration:       time.Duration(resp.Duration * float64(time.Second)),
		ProcessingTime: time.Since(startTime),
		ModelUsed:      audioRequest.Model,
		ProviderMetadata: map[string]interface{}{
			"api_model": audioRequest.Model,
		},
	}, nil
}

func (rt *RemoteTranscriber) pick(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	return fallback
}

// handleAPIError maps go-openai errors onto provider error codes
func (rt *RemoteTranscriber) handleAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return &provider.TranscriptionError{
				Code:        "invalid_api_key",
				Message:     apiErr.Message,
				Provider:    providerName,
				Suggestions: []string{"Check OPENAI_API_KEY"},
			}
		case http.StatusTooManyRequests:
			return provider.NewTranscriptionError(providerName, "rate_limited", apiErr.Message, true)
		case http.StatusRequestEntityTooLarge:
			return provider.NewTranscriptionError(providerName, "file_too_large", apiErr.Message, false)
		}
		return provider.NewTranscriptionError(providerName, "api_error",
			fmt.Sprintf("API returned status %d: %s", apiErr.HTTPStatusCode, apiErr.Message),
			apiErr.HTTPStatusCode >= 500)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return provider.NewTranscriptionError(providerName, "api_error",
			fmt.Sprintf("API returned status %d: %v", reqErr.HTTPStatusCode, reqErr.Err),
			reqErr.HTTPStatusCode >= 500)
	}

	return provider.NewTranscriptionError(providerName, "request_failed", fmt.Sprintf("createTranscription failed: %v", err), true)
}

// ValidateConfiguration requires an API key
func (rt *RemoteTranscriber) ValidateConfiguration() error {
	if rt.config.APIKey == "" {
		return apperrors.ErrMissingAPIKey
	}
	if rt.config.Temperature < 0 || rt.config.Temperature > 1 {
		return apperrors.OutOfRange("temperature", 0, 1)
	}
	return nil
}

// HealthCheck lists models, which exercises the key without uploading audio
func (rt *RemoteTranscriber) HealthCheck(ctx context.Context) error {
	if err := rt.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := rt.client.ListModels(ctx); err != nil {
		return apperrors.Model(rt.handleAPIError(err))
	}
	return nil
}
