package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"minutes-whisper/internal/app/api/provider"
	apperrors "minutes-whisper/internal/app/errors"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.5-flash"
)

// defaultPrompt asks for a verbatim transcript and nothing else
const defaultPrompt = "Transcribe this audio verbatim in its spoken language. Output only the transcript text without timestamps or commentary."

// Config holds the Gemini API settings
type Config struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Language    string  `yaml:"language"`
	Prompt      string  `yaml:"prompt"`
	Temperature float32 `yaml:"temperature"`
	BaseURL     string  `yaml:"base_url"`
}

// Transcriber transcribes audio chunks with a Gemini model by sending inline WAV data
type Transcriber struct {
	provider.BaseProvider
	config Config

	mu     sync.Mutex
	client *genai.Client
}

// NewTranscriber creates a Gemini transcriber. The API client is created on first use.
func NewTranscriber(config Config) *Transcriber {
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Language == "" {
		config.Language = "ja"
	}
	if config.Prompt == "" {
		config.Prompt = defaultPrompt
	}

	base := provider.NewBaseProvider(providerName, "Google Gemini", provider.ProviderTypeRemote, "1.0.0")
	base.MaxFileSizeMB = 20
	base.RequiresAPIKey = true
	base.DefaultModel = defaultModel

	return &Transcriber{BaseProvider: base, config: config}
}

func (t *Transcriber) getClient(ctx context.Context) (*genai.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		return t.client, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  t.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if t.config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: t.config.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, apperrors.Model(fmt.Errorf("failed to create gemini client: %w", err))
	}
	t.client = client
	return client, nil
}

// Transcript transcribes one file with the configured defaults
func (t *Transcriber) Transcript(inputFilePath string) (string, error) {
	resp, err := t.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: inputFilePath})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// TranscriptWithOptions sends the chunk as inline audio/wav alongside the transcription prompt
func (t *Transcriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, provider.NewTranscriptionError(providerName, "invalid_input", "input file path is required", false)
	}
	data, err := os.ReadFile(request.InputFilePath)
	if err != nil {
		return nil, provider.NewTranscriptionError(providerName, "file_not_found",
			fmt.Sprintf("input file not readable: %v", err), false)
	}

	client, err := t.getClient(ctx)
	if err != nil {
		return nil, err
	}

	model := t.config.Model
	if request.Model != "" {
		model = request.Model
	}
	language := t.config.Language
	if request.Language != "" {
		language = request.Language
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(t.buildPrompt(request.Prompt, language)),
			genai.NewPartFromBytes(data, "audio/wav"),
		}, genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(t.config.Temperature),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, provider.NewTranscriptionError(providerName, "api_error", fmt.Sprintf("generateContent failed: %v", err), true)
	}

	return &provider.TranscriptionResponse{
		Text:           strings.TrimSpace(result.Text()),
		Language:       language,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      model,
		ProviderMetadata: map[string]interface{}{
			"model_version": result.ModelVersion,
		},
	}, nil
}

func (t *Transcriber) buildPrompt(requestPrompt, language string) string {
	prompt := t.config.Prompt
	if requestPrompt != "" {
		prompt = requestPrompt
	}
	return fmt.Sprintf("%s\nLanguage: %s", prompt, language)
}

// ValidateConfiguration requires an API key and a model name
func (t *Transcriber) ValidateConfiguration() error {
	if t.config.APIKey == "" {
		return apperrors.ErrMissingAPIKey
	}
	if t.config.Temperature < 0 || t.config.Temperature > 2 {
		return apperrors.OutOfRange("temperature", 0, 2)
	}
	return nil
}

// HealthCheck verifies the configured model is reachable
func (t *Transcriber) HealthCheck(ctx context.Context) error {
	if err := t.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	client, err := t.getClient(ctx)
	if err != nil {
		return err
	}
	if _, err := client.Models.Get(ctx, t.config.Model, nil); err != nil {
		return apperrors.Model(fmt.Errorf("gemini model %s unavailable: %w", t.config.Model, err))
	}
	return nil
}
