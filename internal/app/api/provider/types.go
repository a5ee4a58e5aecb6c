package provider

import (
	"errors"
	"fmt"
	"time"
)

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatMP3  AudioFormat = "mp3"
	FormatM4A  AudioFormat = "m4a"
	FormatFLAC AudioFormat = "flac"
	FormatOGG  AudioFormat = "ogg"
	FormatWEBM AudioFormat = "webm"
)

// ProviderType defines the type of transcription provider
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// OptionFP16 toggles half-precision inference on providers that support it.
const OptionFP16 = "fp16"

// TranscriptionRequest represents a transcription request for one audio file
type TranscriptionRequest struct {
	InputFilePath string `json:"input_file_path"`

	Language string `json:"language,omitempty"` // "ja", "en", ...
	Model    string `json:"model,omitempty"`    // Provider-specific model ID
	Prompt   string `json:"prompt,omitempty"`

	// Provider-specific options
	ProviderOptions map[string]interface{} `json:"provider_options,omitempty"`
}

// FP16 reports whether half precision was requested. Unset means disabled.
func (r *TranscriptionRequest) FP16() bool {
	if r == nil || r.ProviderOptions == nil {
		return false
	}
	enabled, _ := r.ProviderOptions[OptionFP16].(bool)
	return enabled
}

// TranscriptionResponse represents the response from a transcription provider
type TranscriptionResponse struct {
	Text string `json:"text"`

	Language string        `json:"language,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`

	ProviderMetadata map[string]interface{} `json:"provider_metadata,omitempty"`

	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	ModelUsed      string        `json:"model_used,omitempty"`
}

// ProviderInfo contains metadata about a transcription provider
type ProviderInfo struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Type        ProviderType `json:"type"`
	Version     string       `json:"version,omitempty"`

	SupportedFormats   []AudioFormat `json:"supported_formats"`
	SupportedLanguages []string      `json:"supported_languages,omitempty"` // Empty means all languages
	MaxFileSizeMB      int           `json:"max_file_size_mb,omitempty"`

	RequiresInternet bool `json:"requires_internet"`
	RequiresAPIKey   bool `json:"requires_api_key"`
	RequiresBinary   bool `json:"requires_binary"`

	DefaultModel string `json:"default_model,omitempty"`
}

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Provider    string   `json:"provider"`
	Retryable   bool     `json:"retryable"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// NewTranscriptionError builds a TranscriptionError for the named provider
func NewTranscriptionError(providerName, code, message string, retryable bool) *TranscriptionError {
	return &TranscriptionError{
		Code:      code,
		Message:   message,
		Provider:  providerName,
		Retryable: retryable,
	}
}

// ErrorCode extracts the provider error code, used as the metrics label
func ErrorCode(err error) string {
	var te *TranscriptionError
	if errors.As(err, &te) {
		return te.Code
	}
	return "unknown"
}
