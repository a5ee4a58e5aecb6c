package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"minutes-whisper/internal/app/api/provider"
	apperrors "minutes-whisper/internal/app/errors"
)

const providerName = "whisper_server"

var validFormats = []string{"json", "text", "verbose_json"}

// WhisperServerConfig represents configuration for the whisper.cpp server HTTP API
type WhisperServerConfig struct {
	BaseURL        string            `yaml:"base_url"`        // e.g. "http://192.168.1.100:8080"
	InferencePath  string            `yaml:"inference_path"`  // default: "/inference"
	Timeout        time.Duration     `yaml:"timeout"`
	Language       string            `yaml:"language"`
	ResponseFormat string            `yaml:"response_format"` // json, text or verbose_json
	Temperature    float64           `yaml:"temperature"`
	CustomHeaders  map[string]string `yaml:"custom_headers"`
}

// WhisperServerResponse is the JSON body of an /inference reply
type WhisperServerResponse struct {
	Text     string  `json:"text,omitempty"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// WhisperServerProvider implements transcription via HTTP to a whisper-server instance
type WhisperServerProvider struct {
	provider.BaseProvider
	config WhisperServerConfig
	client *http.Client
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider
func NewWhisperServerProvider(config WhisperServerConfig) *WhisperServerProvider {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	if config.ResponseFormat == "" {
		config.ResponseFormat = "json"
	}
	if config.Language == "" {
		config.Language = "ja"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	base := provider.NewBaseProvider(providerName, "Whisper Server (HTTP)", provider.ProviderTypeRemote, "1.0.0")
	base.DefaultModel = "whisper-server"

	return &WhisperServerProvider{
		BaseProvider: base,
		config:       config,
		client:       &http.Client{Timeout: config.Timeout},
	}
}

// Transcript transcribes one file with the configured defaults
func (wsp *WhisperServerProvider) Transcript(inputFilePath string) (string, error) {
	response, err := wsp.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: inputFilePath})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}

// TranscriptWithOptions uploads the file to the inference endpoint and parses the reply
func (wsp *WhisperServerProvider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, provider.NewTranscriptionError(providerName, "invalid_input", "input file path is required", false)
	}
	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, provider.NewTranscriptionError(providerName, "file_not_found",
			fmt.Sprintf("input file not found: %s", request.InputFilePath), false)
	}

	language := lo.Ternary(request.Language != "", request.Language, wsp.config.Language)

	body, contentType, err := wsp.createMultipartForm(request.InputFilePath, language, request.Prompt)
	if err != nil {
		return nil, provider.NewTranscriptionError(providerName, "form_creation_failed",
			fmt.Sprintf("failed to create multipart form: %v", err), false)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wsp.config.BaseURL+wsp.config.InferencePath, body)
	if err != nil {
		return nil, provider.NewTranscriptionError(providerName, "request_creation_failed",
			fmt.Sprintf("failed to create HTTP request: %v", err), false)
	}
	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range wsp.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, provider.NewTranscriptionError(providerName, "request_failed",
			fmt.Sprintf("HTTP request failed: %v", err), true)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.NewTranscriptionError(providerName, "response_read_failed",
			fmt.Sprintf("failed to read response: %v", err), true)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, provider.NewTranscriptionError(providerName, "api_error",
			fmt.Sprintf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseData))),
			resp.StatusCode >= 500)
	}

	parsed, err := wsp.parseResponse(responseData)
	if err != nil {
		return nil, provider.NewTranscriptionError(providerName, "response_parse_failed",
			fmt.Sprintf("failed to parse response: %v", err), false)
	}

	// a silent chunk legitimately transcribes to ""
	return &provider.TranscriptionResponse{
		Text:           strings.TrimSpace(parsed.Text),
		Language:       lo.Ternary(parsed.Language != "", parsed.Language, language),
		Duration:       time.Duration(parsed.Duration * float64(time.Second)),
		ProcessingTime: time.Since(startTime),
		ModelUsed:      "whisper-server",
		ProviderMetadata: map[string]interface{}{
			"base_url":        wsp.config.BaseURL,
			"response_format": wsp.config.ResponseFormat,
			"http_status":     resp.StatusCode,
		},
	}, nil
}

func (wsp *WhisperServerProvider) createMultipartForm(inputFilePath, language, prompt string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	file, err := os.Open(inputFilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err = io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %v", err)
	}

	params := [][2]string{
		{"response_format", wsp.config.ResponseFormat},
		{"temperature", fmt.Sprintf("%.2f", wsp.config.Temperature)},
		{"language", language},
	}
	if prompt != "" {
		params = append(params, [2]string{"prompt", prompt})
	}
	for _, kv := range params {
		if err := writer.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %v", kv[0], err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType(), nil
}

func (wsp *WhisperServerProvider) parseResponse(data []byte) (WhisperServerResponse, error) {
	if wsp.config.ResponseFormat == "text" {
		return WhisperServerResponse{Text: string(data)}, nil
	}

	var resp WhisperServerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return WhisperServerResponse{}, fmt.Errorf("failed to parse JSON response: %v", err)
	}
	return resp, nil
}

// ValidateConfiguration validates the provider configuration
func (wsp *WhisperServerProvider) ValidateConfiguration() error {
	if wsp.config.BaseURL == "" {
		return apperrors.RequiredField("base_url")
	}
	if !strings.HasPrefix(wsp.config.BaseURL, "http://") && !strings.HasPrefix(wsp.config.BaseURL, "https://") {
		return apperrors.InvalidField("base_url", "must start with http:// or https://")
	}
	if wsp.config.Temperature < 0.0 || wsp.config.Temperature > 1.0 {
		return apperrors.OutOfRange("temperature", 0.0, 1.0)
	}
	if !lo.Contains(validFormats, wsp.config.ResponseFormat) {
		return apperrors.InvalidField("response_format", "must be one of: "+strings.Join(validFormats, ", "))
	}
	return nil
}

// HealthCheck checks that the server answers at its base URL
func (wsp *WhisperServerProvider) HealthCheck(ctx context.Context) error {
	if err := wsp.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wsp.config.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	for key, value := range wsp.config.CustomHeaders {
		req.Header.Set(key, value)
	}

	resp, err := wsp.client.Do(req)
	if err != nil {
		return apperrors.Model(fmt.Errorf("server connectivity test failed: %w", err))
	}
	defer resp.Body.Close()

	// 503 can come from a proxy in front of a live server
	if resp.StatusCode >= 500 && resp.StatusCode != http.StatusServiceUnavailable {
		return apperrors.Model(fmt.Errorf("server returned error status: %d", resp.StatusCode))
	}
	return nil
}
