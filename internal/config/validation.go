package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("invalid Gemini API key format: too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s port invalid: %q", name, port)
	}

	return nil
}

// Validate checks the settings and the prerequisites of the selected provider.
// Provider prerequisites are skipped when a providers YAML file is configured.
func (s *Settings) Validate() error {
	if err := ValidatePort(s.Port, "HTTP"); err != nil {
		return err
	}
	if s.ChunkSeconds <= 0 || s.ChunkSeconds > 600 {
		return fmt.Errorf("chunk seconds must be between 1 and 600, got %d", s.ChunkSeconds)
	}
	if s.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d MB", s.MaxUploadMB)
	}
	if s.Language == "" {
		return fmt.Errorf("language is required")
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("log format must be text or json, got %q", s.LogFormat)
	}

	if s.ProvidersConfig != "" {
		return nil
	}
	return s.validateProvider()
}

func (s *Settings) validateProvider() error {
	if !slices.Contains(KnownProviders, s.Provider) {
		return fmt.Errorf("unknown provider %q (known: %s)", s.Provider, strings.Join(KnownProviders, ", "))
	}

	switch s.Provider {
	case "whisper_cpp":
		if s.WhisperCppBinary == "" || s.WhisperCppModel == "" {
			return fmt.Errorf("whisper_cpp requires WHISPER_CPP_BINARY and WHISPER_CPP_MODEL")
		}
	case "whisper_server":
		return ValidateURL(s.WhisperServerURL, "WHISPER_SERVER")
	case "openai":
		return ValidateAPIKey(s.OpenAIAPIKey, "OpenAI")
	case "gemini":
		return ValidateAPIKey(s.GeminiAPIKey, "Gemini")
	}
	return ValidateTimeout(GetProviderDefaults(s.Provider).Timeout, s.Provider)
}
