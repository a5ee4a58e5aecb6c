package config

import "time"

// Provider default configuration constants
const (
	// Timeout defaults, applied per chunk
	DefaultWhisperCppTimeout = 300 * time.Second
	DefaultOpenAITimeout     = 60 * time.Second
	DefaultGeminiTimeout     = 90 * time.Second
	DefaultHTTPTimeout       = 120 * time.Second

	// Network defaults
	DefaultHost     = "0.0.0.0"
	DefaultHTTPPort = "8501"

	// Job defaults
	DefaultProvider     = "whisper_cpp"
	DefaultLanguage     = "ja"
	DefaultChunkSeconds = 30
	DefaultMaxUploadMB  = 200

	// Model defaults
	DefaultWhisperCppBinary = "whisper-cli"
	DefaultWhisperModel     = "ggml-base.bin"
	DefaultGeminiModel      = "gemini-2.5-flash"
)

// KnownProviders lists the provider types that can be configured from the environment
var KnownProviders = []string{"gemini", "openai", "whisper_cpp", "whisper_server"}

// ProviderDefaults holds all default configurations for providers
type ProviderDefaults struct {
	Timeout time.Duration
}

// GetProviderDefaults returns default configuration for a given provider type
func GetProviderDefaults(providerType string) ProviderDefaults {
	switch providerType {
	case "whisper_cpp":
		return ProviderDefaults{Timeout: DefaultWhisperCppTimeout}
	case "openai":
		return ProviderDefaults{Timeout: DefaultOpenAITimeout}
	case "gemini":
		return ProviderDefaults{Timeout: DefaultGeminiTimeout}
	case "whisper_server":
		return ProviderDefaults{Timeout: DefaultHTTPTimeout}
	default:
		return ProviderDefaults{Timeout: 60 * time.Second}
	}
}
