package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings is the process configuration read from the environment
type Settings struct {
	Env  string
	Host string
	Port string

	// Provider selects the transcription backend; ProvidersConfig, when set, points at a YAML
	// file describing several providers and takes precedence.
	Provider        string
	ProvidersConfig string

	Language     string
	ChunkSeconds int
	FP16         bool
	MaxUploadMB  int
	TempDir      string
	FFmpegPath   string

	WhisperCppBinary  string
	WhisperCppModel   string
	WhisperCppThreads int
	WhisperServerURL  string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	GeminiAPIKey      string
	GeminiModel       string

	LogLevel  string
	LogFormat string
}

// LoadEnv loads environment variables from the first .env file found.
// It returns the path that was loaded, or "" when none exists.
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// LoadSettings reads Settings from the environment, applying defaults
func LoadSettings() (*Settings, error) {
	chunkSeconds, err := getEnvInt("MINUTES_CHUNK_SECONDS", DefaultChunkSeconds)
	if err != nil {
		return nil, err
	}
	maxUploadMB, err := getEnvInt("MINUTES_MAX_UPLOAD_MB", DefaultMaxUploadMB)
	if err != nil {
		return nil, err
	}
	threads, err := getEnvInt("WHISPER_CPP_THREADS", 0)
	if err != nil {
		return nil, err
	}
	fp16, err := getEnvBool("MINUTES_FP16", false)
	if err != nil {
		return nil, err
	}

	return &Settings{
		Env:             getEnvOrDefault("MINUTES_ENV", "development"),
		Host:            getEnvOrDefault("MINUTES_HOST", DefaultHost),
		Port:            getEnvOrDefault("MINUTES_PORT", DefaultHTTPPort),
		Provider:        getEnvOrDefault("MINUTES_PROVIDER", DefaultProvider),
		ProvidersConfig: getEnvOrDefault("MINUTES_PROVIDERS_CONFIG", ""),

		Language:     getEnvOrDefault("MINUTES_LANGUAGE", DefaultLanguage),
		ChunkSeconds: chunkSeconds,
		FP16:         fp16,
		MaxUploadMB:  maxUploadMB,
		TempDir:      getEnvOrDefault("MINUTES_TEMP_DIR", os.TempDir()),
		FFmpegPath:   getEnvOrDefault("FFMPEG_PATH", "ffmpeg"),

		WhisperCppBinary:  getEnvOrDefault("WHISPER_CPP_BINARY", DefaultWhisperCppBinary),
		WhisperCppModel:   getEnvOrDefault("WHISPER_CPP_MODEL", filepath.Join("models", DefaultWhisperModel)),
		WhisperCppThreads: threads,
		WhisperServerURL:  getEnvOrDefault("WHISPER_SERVER_URL", ""),
		OpenAIAPIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:     getEnvOrDefault("OPENAI_BASE_URL", ""),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:       getEnvOrDefault("GEMINI_MODEL", DefaultGeminiModel),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}, nil
}

// InitializeConfig loads .env and the settings, then validates them.
// This is the main entry point for configuration loading
func InitializeConfig() (*Settings, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	settings, err := LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// Address returns the host:port the HTTP server listens on
func (s *Settings) Address() string {
	return s.Host + ":" + s.Port
}

// IsProduction reports whether MINUTES_ENV is production
func (s *Settings) IsProduction() bool {
	return s.Env == "production"
}

// MaxUploadBytes returns the upload limit in bytes
func (s *Settings) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// ProviderConfig builds the creator configuration for one provider type from the settings
func (s *Settings) ProviderConfig(providerType string) map[string]interface{} {
	defaults := GetProviderDefaults(providerType)
	settings := map[string]interface{}{
		"language":    s.Language,
		"timeout_sec": int(defaults.Timeout.Seconds()),
	}
	auth := map[string]interface{}{}

	switch providerType {
	case "whisper_cpp":
		settings["binary_path"] = s.WhisperCppBinary
		settings["model_path"] = s.WhisperCppModel
		settings["threads"] = s.WhisperCppThreads
		settings["fp16"] = s.FP16
		settings["temp_dir"] = s.TempDir
	case "whisper_server":
		settings["base_url"] = s.WhisperServerURL
	case "openai":
		auth["api_key"] = s.OpenAIAPIKey
		if s.OpenAIBaseURL != "" {
			settings["base_url"] = s.OpenAIBaseURL
		}
	case "gemini":
		auth["api_key"] = s.GeminiAPIKey
		settings["model"] = s.GeminiModel
	}

	return map[string]interface{}{
		"type":     providerType,
		"settings": settings,
		"auth":     auth,
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}
