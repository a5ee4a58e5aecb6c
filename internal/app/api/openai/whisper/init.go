package whisper

import (
	"fmt"

	"minutes-whisper/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider(providerName, createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI Whisper provider from configuration
func createOpenAIProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings := provider.Settings(config)

	apiKey := provider.StringSetting(provider.Auth(config), "api_key", provider.StringSetting(config, "api_key", ""))
	if apiKey == "" {
		return nil, fmt.Errorf("openai provider requires 'api_key' in auth configuration")
	}

	return NewRemoteTranscriber(Config{
		APIKey:      apiKey,
		Model:       provider.StringSetting(settings, "model", "whisper-1"),
		Language:    provider.StringSetting(settings, "language", ""),
		Prompt:      provider.StringSetting(settings, "prompt", ""),
		Temperature: float32(provider.FloatSetting(settings, "temperature", 0)),
		BaseURL:     provider.StringSetting(settings, "base_url", ""),
	}), nil
}
