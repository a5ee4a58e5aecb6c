package whisper_server

import (
	"fmt"
	"time"

	"minutes-whisper/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider(providerName, createWhisperServerProvider)
}

func createWhisperServerProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings := provider.Settings(config)

	baseURL := provider.StringSetting(settings, "base_url", provider.StringSetting(settings, "server_url", ""))
	if baseURL == "" {
		return nil, fmt.Errorf("whisper_server provider requires 'base_url' setting")
	}

	headers := map[string]string{}
	if raw, ok := settings["custom_headers"].(map[string]interface{}); ok {
		for k, v := range raw {
			if s, ok := v.(string); ok {
				headers[k] = s
			}
		}
	}
	if token := provider.StringSetting(provider.Auth(config), "token", ""); token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return NewWhisperServerProvider(WhisperServerConfig{
		BaseURL:        baseURL,
		InferencePath:  provider.StringSetting(settings, "inference_path", ""),
		Timeout:        time.Duration(provider.IntSetting(settings, "timeout_sec", 0)) * time.Second,
		Language:       provider.StringSetting(settings, "language", ""),
		ResponseFormat: provider.StringSetting(settings, "response_format", ""),
		Temperature:    provider.FloatSetting(settings, "temperature", 0),
		CustomHeaders:  headers,
	}), nil
}
