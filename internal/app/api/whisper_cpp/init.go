package whisper_cpp

import (
	"fmt"
	"time"

	"minutes-whisper/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider(providerName, createWhisperCppProvider)
}

// createWhisperCppProvider creates a whisper.cpp provider from configuration
func createWhisperCppProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings := provider.Settings(config)

	binaryPath := provider.StringSetting(settings, "binary_path", "")
	if binaryPath == "" {
		return nil, fmt.Errorf("whisper_cpp provider requires 'binary_path' setting")
	}
	modelPath := provider.StringSetting(settings, "model_path", "")
	if modelPath == "" {
		return nil, fmt.Errorf("whisper_cpp provider requires 'model_path' setting")
	}

	fp16, _ := settings["fp16"].(bool)

	return NewLocalTranscriber(Config{
		BinaryPath: binaryPath,
		ModelPath:  modelPath,
		Language:   provider.StringSetting(settings, "language", "ja"),
		Prompt:     provider.StringSetting(settings, "prompt", ""),
		Threads:    provider.IntSetting(settings, "threads", 0),
		FP16:       fp16,
		TempDir:    provider.StringSetting(settings, "temp_dir", ""),
		Timeout:    time.Duration(provider.IntSetting(settings, "timeout_sec", 0)) * time.Second,
	}, nil), nil
}
