package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// ProviderCreator is a function that creates a provider from configuration
type ProviderCreator func(config map[string]interface{}) (TranscriptionProvider, error)

// providerRegistry stores provider creation functions
var (
	providerRegistry = make(map[string]ProviderCreator)
	registryMutex    sync.RWMutex
)

// RegisterProvider registers a provider creator function
func RegisterProvider(providerType string, creator ProviderCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	providerRegistry[providerType] = creator
}

// GetProviderCreator returns the creator function for a provider type
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	creator, ok := providerRegistry[providerType]
	if !ok {
		return nil, fmt.Errorf("provider type %s not registered", providerType)
	}
	return creator, nil
}

// ListRegisteredProviders returns all registered provider types, sorted
func ListRegisteredProviders() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	providers := lo.Keys(providerRegistry)
	sort.Strings(providers)
	return providers
}

// CreateProvider builds a provider of the given type and validates it before returning.
func CreateProvider(providerType string, config map[string]interface{}) (TranscriptionProvider, error) {
	creator, err := GetProviderCreator(providerType)
	if err != nil {
		return nil, err
	}

	p, err := creator(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", providerType, err)
	}
	if err := p.ValidateConfiguration(); err != nil {
		return nil, fmt.Errorf("%s provider configuration invalid: %w", providerType, err)
	}
	return p, nil
}

// Settings returns the nested "settings" map of a provider config, or the config itself when not nested.
func Settings(config map[string]interface{}) map[string]interface{} {
	if settings, ok := config["settings"].(map[string]interface{}); ok {
		return settings
	}
	if config == nil {
		return map[string]interface{}{}
	}
	return config
}

// Auth returns the nested "auth" map of a provider config
func Auth(config map[string]interface{}) map[string]interface{} {
	if auth, ok := config["auth"].(map[string]interface{}); ok {
		return auth
	}
	return map[string]interface{}{}
}

// StringSetting reads a string setting, returning def when absent or empty
func StringSetting(settings map[string]interface{}, key, def string) string {
	if v, ok := settings[key].(string); ok && v != "" {
		return v
	}
	return def
}

// IntSetting reads an integer setting that may have been decoded as int or float64
func IntSetting(settings map[string]interface{}, key string, def int) int {
	switch v := settings[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// FloatSetting reads a float setting that may have been decoded as int or float64
func FloatSetting(settings map[string]interface{}, key string, def float64) float64 {
	switch v := settings[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}
