package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"minutes-whisper/internal/app/api/provider"
	apperrors "minutes-whisper/internal/app/errors"
	envconfig "minutes-whisper/internal/config"
)

// ProvidersConfig represents the overall configuration for all providers
type ProvidersConfig struct {
	DefaultProvider string                    `yaml:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents configuration for a single provider
type ProviderConfig struct {
	Type        string                 `yaml:"type"`
	Enabled     bool                   `yaml:"enabled"`
	Auth        map[string]interface{} `yaml:"auth,omitempty"`
	Settings    map[string]interface{} `yaml:"settings,omitempty"`
	Performance PerformanceConfig      `yaml:"performance,omitempty"`
}

// PerformanceConfig represents performance settings for a provider
type PerformanceConfig struct {
	TimeoutSec int `yaml:"timeout_sec,omitempty"`
}

// LoadProvidersConfig loads provider configuration from a YAML file
func LoadProvidersConfig(configPath string) (*ProvidersConfig, error) {
	configPath = os.ExpandEnv(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ProvidersConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.expandEnvironmentVariables()
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// SaveProvidersConfig saves provider configuration to a YAML file
func SaveProvidersConfig(config *ProvidersConfig, configPath string) error {
	configPath = os.ExpandEnv(configPath)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FromSettings builds a single-provider configuration from environment settings
func FromSettings(s *envconfig.Settings) *ProvidersConfig {
	raw := s.ProviderConfig(s.Provider)
	settings, _ := raw["settings"].(map[string]interface{})
	auth, _ := raw["auth"].(map[string]interface{})

	return &ProvidersConfig{
		DefaultProvider: s.Provider,
		Providers: map[string]ProviderConfig{
			s.Provider: {
				Type:     s.Provider,
				Enabled:  true,
				Auth:     auth,
				Settings: settings,
				Performance: PerformanceConfig{
					TimeoutSec: int(envconfig.GetProviderDefaults(s.Provider).Timeout.Seconds()),
				},
			},
		},
	}
}

// expandEnvironmentVariables replaces ${VAR} references in auth and settings string values
func (c *ProvidersConfig) expandEnvironmentVariables() {
	for _, p := range c.Providers {
		expandValues(p.Auth)
		expandValues(p.Settings)
	}
}

func expandValues(values map[string]interface{}) {
	for key, value := range values {
		if s, ok := value.(string); ok && strings.Contains(s, "${") {
			values[key] = os.ExpandEnv(s)
		}
	}
}

// setDefaults sets default values for the configuration
func (c *ProvidersConfig) setDefaults() {
	if c.DefaultProvider == "" && len(c.Providers) > 0 {
		if p, ok := c.Providers[envconfig.DefaultProvider]; ok && p.Enabled {
			c.DefaultProvider = envconfig.DefaultProvider
		} else if names := c.EnabledProviders(); len(names) > 0 {
			// first enabled provider in name order
			c.DefaultProvider = names[0]
		}
	}

	for name, p := range c.Providers {
		if p.Type == "" {
			p.Type = name
		}
		if p.Performance.TimeoutSec == 0 {
			p.Performance.TimeoutSec = int(envconfig.GetProviderDefaults(p.Type).Timeout.Seconds())
		}
		c.Providers[name] = p
	}
}

// EnabledProviders returns the names of enabled providers, sorted
func (c *ProvidersConfig) EnabledProviders() []string {
	var names []string
	for name, p := range c.Providers {
		if p.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Validate validates the configuration
func (c *ProvidersConfig) Validate() error {
	if len(c.EnabledProviders()) == 0 {
		return fmt.Errorf("at least one provider must be enabled")
	}

	if c.DefaultProvider != "" {
		p, exists := c.Providers[c.DefaultProvider]
		if !exists {
			return fmt.Errorf("default provider '%s' does not exist", c.DefaultProvider)
		}
		if !p.Enabled {
			return fmt.Errorf("default provider '%s' is not enabled", c.DefaultProvider)
		}
	}

	registered := provider.ListRegisteredProviders()
	for name, p := range c.Providers {
		if _, err := provider.GetProviderCreator(p.Type); err != nil {
			return fmt.Errorf("invalid provider type '%s' for provider '%s' (registered: %s)",
				p.Type, name, strings.Join(registered, ", "))
		}
		if p.Performance.TimeoutSec != 0 {
			if err := envconfig.ValidateTimeout(time.Duration(p.Performance.TimeoutSec)*time.Second, name); err != nil {
				return err
			}
		}
	}

	return nil
}

// BuildRegistry creates every enabled provider and registers it. A provider that cannot be
// built or fails validation aborts the whole build with a model error.
func BuildRegistry(c *ProvidersConfig) (*provider.DefaultProviderRegistry, error) {
	registry := provider.NewProviderRegistry()

	for _, name := range c.EnabledProviders() {
		p := c.Providers[name]

		settings := make(map[string]interface{}, len(p.Settings)+1)
		for k, v := range p.Settings {
			settings[k] = v
		}
		if _, ok := settings["timeout_sec"]; !ok && p.Performance.TimeoutSec > 0 {
			settings["timeout_sec"] = p.Performance.TimeoutSec
		}

		instance, err := provider.CreateProvider(p.Type, map[string]interface{}{
			"type":     p.Type,
			"settings": settings,
			"auth":     p.Auth,
		})
		if err != nil {
			return nil, apperrors.Model(fmt.Errorf("provider %s: %w", name, err))
		}
		if err := registry.RegisterProvider(name, instance); err != nil {
			return nil, apperrors.Model(fmt.Errorf("provider %s: %w", name, err))
		}
	}

	if c.DefaultProvider != "" {
		if err := registry.SetDefaultProvider(c.DefaultProvider); err != nil {
			return nil, apperrors.Model(err)
		}
	}

	return registry, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	if path := os.Getenv("MINUTES_PROVIDERS_CONFIG"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "providers.yaml"
	}

	return filepath.Join(home, ".minutes-whisper", "providers.yaml")
}

// CreateDefaultConfig creates a default configuration
func CreateDefaultConfig() *ProvidersConfig {
	return &ProvidersConfig{
		DefaultProvider: "whisper_cpp",
		Providers: map[string]ProviderConfig{
			"whisper_cpp": {
				Type:    "whisper_cpp",
				Enabled: true,
				Settings: map[string]interface{}{
					"binary_path": "${WHISPER_CPP_BINARY}",
					"model_path":  "${WHISPER_CPP_MODEL}",
					"language":    "ja",
				},
				Performance: PerformanceConfig{TimeoutSec: 300},
			},
			"whisper_server": {
				Type:    "whisper_server",
				Enabled: false,
				Settings: map[string]interface{}{
					"base_url": "${WHISPER_SERVER_URL}",
					"language": "ja",
				},
				Performance: PerformanceConfig{TimeoutSec: 120},
			},
			"openai": {
				Type:    "openai",
				Enabled: false,
				Auth: map[string]interface{}{
					"api_key": "${OPENAI_API_KEY}",
				},
				Settings: map[string]interface{}{
					"model":    "whisper-1",
					"language": "ja",
				},
				Performance: PerformanceConfig{TimeoutSec: 60},
			},
			"gemini": {
				Type:    "gemini",
				Enabled: false,
				Auth: map[string]interface{}{
					"api_key": "${GEMINI_API_KEY}",
				},
				Settings: map[string]interface{}{
					"model":    envconfig.DefaultGeminiModel,
					"language": "ja",
				},
				Performance: PerformanceConfig{TimeoutSec: 90},
			},
		},
	}
}
