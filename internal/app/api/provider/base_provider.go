package provider

// BaseProvider provides the ProviderInfo half of a provider implementation
type BaseProvider struct {
	Name               string
	DisplayName        string
	Type               ProviderType
	Version            string
	SupportedFormats   []AudioFormat
	SupportedLanguages []string
	MaxFileSizeMB      int
	RequiresInternet   bool
	RequiresAPIKey     bool
	RequiresBinary     bool
	DefaultModel       string
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(name, displayName string, providerType ProviderType, version string) BaseProvider {
	return BaseProvider{
		Name:             name,
		DisplayName:      displayName,
		Type:             providerType,
		Version:          version,
		SupportedFormats: []AudioFormat{FormatWAV},
		RequiresInternet: providerType == ProviderTypeRemote,
	}
}

// GetProviderInfo returns provider information
func (b BaseProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:               b.Name,
		DisplayName:        b.DisplayName,
		Type:               b.Type,
		Version:            b.Version,
		SupportedFormats:   b.SupportedFormats,
		SupportedLanguages: b.SupportedLanguages,
		MaxFileSizeMB:      b.MaxFileSizeMB,
		RequiresInternet:   b.RequiresInternet,
		RequiresAPIKey:     b.RequiresAPIKey,
		RequiresBinary:     b.RequiresBinary,
		DefaultModel:       b.DefaultModel,
	}
}
