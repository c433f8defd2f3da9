package provider

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "transcribe-all/internal/app/errors"
)

// ProviderConfiguration represents the complete provider configuration
type ProviderConfiguration struct {
	// Default provider to use when none is specified
	DefaultProvider string `yaml:"default_provider" validate:"required"`

	// Provider-specific configurations, keyed by provider name
	Providers map[string]ProviderConfig `yaml:"providers" validate:"required,min=1,dive"`
}

// ProviderConfig represents configuration for a single provider
type ProviderConfig struct {
	// Provider type (openai, whisper_cpp, gemini, assemblyai)
	Type string `yaml:"type" validate:"required"`

	Enabled bool `yaml:"enabled"`

	// Provider-specific settings
	Settings map[string]interface{} `yaml:"settings"`

	Auth AuthConfig `yaml:"auth,omitempty"`

	Performance PerformanceConfig `yaml:"performance,omitempty"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	// API key (can be environment variable reference like ${OPENAI_API_KEY})
	APIKey string `yaml:"api_key,omitempty"`

	// Base URL override for HTTP-based providers
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url"`
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	// Timeout for a single transcription; 0 waits indefinitely
	TimeoutSec int `yaml:"timeout_sec,omitempty" validate:"gte=0"`
}

// ConfigManager manages provider configuration
type ConfigManager struct {
	configPath string
	config     *ProviderConfiguration
	validate   *validator.Validate
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// LoadConfig loads configuration from the YAML file. A missing file yields the
// built-in defaults; nothing is written to disk.
func (cm *ConfigManager) LoadConfig() (*ProviderConfiguration, error) {
	var config *ProviderConfiguration

	data, err := os.ReadFile(cm.configPath)
	switch {
	case cm.configPath == "" || os.IsNotExist(err):
		config = DefaultConfig()
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		config = &ProviderConfiguration{}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, apperrors.Mark(apperrors.ErrInvalidConfig, fmt.Errorf("failed to parse config YAML: %w", err))
		}
	}

	cm.expandEnvironmentVariables(config)

	if err := cm.validateConfig(config); err != nil {
		return nil, apperrors.Mark(apperrors.ErrInvalidConfig, err)
	}

	cm.config = config
	return config, nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *ProviderConfiguration {
	return cm.config
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *ProviderConfiguration {
	return &ProviderConfiguration{
		DefaultProvider: "openai",
		Providers: map[string]ProviderConfig{
			"openai": {
				Type:    "openai",
				Enabled: true,
				Auth: AuthConfig{
					APIKey:  "${OPENAI_API_KEY}",
					BaseURL: "${OPENAI_BASE_URL}",
				},
				Settings: map[string]interface{}{
					"model": "whisper-1",
				},
			},
			"whisper_cpp": {
				Type:    "whisper_cpp",
				Enabled: true,
				Settings: map[string]interface{}{
					"binary_path": "${WHISPER_CPP_BINARY}",
					"model_path":  "${WHISPER_CPP_MODEL}",
					"language":    "auto",
				},
			},
			"gemini": {
				Type:    "gemini",
				Enabled: true,
				Auth: AuthConfig{
					APIKey: "${GEMINI_API_KEY}",
				},
				Settings: map[string]interface{}{
					"model": "gemini-2.5-flash",
				},
			},
			"assemblyai": {
				Type:    "assemblyai",
				Enabled: true,
				Auth: AuthConfig{
					APIKey: "${ASSEMBLYAI_API_KEY}",
				},
				Settings: map[string]interface{}{
					"poll_interval_ms": 2000,
					"max_polls":        60,
				},
			},
			"elevenlabs": {
				Type:    "elevenlabs",
				Enabled: true,
				Auth: AuthConfig{
					APIKey: "${ELEVENLABS_API_KEY}",
				},
				Settings: map[string]interface{}{
					"model": "scribe_v1",
				},
			},
		},
	}
}

// expandEnvironmentVariables expands ${VAR} references in auth values and
// string settings.
func (cm *ConfigManager) expandEnvironmentVariables(config *ProviderConfiguration) {
	for name, providerConfig := range config.Providers {
		providerConfig.Auth.APIKey = os.ExpandEnv(providerConfig.Auth.APIKey)
		providerConfig.Auth.BaseURL = os.ExpandEnv(providerConfig.Auth.BaseURL)

		settings := make(map[string]interface{}, len(providerConfig.Settings))
		for key, value := range providerConfig.Settings {
			if s, ok := value.(string); ok {
				value = os.ExpandEnv(s)
			}
			settings[key] = value
		}
		providerConfig.Settings = settings

		config.Providers[name] = providerConfig
	}
}

// validateConfig validates the configuration
func (cm *ConfigManager) validateConfig(config *ProviderConfiguration) error {
	if err := cm.validate.Struct(config); err != nil {
		return fmt.Errorf("invalid provider configuration: %w", err)
	}

	defaultConfig, exists := config.Providers[config.DefaultProvider]
	if !exists {
		return fmt.Errorf("default provider '%s' not found in providers", config.DefaultProvider)
	}
	if !defaultConfig.Enabled {
		return fmt.Errorf("default provider '%s' is disabled", config.DefaultProvider)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".transcribe-all", "providers.yaml")
	}

	return "./config/providers.yaml"
}
