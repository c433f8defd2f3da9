package assemblyai

import (
	"time"

	"transcribe-all/internal/app/api"
	"transcribe-all/internal/app/api/provider"
	apperrors "transcribe-all/internal/app/errors"
)

func init() {
	provider.RegisterProvider("assemblyai", createAssemblyAIProvider, provider.ProviderInfo{
		DisplayName:      "AssemblyAI",
		Type:             provider.ProviderTypeRemote,
		RequiresInternet: true,
		RequiresAPIKey:   true,
	})
}

func createAssemblyAIProvider(config provider.ProviderConfig) (api.Transcriber, error) {
	if config.Auth.APIKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "assemblyai: set ASSEMBLYAI_API_KEY")
	}

	settings := config.Settings
	intervalMs, err := provider.IntSetting(settings, "poll_interval_ms", int(DefaultPollInterval/time.Millisecond))
	if err != nil {
		return nil, apperrors.Mark(apperrors.ErrInvalidConfig, err)
	}
	maxPolls, err := provider.IntSetting(settings, "max_polls", DefaultMaxPolls)
	if err != nil {
		return nil, apperrors.Mark(apperrors.ErrInvalidConfig, err)
	}

	return NewTranscriber(Config{
		APIKey:       config.Auth.APIKey,
		BaseURL:      config.Auth.BaseURL,
		PollInterval: time.Duration(intervalMs) * time.Millisecond,
		MaxPolls:     maxPolls,
		LanguageCode: provider.StringSetting(settings, "language_code", ""),
	}, nil), nil
}
