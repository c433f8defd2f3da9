package elevenlabs

import (
	"time"

	"transcribe-all/internal/app/api"
	"transcribe-all/internal/app/api/provider"
	apperrors "transcribe-all/internal/app/errors"
)

func init() {
	provider.RegisterProvider("elevenlabs", createElevenLabsProvider, provider.ProviderInfo{
		DisplayName:      "ElevenLabs Speech-to-Text",
		Type:             provider.ProviderTypeRemote,
		RequiresInternet: true,
		RequiresAPIKey:   true,
		DefaultModel:     DefaultModel,
	})
}

func createElevenLabsProvider(config provider.ProviderConfig) (api.Transcriber, error) {
	if config.Auth.APIKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "elevenlabs: set ELEVENLABS_API_KEY")
	}

	timeoutSec, err := provider.IntSetting(config.Settings, "request_timeout_sec", 0)
	if err != nil {
		return nil, apperrors.Mark(apperrors.ErrInvalidConfig, err)
	}

	return NewSTTProvider(STTConfig{
		APIKey:       config.Auth.APIKey,
		BaseURL:      config.Auth.BaseURL,
		Model:        provider.StringSetting(config.Settings, "model", DefaultModel),
		LanguageCode: provider.StringSetting(config.Settings, "language_code", ""),
		Timeout:      time.Duration(timeoutSec) * time.Second,
	}), nil
}
