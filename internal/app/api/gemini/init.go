package gemini

import (
	"context"

	"google.golang.org/genai"

	"transcribe-all/internal/app/api"
	"transcribe-all/internal/app/api/provider"
	apperrors "transcribe-all/internal/app/errors"
)

func init() {
	provider.RegisterProvider("gemini", createGeminiProvider, provider.ProviderInfo{
		DisplayName:      "Google Gemini",
		Type:             provider.ProviderTypeRemote,
		RequiresInternet: true,
		RequiresAPIKey:   true,
		DefaultModel:     DefaultModel,
	})
}

func createGeminiProvider(config provider.ProviderConfig) (api.Transcriber, error) {
	if config.Auth.APIKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "gemini: set GEMINI_API_KEY")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.Auth.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.Auth.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.Auth.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, apperrors.Wrap(err, "create gemini client")
	}

	settings := config.Settings
	inlineLimitMB, err := provider.IntSetting(settings, "inline_limit_mb", 0)
	if err != nil {
		return nil, apperrors.Mark(apperrors.ErrInvalidConfig, err)
	}

	return NewTranscriber(
		client,
		provider.StringSetting(settings, "model", DefaultModel),
		provider.StringSetting(settings, "prompt", ""),
		int64(inlineLimitMB)<<20,
	), nil
}
