package whisper

import (
	"github.com/sashabaranov/go-openai"

	"transcribe-all/internal/app/api"
	openaiclient "transcribe-all/internal/app/api/openai"
	"transcribe-all/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("openai", createOpenAIProvider, provider.ProviderInfo{
		DisplayName:      "OpenAI Whisper",
		Type:             provider.ProviderTypeRemote,
		RequiresInternet: true,
		RequiresAPIKey:   true,
		DefaultModel:     openai.Whisper1,
	})
}

func createOpenAIProvider(config provider.ProviderConfig) (api.Transcriber, error) {
	client, err := openaiclient.NewClient(config.Auth.APIKey, config.Auth.BaseURL)
	if err != nil {
		return nil, err
	}

	settings := config.Settings
	return NewRemoteTranscriber(client,
		WithModel(provider.StringSetting(settings, "model", openai.Whisper1)),
		WithLanguage(provider.StringSetting(settings, "language", "")),
		WithPrompt(provider.StringSetting(settings, "prompt", "")),
	), nil
}
