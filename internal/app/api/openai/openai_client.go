package openai

import (
	"github.com/sashabaranov/go-openai"

	apperrors "transcribe-all/internal/app/errors"
)

// NewClient builds an OpenAI client. baseURL may point at any
// OpenAI-compatible server; empty keeps the public API.
func NewClient(apiKey string, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "openai: set OPENAI_API_KEY")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config), nil
}
