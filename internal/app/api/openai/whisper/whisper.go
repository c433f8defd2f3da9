package whisper

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"transcribe-all/internal/app/api/provider"
	apperrors "transcribe-all/internal/app/errors"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client   *openai.Client
	model    string
	language string
	prompt   string
}

// Option customizes a RemoteTranscriber.
type Option func(*RemoteTranscriber)

// WithModel overrides the default whisper-1 model.
func WithModel(model string) Option {
	return func(rt *RemoteTranscriber) {
		if model != "" {
			rt.model = model
		}
	}
}

// WithLanguage sets the ISO-639-1 language hint.
func WithLanguage(language string) Option {
	return func(rt *RemoteTranscriber) { rt.language = language }
}

// WithPrompt sets the context prompt.
func WithPrompt(prompt string) Option {
	return func(rt *RemoteTranscriber) { rt.prompt = prompt }
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, opts ...Option) *RemoteTranscriber {
	rt := &RemoteTranscriber{client: client, model: openai.Whisper1}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Transcript uses the OpenAI API for remote transcription.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: inputFilePath,
		Language: rt.language,
		Prompt:   rt.prompt,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", apperrors.Mark(apperrors.ErrRequestFailed, &provider.TranscriptionError{
			Code:     errorCode(err),
			Message:  "createTranscription failed",
			Provider: "openai",
			Cause:    err,
		})
	}

	return resp.Text, nil
}

func errorCode(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return "unauthorized"
		case 413:
			return "file_too_large"
		case 429:
			return "rate_limited"
		}
		if apiErr.HTTPStatusCode >= 500 {
			return "server_error"
		}
		return "api_error"
	}
	return "request_error"
}
