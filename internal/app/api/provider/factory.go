package provider

import (
	"context"
	stderrors "errors"
	"time"

	"transcribe-all/internal/app/api"
	apperrors "transcribe-all/internal/app/errors"
)

// NewTranscriber builds the named provider from config, or the default
// provider when name is empty.
func NewTranscriber(config *ProviderConfiguration, name string) (api.Transcriber, error) {
	if name == "" {
		name = config.DefaultProvider
	}

	providerConfig, ok := config.Providers[name]
	if !ok {
		return nil, apperrors.Mark(apperrors.ErrProviderNotFound, apperrors.NotFound("provider", name))
	}
	if !providerConfig.Enabled {
		return nil, apperrors.Wrapf(apperrors.ErrProviderDisabled, "provider %s", name)
	}

	creator, err := GetProviderCreator(providerConfig.Type)
	if err != nil {
		return nil, err
	}

	transcriber, err := creator(providerConfig)
	if err != nil {
		return nil, apperrors.Wrapf(err, "create provider %s", name)
	}

	if providerConfig.Performance.TimeoutSec > 0 {
		transcriber = WithTimeout(transcriber, time.Duration(providerConfig.Performance.TimeoutSec)*time.Second)
	}
	return transcriber, nil
}

type timeoutTranscriber struct {
	next    api.Transcriber
	timeout time.Duration
}

// WithTimeout bounds every Transcript call of next by timeout.
func WithTimeout(next api.Transcriber, timeout time.Duration) api.Transcriber {
	return &timeoutTranscriber{next: next, timeout: timeout}
}

func (t *timeoutTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err := t.next.Transcript(ctx, inputFilePath)
	if err != nil && stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", apperrors.Mark(apperrors.ErrProviderTimeout, apperrors.Wrapf(err, "transcription of %s exceeded %s", inputFilePath, t.timeout))
	}
	return text, err
}
