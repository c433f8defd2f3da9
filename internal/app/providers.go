package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"transcribe-all/internal/app/api"
	"transcribe-all/internal/app/api/provider"
	"transcribe-all/internal/app/converter"
	"transcribe-all/internal/app/logger"
	"transcribe-all/internal/app/metrics"
	"transcribe-all/internal/config"
)

// ProviderSet is everything InitializeBatchConverter needs besides the settings.
var ProviderSet = wire.NewSet(provideLogger, provideRecorder, provideProviderConfig, provideTranscriberFactory)

// provideLogger also installs the logger as zap's global, which providers log through.
func provideLogger(settings *config.Settings) (*zap.Logger, func(), error) {
	l, err := logger.NewLogger(settings.Development, settings.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(l)
	return l, func() {
		_ = l.Sync()
		restore()
	}, nil
}

func provideRecorder() *metrics.Recorder {
	return metrics.NewRecorder()
}

// provideProviderConfig loads the provider configuration, falling back to
// ~/.transcribe-all/providers.yaml and then to the built-in defaults.
func provideProviderConfig(settings *config.Settings, log *zap.Logger) (*provider.ProviderConfiguration, error) {
	path := settings.ProviderConfigPath
	if path == "" {
		path = provider.GetDefaultConfigPath()
	}
	cfg, err := provider.NewConfigManager(path).LoadConfig()
	if err != nil {
		return nil, err
	}
	log.Debug("provider configuration loaded", zap.String("path", path), zap.String("default", cfg.DefaultProvider))
	return cfg, nil
}

// provideTranscriberFactory defers provider construction until the batch has
// something to transcribe.
func provideTranscriberFactory(cfg *provider.ProviderConfiguration, settings *config.Settings, log *zap.Logger) converter.TranscriberFactory {
	return func() (api.Transcriber, error) {
		transcriber, err := provider.NewTranscriber(cfg, settings.Provider)
		if err != nil {
			return nil, err
		}
		name := settings.Provider
		if name == "" {
			name = cfg.DefaultProvider
		}
		log.Info("using transcription provider", zap.String("provider", name))
		return transcriber, nil
	}
}
