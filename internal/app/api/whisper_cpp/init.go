package whisper_cpp

import (
	"transcribe-all/internal/app/api"
	"transcribe-all/internal/app/api/provider"
	apperrors "transcribe-all/internal/app/errors"
)

func init() {
	provider.RegisterProvider("whisper_cpp", createWhisperCppProvider, provider.ProviderInfo{
		DisplayName:    "Whisper.cpp (Local)",
		Type:           provider.ProviderTypeLocal,
		RequiresBinary: true,
	})
}

// createWhisperCppProvider creates a whisper.cpp provider from configuration
func createWhisperCppProvider(config provider.ProviderConfig) (api.Transcriber, error) {
	settings := config.Settings

	binaryPath := provider.StringSetting(settings, "binary_path", "")
	if binaryPath == "" {
		return nil, apperrors.Mark(apperrors.ErrInvalidConfig, apperrors.RequiredField("whisper_cpp binary_path"))
	}

	modelPath := provider.StringSetting(settings, "model_path", "")
	if modelPath == "" {
		return nil, apperrors.Mark(apperrors.ErrInvalidConfig, apperrors.RequiredField("whisper_cpp model_path"))
	}

	return NewLocalTranscriber(
		binaryPath,
		modelPath,
		provider.StringSetting(settings, "language", "auto"),
		provider.StringSetting(settings, "prompt", ""),
		provider.StringSetting(settings, "temp_dir", ""),
	), nil
}
