package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcribe-all/internal/app/api"
	apperrors "transcribe-all/internal/app/errors"
)

type stubTranscriber struct {
	text  string
	err   error
	delay time.Duration
}

func (s *stubTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

func registerStub(t *testing.T, providerType string, creator ProviderCreator) {
	t.Helper()
	RegisterProvider(providerType, creator, ProviderInfo{DisplayName: "Stub", Type: ProviderTypeLocal})
	t.Cleanup(func() { unregisterProvider(providerType) })
}

func TestRegistry(t *testing.T) {
	registerStub(t, "zz_stub", func(config ProviderConfig) (api.Transcriber, error) {
		return &stubTranscriber{text: "ok"}, nil
	})
	registerStub(t, "aa_stub", func(config ProviderConfig) (api.Transcriber, error) {
		return &stubTranscriber{text: "ok"}, nil
	})

	providers := ListRegisteredProviders()
	assert.Contains(t, providers, "zz_stub")
	assert.Contains(t, providers, "aa_stub")
	assert.IsIncreasing(t, providers)

	info, ok := GetProviderInfo("zz_stub")
	require.True(t, ok)
	assert.Equal(t, "zz_stub", info.Name)
	assert.Equal(t, "Stub", info.DisplayName)

	_, err := GetProviderCreator("missing")
	assert.ErrorIs(t, err, apperrors.ErrProviderNotFound)
}

func TestNewTranscriber(t *testing.T) {
	var received ProviderConfig
	registerStub(t, "stub", func(config ProviderConfig) (api.Transcriber, error) {
		received = config
		return &stubTranscriber{text: "from stub"}, nil
	})
	registerStub(t, "broken", func(config ProviderConfig) (api.Transcriber, error) {
		return nil, apperrors.ErrMissingAPIKey
	})

	config := &ProviderConfiguration{
		DefaultProvider: "primary",
		Providers: map[string]ProviderConfig{
			"primary":  {Type: "stub", Enabled: true, Settings: map[string]interface{}{"model": "m1"}},
			"disabled": {Type: "stub", Enabled: false},
			"unknown":  {Type: "nope", Enabled: true},
			"broken":   {Type: "broken", Enabled: true},
		},
	}

	t.Run("default provider", func(t *testing.T) {
		transcriber, err := NewTranscriber(config, "")
		require.NoError(t, err)
		text, err := transcriber.Transcript(context.Background(), "a.mp3")
		require.NoError(t, err)
		assert.Equal(t, "from stub", text)
		assert.Equal(t, "m1", received.Settings["model"])
	})

	t.Run("missing provider", func(t *testing.T) {
		_, err := NewTranscriber(config, "absent")
		assert.ErrorIs(t, err, apperrors.ErrProviderNotFound)
	})

	t.Run("disabled provider", func(t *testing.T) {
		_, err := NewTranscriber(config, "disabled")
		assert.ErrorIs(t, err, apperrors.ErrProviderDisabled)
	})

	t.Run("unregistered type", func(t *testing.T) {
		_, err := NewTranscriber(config, "unknown")
		assert.ErrorIs(t, err, apperrors.ErrProviderNotFound)
	})

	t.Run("creator error", func(t *testing.T) {
		_, err := NewTranscriber(config, "broken")
		assert.ErrorIs(t, err, apperrors.ErrMissingAPIKey)
		assert.Contains(t, err.Error(), "create provider broken")
	})
}

func TestWithTimeout(t *testing.T) {
	slow := WithTimeout(&stubTranscriber{text: "late", delay: time.Second}, 20*time.Millisecond)
	_, err := slow.Transcript(context.Background(), "slow.mp3")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProviderTimeout)
	assert.Contains(t, err.Error(), "slow.mp3")

	fast := WithTimeout(&stubTranscriber{text: "quick"}, time.Second)
	text, err := fast.Transcript(context.Background(), "fast.mp3")
	require.NoError(t, err)
	assert.Equal(t, "quick", text)

	failing := WithTimeout(&stubTranscriber{err: errors.New("bad audio")}, time.Second)
	_, err = failing.Transcript(context.Background(), "bad.mp3")
	assert.EqualError(t, err, "bad audio")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("WHISPER_CPP_BINARY", "/opt/whisper/main")

	cm := NewConfigManager(filepath.Join(t.TempDir(), "providers.yaml"))
	config, err := cm.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "openai", config.DefaultProvider)
	assert.Equal(t, "sk-test", config.Providers["openai"].Auth.APIKey)
	assert.Equal(t, "/opt/whisper/main", config.Providers["whisper_cpp"].Settings["binary_path"])
	assert.Same(t, config, cm.GetConfig())

	_, err = os.Stat(filepath.Join(filepath.Dir(cm.configPath), "providers.yaml"))
	assert.True(t, os.IsNotExist(err), "defaults must not be written to disk")
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "aai-key")

	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_provider: aai
providers:
  aai:
    type: assemblyai
    enabled: true
    auth:
      api_key: ${ASSEMBLYAI_API_KEY}
    settings:
      max_polls: 5
    performance:
      timeout_sec: 30
`), 0o644))

	config, err := NewConfigManager(path).LoadConfig()
	require.NoError(t, err)

	aai := config.Providers["aai"]
	assert.Equal(t, "assemblyai", aai.Type)
	assert.Equal(t, "aai-key", aai.Auth.APIKey)
	assert.Equal(t, 30, aai.Performance.TimeoutSec)
	polls, err := IntSetting(aai.Settings, "max_polls", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, polls)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		yaml          string
		errorContains string
	}{
		{
			name:          "malformed yaml",
			yaml:          "default_provider: [",
			errorContains: "failed to parse config YAML",
		},
		{
			name:          "default provider missing",
			yaml:          "default_provider: x\nproviders:\n  y:\n    type: openai\n    enabled: true\n",
			errorContains: "default provider 'x' not found",
		},
		{
			name:          "default provider disabled",
			yaml:          "default_provider: y\nproviders:\n  y:\n    type: openai\n    enabled: false\n",
			errorContains: "default provider 'y' is disabled",
		},
		{
			name:          "provider without type",
			yaml:          "default_provider: y\nproviders:\n  y:\n    enabled: true\n",
			errorContains: "Type",
		},
		{
			name:          "negative timeout",
			yaml:          "default_provider: y\nproviders:\n  y:\n    type: openai\n    enabled: true\n    performance:\n      timeout_sec: -1\n",
			errorContains: "TimeoutSec",
		},
		{
			name:          "bad base url",
			yaml:          "default_provider: y\nproviders:\n  y:\n    type: openai\n    enabled: true\n    auth:\n      base_url: not a url\n",
			errorContains: "BaseURL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "providers.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := NewConfigManager(path).LoadConfig()
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestSettings(t *testing.T) {
	settings := map[string]interface{}{
		"name":  "whisper-1",
		"blank": "",
		"int":   3,
		"float": 2.5,
		"str":   "7",
		"bad":   "x",
		"list":  []string{"a"},
	}

	assert.Equal(t, "whisper-1", StringSetting(settings, "name", "d"))
	assert.Equal(t, "d", StringSetting(settings, "blank", "d"))
	assert.Equal(t, "d", StringSetting(settings, "missing", "d"))

	n, err := IntSetting(settings, "int", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = IntSetting(settings, "float", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = IntSetting(settings, "str", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	n, err = IntSetting(settings, "missing", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	_, err = IntSetting(settings, "bad", 0)
	assert.Error(t, err)
	_, err = IntSetting(settings, "list", 0)
	assert.Error(t, err)

	f, err := FloatSetting(settings, "float", 0)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)
	f, err = FloatSetting(settings, "int", 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)
}
