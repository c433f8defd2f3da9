package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "transcribe-all/internal/app/errors"
	"transcribe-all/internal/app/util/files"
)

// Environment variables read by DefaultSettings.
const (
	EnvScanRoot       = "TRANSCRIBE_SCAN_ROOT"
	EnvOutputDir      = "TRANSCRIBE_OUTPUT_DIR"
	EnvExtensions     = "TRANSCRIBE_EXTENSIONS"
	EnvProvider       = "TRANSCRIBE_PROVIDER"
	EnvProviderConfig = "TRANSCRIBE_PROVIDER_CONFIG"
	EnvLogLevel       = "TRANSCRIBE_LOG_LEVEL"
	EnvMetricsFile    = "TRANSCRIBE_METRICS_FILE"
)

// DefaultOutputDirName is created under the scan root.
const DefaultOutputDirName = "transcripts"

// Settings is the resolved configuration of one batch run.
type Settings struct {
	// ScanRoot is searched recursively for media files.
	ScanRoot string `validate:"required"`
	// OutputDirName is relative to ScanRoot unless absolute.
	OutputDirName string `validate:"required"`
	// Extensions is the allow-list, matched case-insensitively.
	Extensions []string `validate:"required,min=1,dive,required"`

	// Provider names an entry of the provider configuration; empty uses its default.
	Provider           string
	ProviderConfigPath string

	LogLevel    string `validate:"omitempty,oneof=debug info warn error"`
	Development bool

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string
}

// DefaultSettings builds settings from the environment, falling back to the
// working directory as scan root.
func DefaultSettings() *Settings {
	scanRoot := os.Getenv(EnvScanRoot)
	if scanRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			scanRoot = wd
		}
	}

	extensions := files.DefaultExtensions
	if raw := os.Getenv(EnvExtensions); raw != "" {
		extensions = strings.Split(raw, ",")
	}

	return &Settings{
		ScanRoot:           scanRoot,
		OutputDirName:      getEnvOrDefault(EnvOutputDir, DefaultOutputDirName),
		Extensions:         extensions,
		Provider:           os.Getenv(EnvProvider),
		ProviderConfigPath: os.Getenv(EnvProviderConfig),
		LogLevel:           getEnvOrDefault(EnvLogLevel, "info"),
		MetricsFile:        os.Getenv(EnvMetricsFile),
	}
}

// Validate normalizes the extension list, makes ScanRoot absolute and checks
// the result.
func (s *Settings) Validate() error {
	s.Extensions = files.NormalizeExtensions(s.Extensions)
	s.LogLevel = strings.ToLower(s.LogLevel)

	if s.ScanRoot != "" {
		abs, err := files.GetAbsolutePath(s.ScanRoot)
		if err != nil {
			return apperrors.Mark(apperrors.ErrInvalidConfig, apperrors.Wrapf(err, "resolve scan root %s", s.ScanRoot))
		}
		s.ScanRoot = abs
	}

	if err := validator.New().Struct(s); err != nil {
		return apperrors.Mark(apperrors.ErrInvalidConfig, err)
	}
	return nil
}

// OutputDir returns the directory transcripts are written to.
func (s *Settings) OutputDir() string {
	if filepath.IsAbs(s.OutputDirName) {
		return s.OutputDirName
	}
	return filepath.Join(s.ScanRoot, s.OutputDirName)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
