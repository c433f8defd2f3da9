// Package options binds the persistent CLI flags and resolves them against
// the environment into config.Settings.
package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"transcribe-all/internal/config"
)

// Flags holds the raw values of the persistent flags.
type Flags struct {
	Root           string
	OutputDir      string
	Extensions     []string
	Provider       string
	ProviderConfig string
	LogLevel       string
	Development    bool
	MetricsFile    string
}

// Global is bound to the root command's persistent flags.
var Global Flags

// Bind registers the persistent flags on fs.
func (f *Flags) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Root, "root", "r", "", "directory to scan recursively (default: working directory, $"+config.EnvScanRoot+")")
	fs.StringVarP(&f.OutputDir, "output-dir", "o", "", "transcript directory, relative to the root unless absolute (default: "+config.DefaultOutputDirName+")")
	fs.StringSliceVarP(&f.Extensions, "ext", "e", nil, "file extension to include, repeatable (default: .mp3,.mp4)")
	fs.StringVarP(&f.Provider, "provider", "p", "", "transcription provider from the provider config (default: its default_provider)")
	fs.StringVar(&f.ProviderConfig, "provider-config", "", "provider config YAML (default: ~/.transcribe-all/providers.yaml)")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.BoolVar(&f.Development, "dev", false, "human-readable development logging")
	fs.StringVar(&f.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
}

// Resolve layers explicitly set flags over config.DefaultSettings and
// validates the result.
func (f *Flags) Resolve(cmd *cobra.Command) (*config.Settings, error) {
	settings := config.DefaultSettings()
	changed := cmd.Flags().Changed

	if changed("root") {
		settings.ScanRoot = f.Root
	}
	if changed("output-dir") {
		settings.OutputDirName = f.OutputDir
	}
	if changed("ext") {
		settings.Extensions = f.Extensions
	}
	if changed("provider") {
		settings.Provider = f.Provider
	}
	if changed("provider-config") {
		settings.ProviderConfigPath = f.ProviderConfig
	}
	if changed("log-level") {
		settings.LogLevel = f.LogLevel
	}
	if changed("dev") {
		settings.Development = f.Development
	}
	if changed("metrics-file") {
		settings.MetricsFile = f.MetricsFile
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
