package providers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"transcribe-all/cmd/transcribe-all/cmd/options"
	"transcribe-all/internal/app/api/provider"
	"transcribe-all/internal/config"
)

// Cmd represents the providers command
var Cmd = &cobra.Command{
	Use:   "providers",
	Short: "List transcription providers",
	Long: `List the registered transcription provider types, the providers defined in
the provider configuration and which one is used by default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := options.Global.Resolve(cmd)
		if err != nil {
			return err
		}

		path := settings.ProviderConfigPath
		if path == "" {
			path = provider.GetDefaultConfigPath()
		}
		cfg, err := provider.NewConfigManager(path).LoadConfig()
		if err != nil {
			return err
		}

		return printProviders(cmd.OutOrStdout(), cfg, settings.Provider, config.GetAPIKeys())
	},
}

func printProviders(w io.Writer, cfg *provider.ProviderConfiguration, selected string, keys *config.APIKeys) error {
	if selected == "" {
		selected = cfg.DefaultProvider
	}

	fmt.Fprintln(w, "Registered provider types:")
	for _, name := range provider.ListRegisteredProviders() {
		info, _ := provider.GetProviderInfo(name)
		var needs []string
		if info.RequiresAPIKey {
			needs = append(needs, "api key")
		}
		if info.RequiresBinary {
			needs = append(needs, "binary")
		}
		line := fmt.Sprintf("  %-12s %-20s %s", name, info.DisplayName, info.Type)
		if len(needs) > 0 {
			line += " (needs " + strings.Join(needs, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, "Configured providers:")
	names := lo.Keys(cfg.Providers)
	sort.Strings(names)
	for _, name := range names {
		pc := cfg.Providers[name]
		marker := " "
		if name == selected {
			marker = "*"
		}
		state := "enabled"
		if !pc.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(w, "%s %-12s type=%s %s\n", marker, name, pc.Type, state)
	}

	available := keys.Available()
	if len(available) == 0 {
		fmt.Fprintln(w, "API keys found: none")
	} else {
		fmt.Fprintf(w, "API keys found: %s\n", strings.Join(available, ", "))
	}
	return nil
}
