package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transcribe-all/cmd/transcribe-all/cmd/options"
	"transcribe-all/cmd/transcribe-all/cmd/providers"
	"transcribe-all/cmd/transcribe-all/cmd/version"
	"transcribe-all/internal/app"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcribe-all",
	Short: "Transcribe every audio and video file under a directory",
	Long: `Transcribe every audio and video file under a directory.

- Recursively finds .mp3 and .mp4 files (see --ext) under the scan root
- Sends them one at a time to the configured transcription provider
- Writes <root>/transcripts/<name>_transcript.txt for each file
- Stops at the first failure; transcripts already written are kept`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	RunE:          runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	settings, err := options.Global.Resolve(cmd)
	if err != nil {
		return err
	}

	converter, cleanup, err := app.InitializeBatchConverter(settings)
	if err != nil {
		return err
	}
	defer cleanup()
	converter.SetConsole(cmd.OutOrStdout())

	_, runErr := converter.Do(cmd.Context())

	if settings.MetricsFile != "" {
		if err := converter.Metrics().WriteTextfile(settings.MetricsFile); err != nil {
			zap.L().Warn("failed to write metrics file", zap.String("path", settings.MetricsFile), zap.Error(err))
		}
	}
	return runErr
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(providers.Cmd)
	rootCmd.AddCommand(version.Cmd)

	options.Global.Bind(rootCmd.PersistentFlags())
}
