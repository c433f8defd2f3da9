package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"transcribe-all/cmd/transcribe-all/cmd"
	"transcribe-all/internal/config"

	// Import providers to register them
	_ "transcribe-all/internal/app/api/assemblyai"
	_ "transcribe-all/internal/app/api/elevenlabs"
	_ "transcribe-all/internal/app/api/gemini"
	_ "transcribe-all/internal/app/api/openai/whisper"
	_ "transcribe-all/internal/app/api/whisper_cpp"
)

func main() {
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
